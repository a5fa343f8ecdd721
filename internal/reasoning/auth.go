package reasoning

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/ericogr/creature-arena/internal/constants"
)

// TokenSource builds the credentials for the configured auth mode:
// a static bearer key read from apiKeyEnv, Google default credentials, or
// none (nil source) for local unauthenticated servers.
func TokenSource(ctx context.Context, mode, apiKeyEnv string) (oauth2.TokenSource, error) {
	switch mode {
	case constants.AuthBearer, "":
		if apiKeyEnv == "" {
			apiKeyEnv = constants.EnvOpenAIAPIKey
		}
		key := os.Getenv(apiKeyEnv)
		if key == "" {
			return nil, fmt.Errorf("%s not set", apiKeyEnv)
		}
		return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: key, TokenType: "Bearer"}), nil
	case constants.AuthGoogle:
		return google.DefaultTokenSource(ctx, constants.GoogleCloudScope)
	case constants.AuthNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown auth mode '%s'", mode)
	}
}
