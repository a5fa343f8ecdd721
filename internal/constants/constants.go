package constants

import "time"

// Centralized constants for headers, env keys and reasoning integration.
const (
	// Environment variable keys
	EnvConfigDir    = "ARENA_CONFIG_DIR"
	EnvEnvPrefix    = "ARENA"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvHealthURL    = "ARENA_HEALTHCHECK_URL"

	ConfigFileName = "arena_config.json"

	// HTTP headers and content types
	HeaderContentType = "Content-Type"
	ContentTypeJSON   = "application/json"

	// Chat completions API
	OpenAIBaseURL             = "https://api.openai.com"
	OpenAIChatCompletionsPath = "/v1/chat/completions"
	OpenAIChatModel           = "gpt-5-nano"
	GoogleCloudScope          = "https://www.googleapis.com/auth/cloud-platform"

	DefaultReasoningTimeout = 8 * time.Second
	DefaultHistorySize      = 5
	DefaultIdleTimeout      = 30 * time.Minute
	MaxTeamSize             = 6
)

// Database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Reasoning auth modes
const (
	AuthBearer = "bearer"
	AuthGoogle = "google"
	AuthNone   = "none"
)

// Routes used by the backend router
const (
	RouteAPIPrefix    = "/api"
	RouteVersion      = "/version"
	RouteMoveByName   = "/moves/:name"
	RouteSpecies      = "/species"
	RouteBattles      = "/battles"
	RouteBattleByID   = "/battles/:battleID"
	RouteBattleStart  = "/battles/:battleID/start"
	RouteBattleAction = "/battles/:battleID/action"
	RouteBattleTurns  = "/battles/:battleID/turns"
	RouteLeaderboard  = "/leaderboard"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest      = "Invalid request"
	ErrBattleNotFound      = "Battle not found"
	ErrMoveNotFound        = "Move not found"
	ErrBattleCompleted     = "Battle is already completed"
	ErrBattleNotStarted    = "Battle has not started"
	ErrIllegalMove         = "Illegal move"
	ErrIllegalSwitch       = "Illegal switch"
	ErrUnknownDifficulty   = "Unknown difficulty"
	ErrFailedCreateBattle  = "Failed to create battle"
	ErrFailedResolveTurn   = "Failed to resolve turn"
	ErrFailedFetchTurns    = "Failed to fetch turns"
	ErrFailedLeaderboard   = "Failed to fetch leaderboard"
	ErrTeamSizeOutOfRange  = "Each team needs between 1 and 6 creatures"
	ErrInvalidTeamCreature = "Invalid team creature"
)

// Logging field names
const (
	LogFieldAddr        = "addr"
	LogFieldBattleID    = "battle_id"
	LogFieldTurn        = "turn"
	LogFieldParticipant = "participant"
	LogFieldStage       = "stage"
	LogFieldReason      = "reason"
	LogFieldDecision    = "decision"
	LogFieldDifficulty  = "difficulty"
	LogFieldWinner      = "winner"
	LogFieldStatus      = "status"
	LogFieldModel       = "model"
	LogFieldDuration    = "duration_ms"
	LogFieldConfigDir   = "config_dir"
)
