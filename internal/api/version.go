package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ericogr/creature-arena/internal/version"
)

// Version reports the build metadata; the healthcheck probes this route.
func Version(c *gin.Context) {
	c.JSON(http.StatusOK, version.Get())
}
