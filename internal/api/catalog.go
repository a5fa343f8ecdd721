package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ericogr/creature-arena/internal/constants"
	"github.com/ericogr/creature-arena/internal/logging"
)

// GetMove looks a move up by name (case-insensitive).
func (h *BattleHandler) GetMove(c *gin.Context) {
	m, ok := h.registry.FindMoveByName(c.Param("name"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrMoveNotFound})
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *BattleHandler) ListSpecies(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.SpeciesList())
}

// ListLeaderboard returns the participants with the most wins.
func (h *BattleHandler) ListLeaderboard(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	stats, err := h.repo.TopWinners(c.Request.Context(), limit)
	if err != nil {
		logging.Error("failed to fetch leaderboard", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedLeaderboard})
		return
	}
	c.JSON(http.StatusOK, stats)
}
