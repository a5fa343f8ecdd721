package api

import (
	"github.com/gin-gonic/gin"

	"github.com/ericogr/creature-arena/internal/constants"
)

// RegisterRoutes mounts every endpoint under the API prefix.
func RegisterRoutes(router *gin.Engine, h *BattleHandler) {
	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		apiRoutes.GET(constants.RouteVersion, Version)
		apiRoutes.GET(constants.RouteMoveByName, h.GetMove)
		apiRoutes.GET(constants.RouteSpecies, h.ListSpecies)
		apiRoutes.GET(constants.RouteLeaderboard, h.ListLeaderboard)

		apiRoutes.POST(constants.RouteBattles, h.CreateBattle)
		apiRoutes.GET(constants.RouteBattleByID, h.GetBattle)
		apiRoutes.POST(constants.RouteBattleStart, h.StartBattle)
		apiRoutes.POST(constants.RouteBattleAction, h.SubmitAction)
		apiRoutes.GET(constants.RouteBattleTurns, h.ListTurns)
	}
}
