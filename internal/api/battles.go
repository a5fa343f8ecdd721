package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ericogr/creature-arena/internal/constants"
	"github.com/ericogr/creature-arena/internal/dedupe"
	"github.com/ericogr/creature-arena/internal/game"
	"github.com/ericogr/creature-arena/internal/keys"
	"github.com/ericogr/creature-arena/internal/logging"
	"github.com/ericogr/creature-arena/internal/session"
	"github.com/ericogr/creature-arena/internal/storage"
)

// TeamMember selects a species and optionally its moves. Without moves the
// first four of the learnset are used.
type TeamMember struct {
	Species string   `json:"species"`
	Moves   []string `json:"moves"`
}

type CreateBattlePayload struct {
	PlayerName   string       `json:"player_name"`
	OpponentName string       `json:"opponent_name"`
	Difficulty   string       `json:"difficulty"`
	Team         []TeamMember `json:"team"`
	OpponentTeam []TeamMember `json:"opponent_team"`
}

// CreateBattle creates a pending human-vs-AI battle.
func (h *BattleHandler) CreateBattle(c *gin.Context) {
	var req CreateBattlePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	difficulty, ok := h.difficulty(req.Difficulty)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrUnknownDifficulty})
		return
	}
	team, err := h.buildTeam(req.Team)
	if err != nil {
		badTeam(c, err)
		return
	}
	opponentTeam, err := h.buildTeam(req.OpponentTeam)
	if err != nil {
		badTeam(c, err)
		return
	}
	if req.PlayerName == "" {
		req.PlayerName = "Player"
	}
	if req.OpponentName == "" {
		req.OpponentName = "Rival"
	}

	human := game.NewHumanParticipant(req.PlayerName, team)
	ai := game.NewAIParticipant(req.OpponentName, opponentTeam, h.decider, difficulty)
	b := game.NewBattle(human, ai)
	s, err := session.New(b, session.Options{
		Registry:    h.registry,
		Resolver:    h.resolver,
		HistorySize: h.historySize,
		Recorder:    h.repo,
		Hook:        h.repo,
	})
	if err != nil {
		logging.Error("failed to create session", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateBattle})
		return
	}
	if err := h.repo.SaveBattle(c.Request.Context(), b, difficulty); err != nil {
		logging.Error("failed to save battle", err, logging.Fields{constants.LogFieldBattleID: b.ID})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateBattle})
		return
	}
	h.put(s)
	logging.Info("battle created", logging.Fields{
		constants.LogFieldBattleID:   b.ID,
		constants.LogFieldDifficulty: difficulty,
	})
	c.JSON(http.StatusCreated, gin.H{
		"battle_id": b.ID,
		"status":    b.Status,
	})
}

var errTeamSize = errors.New(constants.ErrTeamSizeOutOfRange)

func (h *BattleHandler) buildTeam(members []TeamMember) ([]*game.Creature, error) {
	if len(members) == 0 || len(members) > constants.MaxTeamSize {
		return nil, errTeamSize
	}
	team := make([]*game.Creature, 0, len(members))
	for _, m := range members {
		cr, err := h.registry.NewCreature(m.Species, m.Moves)
		if err != nil {
			return nil, err
		}
		team = append(team, cr)
	}
	return team, nil
}

func badTeam(c *gin.Context, err error) {
	if errors.Is(err, errTeamSize) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrTeamSizeOutOfRange})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{
		constants.JSONKeyError:   constants.ErrInvalidTeamCreature,
		constants.JSONKeyMessage: err.Error(),
	})
}

// GetBattle returns the battle as a TurnResult: the live snapshot, or for a
// battle no longer held in memory the last stored turn.
func (h *BattleHandler) GetBattle(c *gin.Context) {
	id := c.Param("battleID")
	if s, ok := h.session(id); ok {
		c.JSON(http.StatusOK, s.Snapshot())
		return
	}
	ctx := c.Request.Context()
	rec, err := h.repo.GetBattle(ctx, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
		return
	}
	turns, err := h.repo.ListTurns(ctx, id)
	if err != nil {
		logging.Error("failed to fetch turns", err, logging.Fields{constants.LogFieldBattleID: id})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchTurns})
		return
	}
	if n := len(turns); n > 0 && len(turns[n-1].Snapshot) > 0 {
		c.Data(http.StatusOK, "application/json; charset=utf-8", turns[n-1].Snapshot)
		return
	}
	// never played: only the header exists
	status := game.Status(rec.Status)
	c.JSON(http.StatusOK, &game.TurnResult{
		BattleID:    rec.ID,
		Turn:        rec.Turns,
		Status:      status,
		BattleEnded: status == game.StatusCompleted,
		Winner:      rec.Winner,
	})
}

// StartBattle moves a pending battle to IN_PROGRESS. Starting a running
// battle is a no-op.
func (h *BattleHandler) StartBattle(c *gin.Context) {
	s, ok := h.session(c.Param("battleID"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
		return
	}
	if s.Snapshot().Status == game.StatusCompleted {
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrBattleCompleted})
		return
	}
	if s.Start() {
		if err := h.repo.SaveBattle(c.Request.Context(), s.Battle(), ""); err != nil {
			logging.Error("failed to save battle", err, logging.Fields{constants.LogFieldBattleID: s.ID()})
		}
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// SubmitAction plays one turn: the player's action, then the AI's.
// Identical concurrent submissions for the same turn resolve once.
func (h *BattleHandler) SubmitAction(c *gin.Context) {
	s, ok := h.session(c.Param("battleID"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
		return
	}
	var req session.PlayerAction
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	key := keys.ActionKey(s.ID(), s.Turn()+1, string(req.Action), req.Index)
	v, err, shared := dedupe.ActionGroup.Do(key, func() (interface{}, error) {
		return s.PlayTurn(c.Request.Context(), req)
	})
	if err != nil {
		switch {
		case errors.Is(err, session.ErrIllegalMove):
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrIllegalMove, constants.JSONKeyMessage: err.Error()})
		case errors.Is(err, session.ErrIllegalSwitch):
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrIllegalSwitch, constants.JSONKeyMessage: err.Error()})
		case errors.Is(err, session.ErrBattleCompleted):
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrBattleCompleted})
		case errors.Is(err, session.ErrBattleNotStarted):
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrBattleNotStarted})
		default:
			logging.Error("failed to resolve turn", err, logging.Fields{constants.LogFieldBattleID: s.ID()})
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedResolveTurn})
		}
		return
	}
	if shared {
		logging.Debug("duplicate action submission collapsed", logging.Fields{constants.LogFieldBattleID: s.ID()})
	}
	c.JSON(http.StatusOK, v.(*game.TurnResult))
}

// ListTurns returns the stored turns of a battle in order.
func (h *BattleHandler) ListTurns(c *gin.Context) {
	id := c.Param("battleID")
	if _, ok := h.session(id); !ok {
		if _, err := h.repo.GetBattle(c.Request.Context(), id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
				return
			}
			logging.Error("failed to fetch battle", err, logging.Fields{constants.LogFieldBattleID: id})
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchTurns})
			return
		}
	}
	turns, err := h.repo.ListTurns(c.Request.Context(), id)
	if err != nil {
		logging.Error("failed to fetch turns", err, logging.Fields{constants.LogFieldBattleID: id})
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchTurns})
		return
	}
	c.JSON(http.StatusOK, gin.H{"battle_id": id, "turns": turns})
}
