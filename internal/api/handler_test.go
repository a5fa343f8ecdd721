package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericogr/creature-arena/internal/constants"
	"github.com/ericogr/creature-arena/internal/decision"
	"github.com/ericogr/creature-arena/internal/engine"
	"github.com/ericogr/creature-arena/internal/game"
	"github.com/ericogr/creature-arena/internal/registry"
	"github.com/ericogr/creature-arena/internal/storage"
)

const catalog = `{
  "moves": [
    {"name": "tackle", "type": "normal", "damage_class": "physical", "power": 40},
    {"name": "growl", "type": "normal", "damage_class": "status"},
    {"name": "thunderbolt", "type": "electric", "damage_class": "special", "power": 90},
    {"name": "surf", "type": "water", "damage_class": "special", "power": 90}
  ],
  "species": [
    {"id": 25, "name": "pikachu", "types": ["electric"],
     "base_stats": {"hp": 35, "attack": 55, "defense": 40, "special_attack": 50, "special_defense": 50, "speed": 90},
     "learnset": ["thunderbolt", "tackle", "growl"]},
    {"id": 7, "name": "squirtle", "types": ["water"],
     "base_stats": {"hp": 44, "attack": 48, "defense": 65, "special_attack": 50, "special_defense": 64, "speed": 43},
     "learnset": ["tackle", "surf", "growl"]}
  ]
}`

type testServer struct {
	router  *gin.Engine
	handler *BattleHandler
	repo    storage.Repository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg, err := registry.Parse(strings.NewReader(catalog))
	require.NoError(t, err)
	db, err := storage.OpenAndMigrate(fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_")))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	repo := storage.NewRepository(db)

	rb, err := decision.NewRuleBased(reg, nil, nil)
	require.NoError(t, err)
	pipeline, err := decision.NewPipeline(decision.Options{
		Registry:          reg,
		Fallback:          rb,
		Profiles:          map[string]decision.Profile{"easy": {SkipProbability: 1}, "normal": {SkipProbability: 0.3}},
		DefaultDifficulty: "normal",
		Rand:              rand.New(rand.NewSource(1)),
	})
	require.NoError(t, err)

	h, err := NewBattleHandler(Options{
		Registry:          reg,
		Decider:           pipeline,
		Resolver:          engine.NewTurnResolver(engine.NewDamageCalculator(nil, rand.New(rand.NewSource(2)))),
		Repo:              repo,
		Difficulties:      []string{"easy", "normal"},
		DefaultDifficulty: "normal",
		HistorySize:       3,
	})
	require.NoError(t, err)

	r := gin.New()
	RegisterRoutes(r, h)
	return &testServer{router: r, handler: h, repo: repo}
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, constants.RouteAPIPrefix+path, &buf)
	req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (ts *testServer) createBattle(t *testing.T, payload CreateBattlePayload) string {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/battles", payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode[map[string]string](t, w)
	require.NotEmpty(t, resp["battle_id"])
	assert.Equal(t, string(game.StatusPending), resp["status"])
	return resp["battle_id"]
}

func defaultPayload() CreateBattlePayload {
	return CreateBattlePayload{
		PlayerName:   "Ash",
		OpponentName: "Gary",
		Difficulty:   "easy",
		Team:         []TeamMember{{Species: "pikachu"}},
		OpponentTeam: []TeamMember{{Species: "squirtle", Moves: []string{"growl"}}},
	}
}

func TestVersionEndpoint(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, "/version", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decode[map[string]string](t, w), "version")
}

func TestCatalogEndpoints(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/moves/Thunderbolt", nil)
	require.Equal(t, http.StatusOK, w.Code)
	m := decode[game.Move](t, w)
	assert.Equal(t, "thunderbolt", m.Name)
	assert.Equal(t, game.ClassSpecial, m.Class)

	w = ts.do(t, http.MethodGet, "/moves/hyper-beam", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodGet, "/species", nil)
	require.Equal(t, http.StatusOK, w.Code)
	species := decode[[]registry.Species](t, w)
	require.Len(t, species, 2)
	assert.Equal(t, "pikachu", species[0].Name)
}

func TestCreateBattleValidation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name    string
		payload interface{}
		want    string
	}{
		{"malformed", "not an object", constants.ErrInvalidRequest},
		{"empty team", CreateBattlePayload{OpponentTeam: []TeamMember{{Species: "pikachu"}}}, constants.ErrTeamSizeOutOfRange},
		{"unknown species", CreateBattlePayload{Team: []TeamMember{{Species: "mewtwo"}}, OpponentTeam: []TeamMember{{Species: "pikachu"}}}, constants.ErrInvalidTeamCreature},
		{"unknown move", CreateBattlePayload{Team: []TeamMember{{Species: "pikachu", Moves: []string{"fly"}}}, OpponentTeam: []TeamMember{{Species: "pikachu"}}}, constants.ErrInvalidTeamCreature},
		{"unknown difficulty", CreateBattlePayload{Difficulty: "nightmare", Team: []TeamMember{{Species: "pikachu"}}, OpponentTeam: []TeamMember{{Species: "pikachu"}}}, constants.ErrUnknownDifficulty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/battles", tt.payload)
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.want, decode[map[string]string](t, w)[constants.JSONKeyError])
		})
	}
}

func TestBattleFlow(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createBattle(t, defaultPayload())

	w := ts.do(t, http.MethodPost, "/battles/"+id+"/action", map[string]interface{}{"action": "move", "index": 0})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, constants.ErrBattleNotStarted, decode[map[string]string](t, w)[constants.JSONKeyError])

	w = ts.do(t, http.MethodPost, "/battles/"+id+"/start", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, game.StatusInProgress, decode[game.TurnResult](t, w).Status)

	w = ts.do(t, http.MethodPost, "/battles/"+id+"/action", map[string]interface{}{"action": "move", "index": 9})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, constants.ErrIllegalMove, decode[map[string]string](t, w)[constants.JSONKeyError])

	w = ts.do(t, http.MethodPost, "/battles/"+id+"/action", map[string]interface{}{"action": "switch", "index": 0})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, constants.ErrIllegalSwitch, decode[map[string]string](t, w)[constants.JSONKeyError])

	var last game.TurnResult
	for turn := 1; turn <= 20 && !last.BattleEnded; turn++ {
		w = ts.do(t, http.MethodPost, "/battles/"+id+"/action", map[string]interface{}{"action": "move", "index": 0})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		last = decode[game.TurnResult](t, w)
		assert.Equal(t, turn, last.Turn)
		assert.Contains(t, last.Narrative, "Pikachu used Thunderbolt!")
	}
	require.True(t, last.BattleEnded)
	assert.Equal(t, "Ash", last.Winner)
	assert.Equal(t, game.StatusCompleted, last.Status)

	w = ts.do(t, http.MethodPost, "/battles/"+id+"/action", map[string]interface{}{"action": "move", "index": 0})
	assert.Equal(t, http.StatusConflict, w.Code)
	w = ts.do(t, http.MethodPost, "/battles/"+id+"/start", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = ts.do(t, http.MethodGet, "/battles/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ash", decode[game.TurnResult](t, w).Winner)

	w = ts.do(t, http.MethodGet, "/battles/"+id+"/turns", nil)
	require.Equal(t, http.StatusOK, w.Code)
	turns := decode[struct {
		BattleID string            `json:"battle_id"`
		Turns    []storage.TurnLog `json:"turns"`
	}](t, w)
	assert.Equal(t, id, turns.BattleID)
	require.Len(t, turns.Turns, last.Turn)
	assert.True(t, turns.Turns[len(turns.Turns)-1].Ended)

	w = ts.do(t, http.MethodGet, "/leaderboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	board := decode[[]storage.WinnerStat](t, w)
	require.Len(t, board, 1)
	assert.Equal(t, storage.WinnerStat{Name: "Ash", Wins: 1}, board[0])
}

func TestUnknownBattle(t *testing.T) {
	ts := newTestServer(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/battles/nope"},
		{http.MethodPost, "/battles/nope/start"},
		{http.MethodPost, "/battles/nope/action"},
		{http.MethodGet, "/battles/nope/turns"},
	} {
		w := ts.do(t, tc.method, tc.path, map[string]interface{}{"action": "move"})
		assert.Equal(t, http.StatusNotFound, w.Code, tc.path)
	}

	w := ts.do(t, http.MethodGet, "/leaderboard?limit=zero", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExpireIdleForfeitsHuman(t *testing.T) {
	ts := newTestServer(t)
	pending := ts.createBattle(t, defaultPayload())
	running := ts.createBattle(t, defaultPayload())
	require.Equal(t, http.StatusOK, ts.do(t, http.MethodPost, "/battles/"+running+"/start", nil).Code)

	ctx := context.Background()
	assert.Zero(t, ts.handler.ExpireIdle(ctx, time.Now(), time.Hour))
	assert.Equal(t, 2, ts.handler.ExpireIdle(ctx, time.Now().Add(2*time.Hour), time.Hour))

	rec, err := ts.repo.GetBattle(ctx, running)
	require.NoError(t, err)
	assert.Equal(t, string(game.StatusCompleted), rec.Status)
	assert.Equal(t, "Gary", rec.Winner)

	// no longer live: same shape as a live battle, from the last stored turn
	w := ts.do(t, http.MethodGet, "/battles/"+running, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stored := decode[game.TurnResult](t, w)
	assert.Equal(t, running, stored.BattleID)
	assert.Equal(t, game.StatusCompleted, stored.Status)
	assert.True(t, stored.BattleEnded)
	assert.Equal(t, "Gary", stored.Winner)
	assert.Equal(t, "Ash forfeited.", stored.Narrative)
	assert.Len(t, stored.Participants, 2)

	w = ts.do(t, http.MethodGet, "/battles/"+pending, nil)
	require.Equal(t, http.StatusOK, w.Code)
	never := decode[game.TurnResult](t, w)
	assert.Equal(t, pending, never.BattleID)
	assert.Equal(t, game.StatusPending, never.Status)
	assert.False(t, never.BattleEnded)
	assert.Zero(t, never.Turn)

	w = ts.do(t, http.MethodPost, "/battles/"+pending+"/start", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
