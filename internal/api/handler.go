package api

import (
	"errors"
	"strings"
	"sync"

	"github.com/ericogr/creature-arena/internal/engine"
	"github.com/ericogr/creature-arena/internal/game"
	"github.com/ericogr/creature-arena/internal/registry"
	"github.com/ericogr/creature-arena/internal/session"
	"github.com/ericogr/creature-arena/internal/storage"
)

type Options struct {
	Registry *registry.Registry
	// Decider picks actions for AI opponents.
	Decider           game.Decider
	Resolver          *engine.TurnResolver
	Repo              storage.Repository
	Difficulties      []string
	DefaultDifficulty string
	HistorySize       int
}

// BattleHandler groups all battle-related HTTP handlers and owns the live
// sessions.
type BattleHandler struct {
	registry          *registry.Registry
	decider           game.Decider
	resolver          *engine.TurnResolver
	repo              storage.Repository
	difficulties      map[string]struct{}
	defaultDifficulty string
	historySize       int

	mu       sync.RWMutex
	sessions map[string]*session.Session
}

func NewBattleHandler(opts Options) (*BattleHandler, error) {
	if opts.Registry == nil || opts.Decider == nil || opts.Resolver == nil || opts.Repo == nil {
		return nil, errors.New("battle handler requires a registry, a decider, a resolver and a repository")
	}
	diffs := make(map[string]struct{}, len(opts.Difficulties))
	for _, d := range opts.Difficulties {
		diffs[strings.ToLower(d)] = struct{}{}
	}
	return &BattleHandler{
		registry:          opts.Registry,
		decider:           opts.Decider,
		resolver:          opts.Resolver,
		repo:              opts.Repo,
		difficulties:      diffs,
		defaultDifficulty: strings.ToLower(opts.DefaultDifficulty),
		historySize:       opts.HistorySize,
		sessions:          make(map[string]*session.Session),
	}, nil
}

func (h *BattleHandler) session(id string) (*session.Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sessions[id]
	return s, ok
}

func (h *BattleHandler) put(s *session.Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[s.ID()] = s
}

func (h *BattleHandler) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, id)
}

func (h *BattleHandler) all() []*session.Session {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*session.Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		out = append(out, s)
	}
	return out
}

// difficulty normalizes name, using the default when empty.
func (h *BattleHandler) difficulty(name string) (string, bool) {
	d := strings.ToLower(strings.TrimSpace(name))
	if d == "" {
		d = h.defaultDifficulty
	}
	_, ok := h.difficulties[d]
	return d, ok
}
