package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/finapp/storefront/internal/core/ports"
)

// ReconcilerRegistry hands out one CartReconciler per storefront session,
// created lazily on first access. It also implements AuthChangeHandler so
// auth transitions dispatched by session id reach the right reconciler.
type ReconcilerRegistry struct {
	guest  ports.GuestCartStore
	remote ports.RemoteCartService
	cfg    ReconcilerConfig
	log    zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*registryEntry
}

type registryEntry struct {
	reconciler *CartReconciler
	lastSeen   time.Time
}

// NewReconcilerRegistry creates an empty registry.
func NewReconcilerRegistry(
	guest ports.GuestCartStore,
	remote ports.RemoteCartService,
	cfg ReconcilerConfig,
	log zerolog.Logger,
) *ReconcilerRegistry {
	return &ReconcilerRegistry{
		guest:    guest,
		remote:   remote,
		cfg:      cfg,
		log:      log,
		sessions: make(map[string]*registryEntry),
	}
}

// Get returns the reconciler for sessionID, creating it when absent.
func (g *ReconcilerRegistry) Get(sessionID string) *CartReconciler {
	g.mu.Lock()
	defer g.mu.Unlock()

	entry, ok := g.sessions[sessionID]
	if !ok {
		entry = &registryEntry{
			reconciler: NewCartReconciler(sessionID, g.guest, g.remote, g.cfg, g.log),
		}
		g.sessions[sessionID] = entry
	}
	entry.lastSeen = time.Now()
	return entry.reconciler
}

// HandleAuthChange routes an auth transition to the session's reconciler.
func (g *ReconcilerRegistry) HandleAuthChange(ctx context.Context, event ports.AuthChangeEvent) {
	g.Get(event.SessionID).HandleAuthChange(ctx, event)
}

// PruneIdle drops reconcilers not touched for maxIdle and returns how many
// were removed. Guest snapshots survive in the guest store; a pruned session
// simply rebuilds its reconciler on next access.
func (g *ReconcilerRegistry) PruneIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	g.mu.Lock()
	defer g.mu.Unlock()

	pruned := 0
	for id, entry := range g.sessions {
		if entry.lastSeen.Before(cutoff) {
			delete(g.sessions, id)
			pruned++
		}
	}
	if pruned > 0 {
		g.log.Debug().Int("pruned", pruned).Msg("idle cart sessions pruned")
	}
	return pruned
}
