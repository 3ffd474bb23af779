package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/finapp/storefront/internal/api/metrics"
	"github.com/finapp/storefront/internal/core/domain"
	"github.com/finapp/storefront/internal/core/ports"
)

// CartPhase identifies which source of truth currently backs the in-memory
// snapshot.
type CartPhase string

const (
	PhaseUninitialized CartPhase = "uninitialized"
	PhaseGuestLoaded   CartPhase = "guest_loaded"
	PhaseRemoteLoading CartPhase = "remote_loading"
	PhaseRemoteLoaded  CartPhase = "remote_loaded"
	PhaseRemoteError   CartPhase = "remote_error"
)

// ReconcilerConfig holds the named retry delays. Zero values fall back to the
// defaults below.
type ReconcilerConfig struct {
	// AuthRetryDelay is how long to wait before the single retry after the
	// remote cart rejects the credential.
	AuthRetryDelay time.Duration
	// EmptyRefetchDelay is how long to wait before the single re-fetch when a
	// fresh remote load comes back empty.
	EmptyRefetchDelay time.Duration
}

const (
	defaultAuthRetryDelay    = 300 * time.Millisecond
	defaultEmptyRefetchDelay = 500 * time.Millisecond
)

// CartReconciler owns the in-memory cart snapshot for one storefront session
// and decides, on every auth-state transition, whether to fetch from the
// remote cart service, fall back to the guest store, or clear state.
//
// All state changes run under a single mutex, so transitions and mutations
// for a session are strictly serialized. The intentional waits (auth retry,
// empty re-fetch) release the mutex while sleeping and re-check the identity
// guards after re-acquiring it.
type CartReconciler struct {
	sessionID string
	guest     ports.GuestCartStore
	remote    ports.RemoteCartService
	cfg       ReconcilerConfig
	log       zerolog.Logger

	mu             chan struct{} // binary semaphore; see lock/unlock
	phase          CartPhase
	snapshot       domain.CartSnapshot
	auth           domain.AuthState
	lastUserID     string
	emptyRefetched bool

	observers []func(domain.CartSnapshot)
}

// NewCartReconciler creates a reconciler for one session in the
// uninitialized phase with an empty snapshot.
func NewCartReconciler(
	sessionID string,
	guest ports.GuestCartStore,
	remote ports.RemoteCartService,
	cfg ReconcilerConfig,
	log zerolog.Logger,
) *CartReconciler {
	if cfg.AuthRetryDelay <= 0 {
		cfg.AuthRetryDelay = defaultAuthRetryDelay
	}
	if cfg.EmptyRefetchDelay <= 0 {
		cfg.EmptyRefetchDelay = defaultEmptyRefetchDelay
	}
	mu := make(chan struct{}, 1)
	mu <- struct{}{}
	return &CartReconciler{
		sessionID: sessionID,
		guest:     guest,
		remote:    remote,
		cfg:       cfg,
		log:       log.With().Str("session_id", sessionID).Logger(),
		mu:        mu,
		phase:     PhaseUninitialized,
	}
}

// lock acquires the reconciler mutex. A channel-backed semaphore is used
// instead of sync.Mutex because the intentional waits must release the lock
// mid-operation and honour context cancellation while sleeping.
func (r *CartReconciler) lock() { <-r.mu }

func (r *CartReconciler) unlock() { r.mu <- struct{}{} }

// wait releases the lock, sleeps for d (or until ctx is done), and
// re-acquires the lock. Callers must re-check all guards afterwards.
func (r *CartReconciler) wait(ctx context.Context, d time.Duration) {
	r.unlock()
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
	r.lock()
}

// ---------------------------------------------------------------------------
// Auth transitions
// ---------------------------------------------------------------------------

// HandleAuthChange is the single transition function invoked once per
// auth-state notification. Repeated notifications of the same identity are
// no-ops; notifications arriving while the auth holder is still loading are
// deferred entirely.
func (r *CartReconciler) HandleAuthChange(ctx context.Context, event ports.AuthChangeEvent) {
	r.lock()
	defer r.unlock()

	state := event.State
	if state.Loading {
		r.auth = state
		return
	}

	prevPhase := r.phase
	r.auth = state

	if !state.Authenticated() {
		r.transitionToGuest(ctx, event.Logout)
	} else {
		r.transitionToRemote(ctx, state.Identity)
	}

	if r.phase != prevPhase {
		metrics.CartTransitionsTotal.WithLabelValues(string(prevPhase), string(r.phase)).Inc()
	}
}

// transitionToGuest handles an absent identity: a logout edge clears
// everything; a first notification loads the guest store. The explicit
// logout flag covers reconcilers built after the login, whose lastUserID
// never saw the authenticated identity.
func (r *CartReconciler) transitionToGuest(ctx context.Context, logout bool) {
	if logout || r.lastUserID != "" {
		// present → absent: drop the server cart and the stale guest mirror.
		r.replaceSnapshot(domain.CartSnapshot{})
		if err := r.guest.Delete(ctx, r.sessionID); err != nil {
			r.log.Warn().Err(err).Msg("guest store delete failed on logout")
		}
		r.lastUserID = ""
		r.emptyRefetched = false
		r.phase = PhaseUninitialized
		r.log.Info().Msg("logout: cart reset")
		return
	}

	if r.phase != PhaseUninitialized {
		// Repeated absent notification with the guest cart already loaded.
		return
	}

	snap, err := r.guest.Load(ctx, r.sessionID)
	if err != nil {
		r.log.Warn().Err(err).Msg("guest store load failed, starting empty")
		snap = domain.CartSnapshot{}
	}
	r.replaceSnapshot(snap)
	r.phase = PhaseGuestLoaded
}

// transitionToRemote handles a present identity. The remote cart is fetched
// when the identity is new relative to lastUserID or nothing was loaded yet;
// anything else is a repeated notification and a no-op.
func (r *CartReconciler) transitionToRemote(ctx context.Context, id *domain.AuthIdentity) {
	newLogin := r.lastUserID != id.UserID
	if !newLogin && r.phase != PhaseUninitialized {
		return
	}

	if newLogin && len(r.snapshot) > 0 {
		// Server cart is authoritative; guest content is discarded, not merged.
		r.log.Debug().Int("discarded_lines", len(r.snapshot)).Msg("guest cart discarded at login")
	}

	r.emptyRefetched = false
	r.lastUserID = id.UserID
	r.fetchRemote(ctx)
	r.maybeEmptyRefetch(ctx)
}

// fetchRemote loads the server cart, retrying exactly once after a short
// delay when the credential is rejected. On success the snapshot is replaced
// and mirrored to the guest store; on failure it is emptied. Fetch failures
// are absorbed here, never surfaced to the view.
func (r *CartReconciler) fetchRemote(ctx context.Context) {
	id := r.auth.Identity
	if id == nil {
		return
	}
	userID := id.UserID

	r.phase = PhaseRemoteLoading
	start := time.Now()

	doc, err := r.remote.Get(ctx, id.Credential)
	if errors.Is(err, domain.ErrUnauthorized) {
		metrics.CartFetchRetriesTotal.WithLabelValues("authorization").Inc()
		r.log.Warn().Msg("cart fetch unauthorized, retrying once")
		r.wait(ctx, r.cfg.AuthRetryDelay)

		// The identity may have changed or vanished while waiting; a later
		// transition already owns the snapshot then, so leave it alone.
		id = r.auth.Identity
		if id == nil || id.UserID != userID {
			return
		}
		doc, err = r.remote.Get(ctx, id.Credential)
	}

	if err != nil {
		metrics.CartFetchTotal.WithLabelValues("error").Inc()
		metrics.CartFetchDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		r.log.Error().Err(err).Msg("cart fetch failed")
		r.replaceSnapshot(domain.CartSnapshot{})
		r.phase = PhaseRemoteError
		return
	}

	metrics.CartFetchTotal.WithLabelValues("success").Inc()
	metrics.CartFetchDuration.WithLabelValues("success").Observe(time.Since(start).Seconds())

	r.replaceSnapshot(SnapshotFromRemote(doc))
	r.phase = PhaseRemoteLoaded
	r.mirrorToGuestStore(ctx)
}

// maybeEmptyRefetch applies the single bounded re-fetch when a fresh remote
// load came back empty: the server cart may legitimately hold items not yet
// visible right after login. The emptyRefetched flag prevents a fetch loop
// when the cart is genuinely empty; it resets whenever the user changes.
func (r *CartReconciler) maybeEmptyRefetch(ctx context.Context) {
	if r.phase != PhaseRemoteLoaded || len(r.snapshot) > 0 || r.emptyRefetched {
		return
	}
	id := r.auth.Identity
	if id == nil {
		return
	}
	userID := id.UserID

	r.emptyRefetched = true
	metrics.CartFetchRetriesTotal.WithLabelValues("empty_snapshot").Inc()
	r.wait(ctx, r.cfg.EmptyRefetchDelay)

	id = r.auth.Identity
	if id == nil || id.UserID != userID {
		return
	}
	r.fetchRemote(ctx)
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

// AddLine adds quantity of product to the cart. Authenticated carts are
// server-authoritative: the snapshot is replaced with whatever the server
// returns. Guest carts increment or append locally.
func (r *CartReconciler) AddLine(ctx context.Context, product domain.ProductRef, quantity int) error {
	if product.ID == "" {
		return domain.ErrInvalidLine
	}
	if quantity <= 0 {
		quantity = 1
	}

	r.lock()
	defer r.unlock()

	if r.auth.Authenticated() {
		return r.remoteMutation(ctx, func(cred string) (*ports.RemoteCartDocument, error) {
			return r.remote.AddItem(ctx, cred, product.ID, quantity)
		})
	}

	r.replaceSnapshot(r.snapshot.Add(product, quantity))
	r.mirrorToGuestStore(ctx)
	metrics.GuestCartMutationsTotal.WithLabelValues("add").Inc()
	return nil
}

// RemoveLine removes the line for productID.
func (r *CartReconciler) RemoveLine(ctx context.Context, productID string) error {
	if productID == "" {
		return domain.ErrInvalidLine
	}

	r.lock()
	defer r.unlock()
	return r.removeLineLocked(ctx, productID)
}

func (r *CartReconciler) removeLineLocked(ctx context.Context, productID string) error {
	if r.auth.Authenticated() {
		return r.remoteMutation(ctx, func(cred string) (*ports.RemoteCartDocument, error) {
			return r.remote.RemoveItem(ctx, cred, productID)
		})
	}

	r.replaceSnapshot(r.snapshot.Remove(productID))
	r.mirrorToGuestStore(ctx)
	metrics.GuestCartMutationsTotal.WithLabelValues("remove").Inc()
	return nil
}

// SetQuantity sets the quantity for productID. A quantity of zero or below
// removes the line instead.
func (r *CartReconciler) SetQuantity(ctx context.Context, productID string, quantity int) error {
	if productID == "" {
		return domain.ErrInvalidLine
	}

	r.lock()
	defer r.unlock()

	if quantity <= 0 {
		return r.removeLineLocked(ctx, productID)
	}

	if r.auth.Authenticated() {
		return r.remoteMutation(ctx, func(cred string) (*ports.RemoteCartDocument, error) {
			return r.remote.UpdateItem(ctx, cred, productID, quantity)
		})
	}

	r.replaceSnapshot(r.snapshot.WithQuantity(productID, quantity))
	r.mirrorToGuestStore(ctx)
	metrics.GuestCartMutationsTotal.WithLabelValues("update").Inc()
	return nil
}

// Clear empties the snapshot and deletes the guest store entry
// unconditionally, so stale guest data cannot resurface after a later logout.
func (r *CartReconciler) Clear(ctx context.Context) error {
	r.lock()
	defer r.unlock()

	r.replaceSnapshot(domain.CartSnapshot{})
	if err := r.guest.Delete(ctx, r.sessionID); err != nil {
		r.log.Warn().Err(err).Msg("guest store delete failed on clear")
	}
	return nil
}

// Refresh forces a re-load from the current source of truth.
func (r *CartReconciler) Refresh(ctx context.Context) error {
	r.lock()
	defer r.unlock()

	if r.auth.Authenticated() {
		r.fetchRemote(ctx)
		if r.phase == PhaseRemoteError {
			return domain.ErrCartUnavailable
		}
		return nil
	}

	snap, err := r.guest.Load(ctx, r.sessionID)
	if err != nil {
		return err
	}
	r.replaceSnapshot(snap)
	r.phase = PhaseGuestLoaded
	return nil
}

// remoteMutation runs a server-authoritative write. The server response
// replaces the snapshot wholesale; a response without a cart body falls back
// to a full re-fetch. On error the snapshot is left unchanged and the error
// propagates to the caller.
func (r *CartReconciler) remoteMutation(ctx context.Context, call func(credential string) (*ports.RemoteCartDocument, error)) error {
	doc, err := call(r.auth.Identity.Credential)
	if err != nil {
		return err
	}

	if doc == nil || doc.Items == nil {
		r.fetchRemote(ctx)
		return nil
	}

	r.replaceSnapshot(SnapshotFromRemote(doc))
	r.phase = PhaseRemoteLoaded
	r.mirrorToGuestStore(ctx)
	return nil
}

// mirrorToGuestStore writes the current snapshot to the guest store. The
// mirror is best effort: a failed write is logged, never propagated.
func (r *CartReconciler) mirrorToGuestStore(ctx context.Context) {
	if err := r.guest.Save(ctx, r.sessionID, r.snapshot); err != nil {
		r.log.Warn().Err(err).Msg("guest store mirror failed")
	}
}

// ---------------------------------------------------------------------------
// Read surface
// ---------------------------------------------------------------------------

// Snapshot returns a copy of the current cart snapshot.
func (r *CartReconciler) Snapshot() domain.CartSnapshot {
	r.lock()
	defer r.unlock()
	snap := make(domain.CartSnapshot, len(r.snapshot))
	copy(snap, r.snapshot)
	return snap
}

// ItemCount returns the summed quantity across all lines.
func (r *CartReconciler) ItemCount() int {
	r.lock()
	defer r.unlock()
	return r.snapshot.ItemCount()
}

// Total returns the price sum across all lines.
func (r *CartReconciler) Total() float64 {
	r.lock()
	defer r.unlock()
	return r.snapshot.Total()
}

// Phase returns the current reconciliation phase.
func (r *CartReconciler) Phase() CartPhase {
	r.lock()
	defer r.unlock()
	return r.phase
}

// Subscribe registers fn to be called after every snapshot replacement.
// Observers run while the reconciler lock is held and must not call back
// into the reconciler.
func (r *CartReconciler) Subscribe(fn func(domain.CartSnapshot)) {
	r.lock()
	defer r.unlock()
	r.observers = append(r.observers, fn)
}

// replaceSnapshot swaps the snapshot and notifies observers. Callers hold
// the lock; observers receive a copy so they cannot alias internal state.
func (r *CartReconciler) replaceSnapshot(snap domain.CartSnapshot) {
	r.snapshot = snap
	if len(r.observers) == 0 {
		return
	}
	published := make(domain.CartSnapshot, len(snap))
	copy(published, snap)
	for _, fn := range r.observers {
		fn(published)
	}
}
