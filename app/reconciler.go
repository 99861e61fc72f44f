package app

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/go-exchange-client/internal/errors"
	"github.com/jrsteele09/go-exchange-client/session"
	"github.com/jrsteele09/go-exchange-client/store"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Refresher renews the session on cold start.
type Refresher interface {
	Refresh(ctx context.Context, current session.Snapshot) (session.Snapshot, error)
}

// ModeChangeFunc is called after every mode transition.
type ModeChangeFunc func(from, to Mode)

// Reconciler decides which screen group is visible. It derives the UI mode
// on every store change and runs auto-login once, after the store has been
// hydrated.
type Reconciler struct {
	store     *store.Store
	refresher Refresher
	notifier  Notifier
	metrics   MetricsCollector
	onChange  []ModeChangeFunc
	logger    zerolog.Logger
	nowFunc   func() time.Time

	// reconcileMu serializes derivations together with their callbacks.
	reconcileMu sync.Mutex

	mu    sync.Mutex
	flags Flags
	mode  Mode

	startOnce     sync.Once
	unsubscribe   func()
	autoLoginDone chan struct{}
}

type ReconcilerOption func(*Reconciler)

func WithNotifier(n Notifier) ReconcilerOption {
	return func(r *Reconciler) {
		r.notifier = n
	}
}

func WithMetrics(m MetricsCollector) ReconcilerOption {
	return func(r *Reconciler) {
		r.metrics = m
	}
}

// WithModeChange registers fn to be called after each mode transition.
// Transitions are reported one at a time, in order. fn must not dispatch to
// the store.
func WithModeChange(fn ModeChangeFunc) ReconcilerOption {
	return func(r *Reconciler) {
		r.onChange = append(r.onChange, fn)
	}
}

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(now func() time.Time) ReconcilerOption {
	return func(r *Reconciler) {
		r.nowFunc = now
	}
}

func New(st *store.Store, refresher Refresher, options ...ReconcilerOption) *Reconciler {
	r := &Reconciler{
		store:         st,
		refresher:     refresher,
		notifier:      LogNotifier{},
		metrics:       noopMetrics{},
		nowFunc:       time.Now,
		flags:         Flags{Loading: true},
		mode:          ModeLoading,
		autoLoginDone: make(chan struct{}),
	}

	for _, opt := range options {
		opt(r)
	}

	r.logger = log.With().Str("launch_id", uuid.NewString()).Logger()
	return r
}

// Start subscribes to the store and schedules auto-login for when the store
// reports hydration. Calling Start more than once has no effect.
func (r *Reconciler) Start(ctx context.Context) {
	r.startOnce.Do(func() {
		r.unsubscribe = r.store.Subscribe(func(store.State) { r.reconcile() })

		go func() {
			select {
			case <-r.store.Hydrated():
			case <-ctx.Done():
			}
			if ctx.Err() != nil {
				r.logger.Debug().Msg("reconciler: stopped before auto-login")
				return
			}
			// Once started, auto-login always reaches an outcome.
			r.autoLogin(context.WithoutCancel(ctx))
		}()
	})
}

// Stop unsubscribes from the store.
func (r *Reconciler) Stop() {
	if r.unsubscribe != nil {
		r.unsubscribe()
	}
}

// Status is the mode and the flags it was derived with.
type Status struct {
	Mode  Mode
	Flags Flags
}

func (r *Reconciler) Mode() Mode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode
}

func (r *Reconciler) Flags() Flags {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flags
}

// Status returns the mode and flags read together.
func (r *Reconciler) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Status{Mode: r.mode, Flags: r.flags}
}

// AutoLoginDone is closed once auto-login has resolved.
func (r *Reconciler) AutoLoginDone() <-chan struct{} {
	return r.autoLoginDone
}

func (r *Reconciler) autoLogin(ctx context.Context) {
	r.logger.Info().Msg("reconciler: auto-login")
	started := r.nowFunc()

	current := r.store.GetState().Session
	refreshed, err := r.refresher.Refresh(ctx, current)
	elapsed := r.nowFunc().Sub(started)

	if err == nil {
		r.setFlags(Flags{IsLogged: true, AutoLoginChecked: true, Loading: false})
		r.metrics.RecordAutoLogin(AutoLoginSuccess, elapsed)
		// Merged into the store as it is now, not as it was when the refresh
		// started.
		r.dispatch(store.UpdateSession{Session: refreshed, RefreshedFrom: current.RefreshToken()})
	} else {
		r.setFlags(Flags{IsLogged: false, AutoLoginChecked: true, Loading: false})
		if apperrors.IsUnauthorized(err) {
			r.metrics.RecordAutoLogin(AutoLoginUnauthorized, elapsed)
			r.notifier.Notify(SessionExpiredNotice)
		} else {
			r.metrics.RecordAutoLogin(AutoLoginFailure, elapsed)
		}
		r.logger.Info().Err(err).Msg("reconciler: auto-login failed, logging out")
		r.dispatch(store.Logout{})
	}
	close(r.autoLoginDone)
}

func (r *Reconciler) setFlags(f Flags) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flags = f
}

// dispatch sends a to the store, then reconciles against the resulting state.
// Leaving Loading must not depend on the action changing the session, nor on
// which goroutine delivers the notification.
func (r *Reconciler) dispatch(a store.Action) {
	r.store.Dispatch(a)
	r.reconcile()
}

// reconcile derives the mode from the latest snapshot. It runs for every
// store notification, one derivation at a time.
func (r *Reconciler) reconcile() {
	if ack := r.derive(); ack {
		r.store.Dispatch(store.VerifyTwoStep{})
	}
}

// derive updates the mode and reports whether a verification acknowledgement
// is due. The acknowledgement is dispatched by the caller once no reconciler
// lock is held.
func (r *Reconciler) derive() bool {
	r.reconcileMu.Lock()
	defer r.reconcileMu.Unlock()

	snapshot := r.store.GetState().Session

	r.mu.Lock()
	d := Derive(snapshot, r.flags)
	if d.Gated {
		r.mu.Unlock()
		return false
	}
	from := r.mode
	r.mode = d.Mode
	r.flags.IsLogged = d.IsLogged
	r.mu.Unlock()

	if d.LoggedOut {
		r.logger.Info().Msg("reconciler: session ended")
	}

	if from != d.Mode {
		r.logger.Info().
			Stringer("from", from).
			Stringer("to", d.Mode).
			Str("screen", d.Mode.ScreenGroup()).
			Msg("reconciler: mode changed")
		r.metrics.RecordModeTransition(from, d.Mode)
		for _, fn := range r.onChange {
			fn(from, d.Mode)
		}
	}
	return d.AcknowledgeTwoStep
}

// OnNavigationStateChange records the active leaf route in the route
// history. States without a resolvable route are skipped.
func (r *Reconciler) OnNavigationStateChange(_, current *NavigationState) {
	route, ok := CurrentRouteName(current)
	if !ok {
		r.logger.Debug().Msg("reconciler: navigation state without a route")
		return
	}
	r.store.Dispatch(store.PushRoute{Route: route})
}
