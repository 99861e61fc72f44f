package pin

import (
	"time"

	"github.com/jrsteele09/go-exchange-client/internal/config"
	apperrors "github.com/jrsteele09/go-exchange-client/internal/errors"
	"github.com/jrsteele09/go-exchange-client/store"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

const (
	minLength = 4
	maxLength = 6
)

// Manager owns the local pin lock: setting the code, unlocking and expiry.
type Manager struct {
	store       *store.Store
	limiter     *rate.Limiter
	hashCost    int
	idleTimeout time.Duration
	nowFunc     func() time.Time
}

type Option func(*Manager)

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(now func() time.Time) Option {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

func NewManager(st *store.Store, cfg config.SecurityConfig, options ...Option) *Manager {
	m := &Manager{
		store:       st,
		limiter:     rate.NewLimiter(rate.Every(cfg.GetPinAttemptInterval()), cfg.GetPinAttemptBurst()),
		hashCost:    cfg.GetPinHashCost(),
		idleTimeout: cfg.GetPinIdleTimeout(),
		nowFunc:     time.Now,
	}

	for _, opt := range options {
		opt(m)
	}
	return m
}

// Set hashes code and enables the pin lock, leaving it unlocked.
func (m *Manager) Set(code string) error {
	if !valid(code) {
		return apperrors.ErrInvalidPin
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), m.hashCost)
	if err != nil {
		return errors.Wrap(err, "Manager.Set GenerateFromPassword")
	}
	m.store.Dispatch(store.SetPin{Hash: string(hash), At: m.nowFunc()})
	log.Info().Msg("pin: set")
	return nil
}

// Unlock checks code against the stored hash and clears the expiry.
// Attempts are throttled whether or not they succeed.
func (m *Manager) Unlock(code string) error {
	p := m.store.GetState().Session.Pin
	if !p.Enabled || p.Hash == "" {
		return apperrors.ErrPinNotSet
	}
	if !m.limiter.AllowN(m.nowFunc(), 1) {
		log.Warn().Msg("pin: attempt throttled")
		return apperrors.ErrTooManyPinAttempts
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.Hash), []byte(code)); err != nil {
		return apperrors.ErrWrongPin
	}
	m.store.Dispatch(store.UnlockPin{At: m.nowFunc()})
	return nil
}

// Touch records activity, postponing the idle expiry.
func (m *Manager) Touch() {
	p := m.store.GetState().Session.Pin
	if p.Enabled && !p.Expired {
		m.store.Dispatch(store.UnlockPin{At: m.nowFunc()})
	}
}

// Expire locks the pin immediately.
func (m *Manager) Expire() {
	m.store.Dispatch(store.ExpirePin{})
}

// ExpireIfIdle locks the pin when it has been unlocked for longer than the
// idle timeout. It reports whether the pin was locked by this call.
func (m *Manager) ExpireIfIdle() bool {
	p := m.store.GetState().Session.Pin
	if !p.Enabled || p.Expired {
		return false
	}
	if m.nowFunc().Sub(p.UnlockedAt) < m.idleTimeout {
		return false
	}
	log.Info().Dur("idle", m.idleTimeout).Msg("pin: expired after inactivity")
	return m.store.Dispatch(store.ExpirePin{})
}

// Disable removes the pin code.
func (m *Manager) Disable() {
	m.store.Dispatch(store.DisablePin{})
}

func valid(code string) bool {
	if len(code) < minLength || len(code) > maxLength {
		return false
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
