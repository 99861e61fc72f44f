package store

import (
	"time"

	"github.com/jrsteele09/go-exchange-client/session"
)

// Action is a named state transition applied by Store.Dispatch.
type Action interface {
	Name() string
}

// UpdateSession applies refreshed session data. Only the fields a refresh
// owns are taken from Session: the tokens and the two-step flags. The pin
// lock stays as it is in the store, and a verified two-step stays verified
// while it remains enabled.
//
// When RefreshedFrom is set the update is dropped unless the session still
// holds that refresh token, so a logout or re-login made while the refresh
// was in flight wins.
type UpdateSession struct {
	Session       session.Snapshot
	RefreshedFrom string
}

// VerifyTwoStep acknowledges the two-factor challenge. Idempotent.
type VerifyTwoStep struct{}

// Logout clears the session.
type Logout struct{}

// Rehydrate restores the persisted session at process start.
type Rehydrate struct {
	Session session.Snapshot
}

// MarkHydrated records that persisted state has been fully restored.
type MarkHydrated struct{}

// PushRoute appends the active leaf route to the route history.
type PushRoute struct {
	Route string
}

// SetPin enables the pin lock with a new code hash and leaves it unlocked.
type SetPin struct {
	Hash string
	At   time.Time
}

// UnlockPin clears the pin expiry after a successful entry.
type UnlockPin struct {
	At time.Time
}

// ExpirePin requires the pin to be entered again.
type ExpirePin struct{}

// DisablePin removes the pin code.
type DisablePin struct{}

func (UpdateSession) Name() string { return "session/update" }
func (VerifyTwoStep) Name() string { return "session/verify" }
func (Logout) Name() string        { return "session/logout" }
func (Rehydrate) Name() string     { return "persist/rehydrate" }
func (MarkHydrated) Name() string  { return "persist/hydrated" }
func (PushRoute) Name() string     { return "routeHistory/push" }
func (SetPin) Name() string        { return "pin/set" }
func (UnlockPin) Name() string     { return "pin/unlock" }
func (ExpirePin) Name() string     { return "pin/expire" }
func (DisablePin) Name() string    { return "pin/disable" }
