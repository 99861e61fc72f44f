package session

import (
	"time"

	"github.com/jrsteele09/go-exchange-client/internal/utils"
)

// Tokens holds the credentials issued by the exchange.
// The presence of AccessToken is the only signal of a logged in user.
type Tokens struct {
	AccessToken  *string   `json:"access_token,omitempty"`
	RefreshToken *string   `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type,omitempty"`
	Expiry       time.Time `json:"expiry,omitempty"`
}

// TwoStep is the account's two-factor status. Verified only matters while
// Enabled is true.
type TwoStep struct {
	Enabled  bool `json:"enabled"`
	Verified bool `json:"verified"`
}

// Pin is the local re-entry code gating the protected screens.
type Pin struct {
	Enabled    bool      `json:"enabled"`
	Expired    bool      `json:"expired"`
	Hash       string    `json:"hash,omitempty"` // bcrypt hash of the code
	UnlockedAt time.Time `json:"unlocked_at,omitempty"`
}

// Snapshot is the session part of the application store.
type Snapshot struct {
	Tokens  Tokens  `json:"tokens"`
	TwoStep TwoStep `json:"twostep"`
	Pin     Pin     `json:"pin"`
}

func (s Snapshot) HasAccessToken() bool {
	return utils.Value(s.Tokens.AccessToken) != ""
}

func (s Snapshot) RefreshToken() string {
	return utils.Value(s.Tokens.RefreshToken)
}

// TwoStepPending reports whether a two-factor challenge is outstanding.
func (s Snapshot) TwoStepPending() bool {
	return s.TwoStep.Enabled && !s.TwoStep.Verified
}

// RequiresPin applies the pin-lock policy: a disabled pin still requires
// entry, an enabled pin requires entry only once expired.
func (s Snapshot) RequiresPin() bool {
	if s.Pin.Enabled {
		return s.Pin.Expired
	}
	return true
}

func (s Snapshot) Equal(o Snapshot) bool {
	return s.Tokens.Equal(o.Tokens) && s.TwoStep == o.TwoStep && s.Pin.Equal(o.Pin)
}

func (t Tokens) Equal(o Tokens) bool {
	return utils.Value(t.AccessToken) == utils.Value(o.AccessToken) &&
		(t.AccessToken == nil) == (o.AccessToken == nil) &&
		utils.Value(t.RefreshToken) == utils.Value(o.RefreshToken) &&
		(t.RefreshToken == nil) == (o.RefreshToken == nil) &&
		t.TokenType == o.TokenType &&
		t.Expiry.Equal(o.Expiry)
}

func (p Pin) Equal(o Pin) bool {
	return p.Enabled == o.Enabled &&
		p.Expired == o.Expired &&
		p.Hash == o.Hash &&
		p.UnlockedAt.Equal(o.UnlockedAt)
}
