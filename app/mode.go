package app

import "github.com/jrsteele09/go-exchange-client/session"

// Mode is the UI mode. Exactly one mode is active at a time.
type Mode int

const (
	ModeLoading Mode = iota
	ModePublic
	ModeTwoFactorPending
	ModePinPending
	ModeProtected
)

func (m Mode) String() string {
	switch m {
	case ModeLoading:
		return "loading"
	case ModePublic:
		return "public"
	case ModeTwoFactorPending:
		return "twofactor_pending"
	case ModePinPending:
		return "pin_pending"
	case ModeProtected:
		return "protected"
	}
	return "unknown"
}

// ScreenGroup names the group of screens mounted in mode m.
func (m Mode) ScreenGroup() string {
	switch m {
	case ModeLoading:
		return "Loading"
	case ModePublic:
		return "PublicArea"
	case ModeTwoFactorPending:
		return "TwoFA"
	case ModePinPending:
		return "Pincode"
	case ModeProtected:
		return "ProtectedArea"
	}
	return ""
}

// Flags is the reconciler's transient bootstrap state.
type Flags struct {
	Loading          bool // auto-login has not resolved yet
	AutoLoginChecked bool // auto-login resolved, set once
	IsLogged         bool // last known authenticated flag
}

// Decision is the outcome of one mode derivation.
type Decision struct {
	Mode     Mode
	IsLogged bool
	// Gated is set while auto-login is in flight; the change is ignored.
	Gated bool
	// LoggedOut marks the edge from a logged in session to no token.
	LoggedOut bool
	// AcknowledgeTwoStep asks for a verification acknowledgement instead of
	// a challenge. The store ignores it once the session is verified.
	AcknowledgeTwoStep bool
}

// Derive computes the UI mode from a session snapshot and the bootstrap flags.
func Derive(s session.Snapshot, f Flags) Decision {
	if !f.AutoLoginChecked {
		return Decision{Mode: ModeLoading, IsLogged: f.IsLogged, Gated: true}
	}

	if s.HasAccessToken() {
		d := Decision{IsLogged: true}
		switch {
		case s.TwoStepPending():
			d.Mode = ModeTwoFactorPending
		case s.RequiresPin():
			d.Mode = ModePinPending
		default:
			d.Mode = ModeProtected
		}
		d.AcknowledgeTwoStep = s.TwoStep.Enabled && s.TwoStep.Verified
		return d
	}

	return Decision{Mode: ModePublic, IsLogged: false, LoggedOut: f.IsLogged}
}
