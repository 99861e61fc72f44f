package store

import (
	"github.com/jrsteele09/go-exchange-client/session"
)

// maxRouteHistory bounds the route history kept in memory.
const maxRouteHistory = 50

// reduce applies a to s and reports whether anything changed.
func reduce(s State, a Action) (State, bool) {
	switch a := a.(type) {
	case UpdateSession:
		if a.RefreshedFrom != "" && s.Session.RefreshToken() != a.RefreshedFrom {
			return s, false
		}
		next := s.Session
		next.Tokens = a.Session.Tokens
		next.TwoStep = a.Session.TwoStep
		if next.TwoStep.Enabled && s.Session.TwoStep.Verified {
			next.TwoStep.Verified = true
		}
		return withSession(s, next)

	case VerifyTwoStep:
		if s.Session.TwoStep.Verified {
			return s, false
		}
		next := s.Session
		next.TwoStep.Verified = true
		return withSession(s, next)

	case Logout:
		return withSession(s, session.Snapshot{})

	case Rehydrate:
		next := a.Session
		if next.Pin.Enabled {
			next.Pin.Expired = true
		}
		return withSession(s, next)

	case MarkHydrated:
		if s.Persist.Hydrated {
			return s, false
		}
		s.Persist.Hydrated = true
		return s, true

	case PushRoute:
		if a.Route == "" {
			return s, false
		}
		history := make([]string, 0, len(s.RouteHistory)+1)
		history = append(history, s.RouteHistory...)
		history = append(history, a.Route)
		if len(history) > maxRouteHistory {
			history = history[len(history)-maxRouteHistory:]
		}
		s.RouteHistory = history
		return s, true

	case SetPin:
		next := s.Session
		next.Pin = session.Pin{Enabled: true, Hash: a.Hash, UnlockedAt: a.At}
		return withSession(s, next)

	case UnlockPin:
		if !s.Session.Pin.Enabled {
			return s, false
		}
		next := s.Session
		next.Pin.Expired = false
		next.Pin.UnlockedAt = a.At
		return withSession(s, next)

	case ExpirePin:
		if !s.Session.Pin.Enabled || s.Session.Pin.Expired {
			return s, false
		}
		next := s.Session
		next.Pin.Expired = true
		return withSession(s, next)

	case DisablePin:
		next := s.Session
		next.Pin = session.Pin{}
		return withSession(s, next)
	}
	return s, false
}

func withSession(s State, next session.Snapshot) (State, bool) {
	if s.Session.Equal(next) {
		return s, false
	}
	s.Session = next
	return s, true
}
