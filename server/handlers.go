package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// SessionStatus is the body of GET /session. Tokens are never exposed.
type SessionStatus struct {
	Mode             string `json:"mode"`
	Screen           string `json:"screen"`
	Loading          bool   `json:"loading"`
	AutoLoginChecked bool   `json:"auto_login_checked"`
	IsLogged         bool   `json:"is_logged"`
	Hydrated         bool   `json:"hydrated"`
	TwoStepEnabled   bool   `json:"twostep_enabled"`
	TwoStepVerified  bool   `json:"twostep_verified"`
	PinEnabled       bool   `json:"pin_enabled"`
	PinExpired       bool   `json:"pin_expired"`
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (s *Server) SessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := s.reconciler.Status()
		mode, flags := status.Mode, status.Flags
		st := s.store.GetState()

		writeJSON(w, http.StatusOK, SessionStatus{
			Mode:             mode.String(),
			Screen:           mode.ScreenGroup(),
			Loading:          flags.Loading,
			AutoLoginChecked: flags.AutoLoginChecked,
			IsLogged:         flags.IsLogged,
			Hydrated:         st.Persist.Hydrated,
			TwoStepEnabled:   st.Session.TwoStep.Enabled,
			TwoStepVerified:  st.Session.TwoStep.Verified,
			PinEnabled:       st.Session.Pin.Enabled,
			PinExpired:       st.Session.Pin.Expired,
		})
	}
}

func (s *Server) RouteHistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		history := s.store.GetState().RouteHistory
		if history == nil {
			history = []string{}
		}
		writeJSON(w, http.StatusOK, map[string][]string{"routes": history})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("server: failed to encode response")
	}
}
