package app_test

import (
	"testing"

	"github.com/jrsteele09/go-exchange-client/app"
	"github.com/jrsteele09/go-exchange-client/internal/utils"
	"github.com/jrsteele09/go-exchange-client/session"
	"github.com/stretchr/testify/require"
)

var checked = app.Flags{AutoLoginChecked: true}

func withToken(twoStep session.TwoStep, pin session.Pin) session.Snapshot {
	return session.Snapshot{
		Tokens:  session.Tokens{AccessToken: utils.Ptr("access"), RefreshToken: utils.Ptr("refresh")},
		TwoStep: twoStep,
		Pin:     pin,
	}
}

func TestDerive(t *testing.T) {
	tests := []struct {
		name     string
		snapshot session.Snapshot
		flags    app.Flags
		want     app.Mode
		logged   bool
	}{
		{
			name:     "gated while auto-login is in flight",
			snapshot: withToken(session.TwoStep{Enabled: true}, session.Pin{}),
			flags:    app.Flags{Loading: true},
			want:     app.ModeLoading,
		},
		{
			name:     "no token",
			snapshot: session.Snapshot{},
			flags:    checked,
			want:     app.ModePublic,
		},
		{
			name:     "two-step enabled and unverified",
			snapshot: withToken(session.TwoStep{Enabled: true, Verified: false}, session.Pin{Enabled: true}),
			flags:    checked,
			want:     app.ModeTwoFactorPending,
			logged:   true,
		},
		{
			name:     "two-step disabled and pin disabled requires pin",
			snapshot: withToken(session.TwoStep{}, session.Pin{Enabled: false}),
			flags:    checked,
			want:     app.ModePinPending,
			logged:   true,
		},
		{
			name:     "verified two-step, pin enabled and expired",
			snapshot: withToken(session.TwoStep{Enabled: true, Verified: true}, session.Pin{Enabled: true, Expired: true}),
			flags:    checked,
			want:     app.ModePinPending,
			logged:   true,
		},
		{
			name:     "verified two-step, pin enabled and fresh",
			snapshot: withToken(session.TwoStep{Enabled: true, Verified: true}, session.Pin{Enabled: true, Expired: false}),
			flags:    checked,
			want:     app.ModeProtected,
			logged:   true,
		},
		{
			name:     "two-step disabled, pin enabled and fresh",
			snapshot: withToken(session.TwoStep{}, session.Pin{Enabled: true}),
			flags:    checked,
			want:     app.ModeProtected,
			logged:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := app.Derive(tt.snapshot, tt.flags)
			require.Equal(t, tt.want, d.Mode)
			require.Equal(t, tt.logged, d.IsLogged)
		})
	}
}

func TestDerive_LogoutEdge(t *testing.T) {
	d := app.Derive(session.Snapshot{}, app.Flags{AutoLoginChecked: true, IsLogged: true})
	require.Equal(t, app.ModePublic, d.Mode)
	require.False(t, d.IsLogged)
	require.True(t, d.LoggedOut)

	d = app.Derive(session.Snapshot{}, app.Flags{AutoLoginChecked: true})
	require.False(t, d.LoggedOut)
}

func TestDerive_TwoFactorNeverDuringLoading(t *testing.T) {
	for _, flags := range []app.Flags{
		{Loading: true},
		{Loading: true, IsLogged: true},
		{Loading: false, AutoLoginChecked: false},
	} {
		d := app.Derive(withToken(session.TwoStep{Enabled: true}, session.Pin{}), flags)
		require.True(t, d.Gated)
		require.Equal(t, app.ModeLoading, d.Mode)
	}
}

// A disabled pin requires entry whatever else the session says.
func TestDerive_DisabledPinAlwaysRequiresEntry(t *testing.T) {
	for _, twoStep := range []session.TwoStep{{}, {Enabled: true, Verified: true}} {
		for _, expired := range []bool{false, true} {
			d := app.Derive(withToken(twoStep, session.Pin{Enabled: false, Expired: expired}), checked)
			require.Equal(t, app.ModePinPending, d.Mode)
		}
	}
}

func TestDerive_AcknowledgesVerifiedTwoStep(t *testing.T) {
	require.True(t, app.Derive(withToken(session.TwoStep{Enabled: true, Verified: true}, session.Pin{}), checked).AcknowledgeTwoStep)
	require.False(t, app.Derive(withToken(session.TwoStep{Enabled: true}, session.Pin{}), checked).AcknowledgeTwoStep)
	require.False(t, app.Derive(withToken(session.TwoStep{}, session.Pin{}), checked).AcknowledgeTwoStep)
}

func TestMode_ScreenGroup(t *testing.T) {
	modes := []app.Mode{app.ModeLoading, app.ModePublic, app.ModeTwoFactorPending, app.ModePinPending, app.ModeProtected}
	seen := map[string]bool{}
	for _, m := range modes {
		group := m.ScreenGroup()
		require.NotEmpty(t, group)
		require.False(t, seen[group], "screen group %s reused", group)
		seen[group] = true
	}
	require.Equal(t, "unknown", app.Mode(42).String())
}
