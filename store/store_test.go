package store_test

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/go-exchange-client/internal/utils"
	"github.com/jrsteele09/go-exchange-client/session"
	"github.com/jrsteele09/go-exchange-client/store"
	"github.com/stretchr/testify/require"
)

func loggedIn(twoStep session.TwoStep) session.Snapshot {
	return session.Snapshot{
		Tokens:  session.Tokens{AccessToken: utils.Ptr("access"), RefreshToken: utils.Ptr("refresh")},
		TwoStep: twoStep,
	}
}

func TestStore_SubscribeAndDispatch(t *testing.T) {
	st := store.New(store.State{})

	var seen []store.State
	unsubscribe := st.Subscribe(func(s store.State) { seen = append(seen, s) })

	require.True(t, st.Dispatch(store.UpdateSession{Session: loggedIn(session.TwoStep{})}))
	require.Len(t, seen, 1)
	require.True(t, seen[0].Session.HasAccessToken())
	require.True(t, st.GetState().Session.HasAccessToken())

	unsubscribe()
	unsubscribe()
	require.True(t, st.Dispatch(store.Logout{}))
	require.Len(t, seen, 1)
	require.False(t, st.GetState().Session.HasAccessToken())
}

func TestStore_UnchangedStateDoesNotNotify(t *testing.T) {
	st := store.New(store.State{})
	calls := 0
	st.Subscribe(func(store.State) { calls++ })

	require.False(t, st.Dispatch(store.Logout{}))
	require.False(t, st.Dispatch(store.ExpirePin{}))
	require.Zero(t, calls)
}

func TestStore_VerifyTwoStepIsIdempotent(t *testing.T) {
	st := store.New(store.State{Session: loggedIn(session.TwoStep{Enabled: true})})
	calls := 0
	st.Subscribe(func(store.State) { calls++ })

	require.True(t, st.Dispatch(store.VerifyTwoStep{}))
	require.True(t, st.GetState().Session.TwoStep.Verified)

	require.False(t, st.Dispatch(store.VerifyTwoStep{}))
	require.True(t, st.GetState().Session.TwoStep.Verified)
	require.Equal(t, 1, calls)
}

func TestStore_UpdateSessionKeepsVerification(t *testing.T) {
	st := store.New(store.State{Session: loggedIn(session.TwoStep{Enabled: true, Verified: true})})

	refreshed := loggedIn(session.TwoStep{Enabled: true})
	refreshed.Tokens.AccessToken = utils.Ptr("access-2")
	st.Dispatch(store.UpdateSession{Session: refreshed})
	require.True(t, st.GetState().Session.TwoStep.Verified)

	// Two-step switched off then on again must be verified anew.
	st.Dispatch(store.UpdateSession{Session: loggedIn(session.TwoStep{})})
	st.Dispatch(store.UpdateSession{Session: loggedIn(session.TwoStep{Enabled: true})})
	require.False(t, st.GetState().Session.TwoStep.Verified)
}

func TestStore_UpdateSessionMergesRefreshedFields(t *testing.T) {
	current := loggedIn(session.TwoStep{})
	current.Pin = session.Pin{Enabled: true, Hash: "hash"}
	st := store.New(store.State{Session: current})

	refreshed := loggedIn(session.TwoStep{Enabled: true})
	refreshed.Tokens.AccessToken = utils.Ptr("access-2")
	require.True(t, st.Dispatch(store.UpdateSession{Session: refreshed, RefreshedFrom: "refresh"}))

	s := st.GetState().Session
	require.Equal(t, "access-2", utils.Value(s.Tokens.AccessToken))
	require.True(t, s.TwoStep.Enabled)
	require.Equal(t, current.Pin, s.Pin, "pin state is local")

	t.Run("session moved on", func(t *testing.T) {
		st := store.New(store.State{Session: loggedIn(session.TwoStep{})})
		st.Dispatch(store.Logout{})

		require.False(t, st.Dispatch(store.UpdateSession{Session: refreshed, RefreshedFrom: "refresh"}))
		require.False(t, st.GetState().Session.HasAccessToken())
	})
}

func TestStore_ConcurrentDispatchDeliversInCommitOrder(t *testing.T) {
	st := store.New(store.State{Session: loggedIn(session.TwoStep{})})

	entered := make(chan struct{})
	release := make(chan struct{})
	var block sync.Once
	var mu sync.Mutex
	var seen []bool
	st.Subscribe(func(s store.State) {
		if s.Session.Pin.Enabled {
			block.Do(func() {
				close(entered)
				<-release
			})
		}
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, s.Session.Pin.Enabled)
	})

	setDone := make(chan struct{})
	go func() {
		defer close(setDone)
		st.Dispatch(store.SetPin{Hash: "hash", At: time.Now()})
	}()
	<-entered

	// Committed while the SetPin notification is still being handled.
	require.True(t, st.Dispatch(store.DisablePin{}))
	require.False(t, st.GetState().Session.Pin.Enabled)
	close(release)
	<-setDone

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []bool{true, false}, seen)
}

func TestStore_NotificationsAreSerial(t *testing.T) {
	const goroutines, perGoroutine = 4, 10
	st := store.New(store.State{})

	var inFlight atomic.Int32
	var overlapped atomic.Bool
	var mu sync.Mutex
	var lengths []int
	st.Subscribe(func(s store.State) {
		if inFlight.Add(1) != 1 {
			overlapped.Store(true)
		}
		defer inFlight.Add(-1)
		time.Sleep(100 * time.Microsecond)
		mu.Lock()
		defer mu.Unlock()
		lengths = append(lengths, len(s.RouteHistory))
	})

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				st.Dispatch(store.PushRoute{Route: fmt.Sprintf("g%d-%d", g, i)})
			}
		}()
	}
	wg.Wait()

	require.False(t, overlapped.Load(), "listener ran concurrently with itself")
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, lengths, goroutines*perGoroutine)
	for i, n := range lengths {
		require.Equal(t, i+1, n, "notification %d out of order", i)
	}
}

func TestStore_NestedDispatch(t *testing.T) {
	st := store.New(store.State{})
	st.Subscribe(func(s store.State) {
		if s.Session.TwoStepPending() {
			st.Dispatch(store.VerifyTwoStep{})
		}
	})

	st.Dispatch(store.UpdateSession{Session: loggedIn(session.TwoStep{Enabled: true})})
	require.True(t, st.GetState().Session.TwoStep.Verified)
}

func TestStore_Hydrated(t *testing.T) {
	st := store.New(store.State{})

	select {
	case <-st.Hydrated():
		t.Fatal("hydrated before MarkHydrated")
	default:
	}

	require.True(t, st.Dispatch(store.MarkHydrated{}))
	require.False(t, st.Dispatch(store.MarkHydrated{}))

	select {
	case <-st.Hydrated():
	case <-time.After(time.Second):
		t.Fatal("hydrated channel not closed")
	}

	t.Run("already hydrated initial state", func(t *testing.T) {
		st := store.New(store.State{Persist: store.PersistState{Hydrated: true}})
		select {
		case <-st.Hydrated():
		default:
			t.Fatal("expected closed channel")
		}
	})
}

func TestStore_Pin(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	st := store.New(store.State{Session: loggedIn(session.TwoStep{})})

	require.True(t, st.Dispatch(store.SetPin{Hash: "hash", At: now}))
	pin := st.GetState().Session.Pin
	require.True(t, pin.Enabled)
	require.False(t, pin.Expired)

	require.True(t, st.Dispatch(store.ExpirePin{}))
	require.True(t, st.GetState().Session.RequiresPin())

	require.True(t, st.Dispatch(store.UnlockPin{At: now.Add(time.Minute)}))
	require.False(t, st.GetState().Session.RequiresPin())

	require.True(t, st.Dispatch(store.DisablePin{}))
	require.False(t, st.Dispatch(store.UnlockPin{At: now}))
	require.True(t, st.GetState().Session.RequiresPin())
}

func TestStore_RehydrateLocksPin(t *testing.T) {
	st := store.New(store.State{})
	restored := loggedIn(session.TwoStep{})
	restored.Pin = session.Pin{Enabled: true, Hash: "hash"}

	st.Dispatch(store.Rehydrate{Session: restored})
	require.True(t, st.GetState().Session.Pin.Expired)
}

func TestStore_RouteHistory(t *testing.T) {
	st := store.New(store.State{})

	require.False(t, st.Dispatch(store.PushRoute{}))
	for i := 0; i < 60; i++ {
		st.Dispatch(store.PushRoute{Route: fmt.Sprintf("Route%d", i)})
	}

	history := st.GetState().RouteHistory
	require.Len(t, history, 50)
	require.Equal(t, "Route10", history[0])
	require.Equal(t, "Route59", history[49])

	// GetState hands out copies.
	history[0] = "changed"
	require.Equal(t, "Route10", st.GetState().RouteHistory[0])
}
