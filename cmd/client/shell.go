package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/jrsteele09/go-exchange-client/app"
	"github.com/jrsteele09/go-exchange-client/pin"
	"github.com/jrsteele09/go-exchange-client/store"
)

const shellHelp = `commands:
  status              show the current mode
  verify              complete the two-factor challenge
  logout              end the session
  pin set <code>      set a 4-6 digit pin
  pin unlock <code>   enter the pin
  pin expire          lock the pin now
  pin disable         remove the pin
  nav <a>[/<b>...]    navigate to a (nested) route
  history             show the route history
  quit                exit`

// shell is a line-oriented stand-in for the app screens.
type shell struct {
	in         io.Reader
	out        io.Writer
	store      *store.Store
	reconciler *app.Reconciler
	pins       *pin.Manager
}

func newShell(in io.Reader, out io.Writer, st *store.Store, r *app.Reconciler, pins *pin.Manager) *shell {
	return &shell{in: in, out: out, store: st, reconciler: r, pins: pins}
}

// run reads commands until quit or end of input.
func (s *shell) run() {
	scanner := bufio.NewScanner(s.in)
	for scanner.Scan() {
		if !s.exec(strings.Fields(scanner.Text())) {
			return
		}
	}
}

// exec runs one command and reports whether the shell should keep going.
func (s *shell) exec(args []string) bool {
	if len(args) == 0 {
		return true
	}

	switch args[0] {
	case "quit", "exit":
		return false
	case "help":
		fmt.Fprintln(s.out, shellHelp)
	case "status":
		status := s.reconciler.Status()
		fmt.Fprintf(s.out, "mode=%s screen=%s logged=%v loading=%v\n",
			status.Mode, status.Mode.ScreenGroup(), status.Flags.IsLogged, status.Flags.Loading)
	case "verify":
		s.store.Dispatch(store.VerifyTwoStep{})
	case "logout":
		s.store.Dispatch(store.Logout{})
	case "history":
		fmt.Fprintln(s.out, strings.Join(s.store.GetState().RouteHistory, " > "))
	case "nav":
		if len(args) != 2 {
			fmt.Fprintln(s.out, "usage: nav <a>[/<b>...]")
			return true
		}
		s.reconciler.OnNavigationStateChange(nil, navigationPath(args[1]))
		s.pins.Touch()
	case "pin":
		s.execPin(args[1:])
	default:
		fmt.Fprintf(s.out, "unknown command %q, try help\n", args[0])
	}
	return true
}

func (s *shell) execPin(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.out, "usage: pin set|unlock|expire|disable")
		return
	}

	var err error
	switch args[0] {
	case "set", "unlock":
		if len(args) != 2 {
			fmt.Fprintf(s.out, "usage: pin %s <code>\n", args[0])
			return
		}
		if args[0] == "set" {
			err = s.pins.Set(args[1])
		} else {
			err = s.pins.Unlock(args[1])
		}
	case "expire":
		s.pins.Expire()
	case "disable":
		s.pins.Disable()
	default:
		fmt.Fprintf(s.out, "unknown pin command %q\n", args[0])
	}
	if err != nil {
		fmt.Fprintf(s.out, "pin: %s\n", err)
	}
}

// navigationPath builds a nested navigation state whose active leaf is the
// last segment of path.
func navigationPath(path string) *app.NavigationState {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	var leaf app.NavigationState
	for i := len(segments) - 1; i >= 0; i-- {
		if i == len(segments)-1 {
			leaf = app.NavigationState{RouteName: segments[i]}
			continue
		}
		leaf = app.NavigationState{RouteName: segments[i], Routes: []app.NavigationState{leaf}}
	}
	return &app.NavigationState{Routes: []app.NavigationState{leaf}}
}
