package app

// NavigationState is a navigator's state: its routes and the active index.
// A route holding its own Routes is a nested navigator.
type NavigationState struct {
	RouteName string            `json:"routeName,omitempty"`
	Index     int               `json:"index"`
	Routes    []NavigationState `json:"routes,omitempty"`
}

// CurrentRouteName walks the active routes down to the leaf and returns its
// name. It reports false for a nil or malformed state.
func CurrentRouteName(state *NavigationState) (string, bool) {
	if state == nil {
		return "", false
	}
	if state.Index < 0 || state.Index >= len(state.Routes) {
		return "", false
	}
	route := &state.Routes[state.Index]
	if len(route.Routes) > 0 {
		return CurrentRouteName(route)
	}
	if route.RouteName == "" {
		return "", false
	}
	return route.RouteName, true
}
