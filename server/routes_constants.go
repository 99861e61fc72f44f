package server

const (
	RouteHealth       = "/healthz"
	RouteSession      = "/session"
	RouteRouteHistory = "/routes"
	RouteMetrics      = "/metrics"
)
