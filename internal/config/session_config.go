package config

import "time"

type Session struct{}

var _ SessionConfig = Session{}

// GetTokenURL returns the exchange OAuth2 token endpoint used for refresh.
func (Session) GetTokenURL() string {
	return GetEnv("TOKEN_URL", "https://api.exchange.local/oauth2/token")
}

func (Session) GetClientID() string {
	return GetEnv("CLIENT_ID", "mobile-app")
}

func (Session) GetClientSecret() string {
	return GetEnv("CLIENT_SECRET", "")
}

// GetIssuer returns the OIDC issuer. When empty, ID tokens returned by a
// refresh are not verified.
func (Session) GetIssuer() string {
	return GetEnv("ISSUER", "")
}

func (Session) GetRefreshHTTPTimeout() time.Duration {
	return durationEnv("REFRESH_HTTP_TIMEOUT", 30*time.Second)
}

func durationEnv(envVar string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(GetEnv(envVar, ""))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
