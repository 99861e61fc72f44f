package config

import "time"

type Config interface {
	EnvConfig
	SessionConfig
	SecurityConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetDataFolder() string
	GetDatabasePath() string
	GetStatusAddr() string
	GetLogLevel() string
}

type SessionConfig interface {
	GetTokenURL() string
	GetClientID() string
	GetClientSecret() string
	GetIssuer() string
	GetRefreshHTTPTimeout() time.Duration
}

type mainConfig struct {
	EnvVars
	Session
	Security
}

func New() Config {
	return mainConfig{}
}
