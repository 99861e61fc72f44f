package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	appNameVar    = "APP_NAME"
	folderEnvVar  = "FOLDER"
	statusAddrVar = "STATUS_ADDR"
	logLevelVar   = "LOG_LEVEL"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Exchange")
}

func (EnvVars) GetDataFolder() string {
	return GetEnv(folderEnvVar, "./data")
}

// GetDatabasePath returns the SQLite file holding the persisted session.
func (e EnvVars) GetDatabasePath() string {
	return filepath.Join(e.GetDataFolder(), "session.db")
}

// GetStatusAddr returns the listen address of the local status server.
// An empty value disables the server.
func (EnvVars) GetStatusAddr() string {
	addr := GetEnv(statusAddrVar, "127.0.0.1:9190")
	if addr == "off" {
		return ""
	}
	if !strings.Contains(addr, ":") {
		addr = fmt.Sprintf(":%s", addr)
	}
	return addr
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelVar, "info")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
