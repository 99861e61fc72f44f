package config

import (
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type SecurityConfig interface {
	GetPinIdleTimeout() time.Duration
	GetPinAttemptInterval() time.Duration
	GetPinAttemptBurst() int
	GetPinHashCost() int
}

type Security struct{}

var _ SecurityConfig = Security{}

// GetPinIdleTimeout is how long an unlocked pin stays valid without activity.
func (Security) GetPinIdleTimeout() time.Duration {
	return durationEnv("PIN_IDLE_TIMEOUT", 5*time.Minute)
}

// GetPinAttemptInterval is the refill interval of the pin attempt bucket.
func (Security) GetPinAttemptInterval() time.Duration {
	return durationEnv("PIN_ATTEMPT_INTERVAL", 30*time.Second)
}

func (Security) GetPinAttemptBurst() int {
	return intEnv("PIN_ATTEMPT_BURST", 5)
}

func (Security) GetPinHashCost() int {
	cost := intEnv("PIN_HASH_COST", bcrypt.DefaultCost)
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return bcrypt.DefaultCost
	}
	return cost
}

func intEnv(envVar string, defaultValue int) int {
	n, err := strconv.Atoi(GetEnv(envVar, ""))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
