package token

import (
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/go-exchange-client/internal/errors"
	"github.com/jrsteele09/go-exchange-client/internal/utils"
	"github.com/pkg/errors"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Claims is the subset of access token claims the client acts on.
type Claims struct {
	Subject   string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
	TwoStep   bool     // two-factor enabled on the account
	Roles     []string // exchange roles (e.g. "trader")
}

// ParseClaims decodes the claims of an access token without verifying its
// signature. The exchange API verifies tokens; the client only reads them.
func ParseClaims(rawToken string) (*Claims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, apperrors.ErrInvalidToken
	}

	token, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return nil, errors.Wrap(apperrors.ErrInvalidToken, err.Error())
	}

	claims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.Wrap(apperrors.ErrInvalidToken, "error extracting claims")
	}

	sub, _ := claims["sub"].(string)
	iss, _ := claims["iss"].(string)
	iat, _ := claims["iat"].(float64)
	exp, _ := claims["exp"].(float64)
	twoStep, _ := claims["twostep"].(bool)

	c := &Claims{
		Subject: sub,
		Issuer:  iss,
		TwoStep: twoStep,
		Roles:   utils.ToStringSlice(claims["roles"]),
	}
	if iat > 0 {
		c.IssuedAt = time.Unix(int64(iat), 0)
	}
	if exp > 0 {
		c.ExpiresAt = time.Unix(int64(exp), 0)
	}
	return c, nil
}

// Expired reports whether the token is past its exp claim. Tokens without an
// exp claim never expire.
func (c *Claims) Expired() bool {
	if c.ExpiresAt.IsZero() {
		return false
	}
	return NowTimeFunc().After(c.ExpiresAt)
}
