package session

import (
	"context"
	"net/http"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/jrsteele09/go-exchange-client/internal/config"
	apperrors "github.com/jrsteele09/go-exchange-client/internal/errors"
	"github.com/jrsteele09/go-exchange-client/internal/utils"
	"github.com/jrsteele09/go-exchange-client/token"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

// IDTokenVerifier checks an OIDC ID token. *oidc.IDTokenVerifier satisfies it.
type IDTokenVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*oidc.IDToken, error)
}

// Refresher renews the session through the exchange's OAuth2 refresh-token
// grant, using the refresh token held in the current snapshot.
type Refresher struct {
	oauth      *oauth2.Config
	issuer     string
	httpClient *http.Client
	verifier   IDTokenVerifier
}

type RefresherOption func(*Refresher)

func WithHTTPClient(c *http.Client) RefresherOption {
	return func(r *Refresher) {
		r.httpClient = c
	}
}

func WithIDTokenVerifier(v IDTokenVerifier) RefresherOption {
	return func(r *Refresher) {
		r.verifier = v
	}
}

func NewRefresher(cfg config.SessionConfig, options ...RefresherOption) *Refresher {
	r := &Refresher{
		oauth: &oauth2.Config{
			ClientID:     cfg.GetClientID(),
			ClientSecret: cfg.GetClientSecret(),
			Endpoint: oauth2.Endpoint{
				TokenURL:  cfg.GetTokenURL(),
				AuthStyle: oauth2.AuthStyleInParams,
			},
			Scopes: []string{oidc.ScopeOpenID, oidc.ScopeOfflineAccess},
		},
		issuer: cfg.GetIssuer(),
	}

	for _, opt := range options {
		opt(r)
	}

	if r.httpClient == nil {
		r.httpClient = &http.Client{Timeout: cfg.GetRefreshHTTPTimeout()}
	}
	return r
}

// NewOIDCVerifier discovers the issuer and returns a verifier for ID tokens
// issued to clientID.
func NewOIDCVerifier(ctx context.Context, issuer, clientID string) (*oidc.IDTokenVerifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, errors.Wrap(err, "NewOIDCVerifier oidc.NewProvider")
	}
	return provider.Verifier(&oidc.Config{ClientID: clientID}), nil
}

// Refresh exchanges the current refresh token for new tokens and returns the
// updated snapshot. A rejection by the token endpoint is returned as an
// apperrors.StatusError carrying the HTTP status.
func (r *Refresher) Refresh(ctx context.Context, current Snapshot) (Snapshot, error) {
	refreshToken := current.RefreshToken()
	if refreshToken == "" {
		return Snapshot{}, apperrors.ErrNoRefreshToken
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, r.httpClient)
	tok, err := r.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if apperrors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			return Snapshot{}, &apperrors.StatusError{StatusCode: retrieveErr.Response.StatusCode, Err: retrieveErr}
		}
		return Snapshot{}, errors.Wrap(err, "Refresher.Refresh Token")
	}

	claims, err := token.ParseClaims(tok.AccessToken)
	if err != nil {
		return Snapshot{}, errors.Wrap(err, "Refresher.Refresh ParseClaims")
	}
	if claims.Expired() {
		return Snapshot{}, apperrors.Wrapf(apperrors.ErrSessionExpired, "Refresher.Refresh access token expired at %s", claims.ExpiresAt.UTC().Format(time.RFC3339))
	}
	if r.issuer != "" && claims.Issuer != r.issuer {
		return Snapshot{}, apperrors.Wrapf(apperrors.ErrInvalidToken, "Refresher.Refresh unexpected issuer %q", claims.Issuer)
	}

	if r.verifier != nil {
		if rawIDToken, ok := tok.Extra("id_token").(string); ok && rawIDToken != "" {
			if _, err := r.verifier.Verify(ctx, rawIDToken); err != nil {
				return Snapshot{}, errors.Wrap(err, "Refresher.Refresh Verify id_token")
			}
		}
	}

	next := current
	next.Tokens = Tokens{
		AccessToken:  utils.Ptr(tok.AccessToken),
		RefreshToken: utils.Ptr(refreshToken),
		TokenType:    tok.Type(),
		Expiry:       tok.Expiry,
	}
	if tok.RefreshToken != "" {
		next.Tokens.RefreshToken = utils.Ptr(tok.RefreshToken)
	}
	if next.Tokens.Expiry.IsZero() {
		next.Tokens.Expiry = claims.ExpiresAt
	}
	next.TwoStep.Enabled = claims.TwoStep
	if !claims.TwoStep {
		next.TwoStep.Verified = false
	}

	log.Debug().
		Str("sub", claims.Subject).
		Time("iat", claims.IssuedAt).
		Strs("roles", claims.Roles).
		Bool("twostep", claims.TwoStep).
		Msg("session: refreshed")
	return next, nil
}
