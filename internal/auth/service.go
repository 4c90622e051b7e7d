// Package auth manages the tracking service OAuth session: code
// exchange, token storage and proactive refresh.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/showdeck/showdeck/internal/config"
	"github.com/showdeck/showdeck/internal/localstore"
	"github.com/showdeck/showdeck/internal/trakt"
)

const authorizeBase = "https://trakt.tv/oauth/authorize"

// Tokens are refreshed once they are within this window of expiry.
const refreshThreshold = 24 * time.Hour

var (
	ErrInvalidState = errors.New("auth state mismatch")
	ErrNoSession    = errors.New("no active session")
)

// TokenClient is the subset of the tracking client the service needs.
type TokenClient interface {
	ExchangeCode(ctx context.Context, code string) (*trakt.AuthTokens, error)
	RefreshToken(ctx context.Context, refreshToken string) (*trakt.AuthTokens, error)
	UserSettings(ctx context.Context, accessToken string) (*trakt.UserSettings, error)
}

// Service owns the OAuth session. It implements trakt.TokenProvider.
type Service struct {
	client TokenClient
	store  *localstore.Typed
	config config.TraktConfig
	logger zerolog.Logger

	mu           sync.Mutex
	pendingState string
}

// NewService creates an auth service over the durable store.
func NewService(client TokenClient, store *localstore.Typed, cfg config.TraktConfig, logger zerolog.Logger) *Service {
	return &Service{
		client: client,
		store:  store,
		config: cfg,
		logger: logger.With().Str("component", "auth").Logger(),
	}
}

// AuthorizeURL builds the upstream authorization URL with a fresh
// one-time state nonce.
func (s *Service) AuthorizeURL() string {
	s.mu.Lock()
	s.pendingState = uuid.NewString()
	state := s.pendingState
	s.mu.Unlock()

	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", s.config.ClientID)
	params.Set("redirect_uri", s.config.RedirectURI)
	params.Set("state", state)
	return fmt.Sprintf("%s?%s", authorizeBase, params.Encode())
}

// Exchange trades an authorization code for a session. The state must
// match the nonce issued by AuthorizeURL; an empty pending state (e.g.
// a flow started elsewhere) accepts any state.
func (s *Service) Exchange(ctx context.Context, code, state string) (*trakt.UserSettings, error) {
	s.mu.Lock()
	pending := s.pendingState
	s.pendingState = ""
	s.mu.Unlock()

	if pending != "" && state != pending {
		return nil, ErrInvalidState
	}

	tokens, err := s.client.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}
	if err := s.store.SetSession(ctx, tokens); err != nil {
		return nil, err
	}

	settings, err := s.client.UserSettings(ctx, tokens.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user settings: %w", err)
	}
	if err := s.store.SetUser(ctx, settings); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user", settings.User.Username).Msg("Session established")
	return settings, nil
}

// SignOut drops the session.
func (s *Service) SignOut(ctx context.Context) error {
	return s.store.ClearSession(ctx)
}

// User returns the stored profile of the signed-in user.
func (s *Service) User(ctx context.Context) (*trakt.UserSettings, error) {
	settings, ok, err := s.store.User(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoSession
	}
	return settings, nil
}

// AccessToken returns a valid access token, refreshing it first when it
// is close to expiry. Implements trakt.TokenProvider.
func (s *Service) AccessToken(ctx context.Context) (string, bool) {
	tokens, ok, err := s.store.Session(ctx)
	if err != nil || !ok {
		return "", false
	}

	now := time.Now()
	if now.Before(tokens.Expiry().Add(-refreshThreshold)) {
		return tokens.AccessToken, true
	}

	refreshed, err := s.client.RefreshToken(ctx, tokens.RefreshToken)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Token refresh failed")
		// The old token may still work until its actual expiry.
		if now.Before(tokens.Expiry()) {
			return tokens.AccessToken, true
		}
		return "", false
	}

	if err := s.store.SetSession(ctx, refreshed); err != nil {
		s.logger.Error().Err(err).Msg("Failed to persist refreshed tokens")
	}
	s.logger.Info().Msg("Session tokens refreshed")
	return refreshed.AccessToken, true
}

// Username returns the signed-in user's slug. Implements
// trakt.TokenProvider.
func (s *Service) Username(ctx context.Context) (string, bool) {
	settings, ok, err := s.store.User(ctx)
	if err != nil || !ok {
		return "", false
	}
	if slug := settings.User.IDs.Slug; slug != "" {
		return slug, true
	}
	if settings.User.Username != "" {
		return settings.User.Username, true
	}
	return "", false
}
