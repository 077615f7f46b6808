package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sellerhq/seller_api/internal/cache"
	"github.com/sellerhq/seller_api/internal/models"
	"github.com/sellerhq/seller_api/internal/utils"
	"github.com/sellerhq/seller_api/pkg/wpauth"
)

// AuthService fronts the external authentication provider. It never verifies
// credentials itself; it forwards them, keeps the issued bearer token mapped
// to a vendor identity in the session cache, and resolves tokens on incoming
// requests.
type AuthService struct {
	provider *wpauth.Client
	sessions *cache.SessionCache
}

// NewAuthService constructs an AuthService.
func NewAuthService(provider *wpauth.Client, sessions *cache.SessionCache) *AuthService {
	return &AuthService{provider: provider, sessions: sessions}
}

// Login exchanges vendor credentials for a bearer token and caches the vendor
// identity under it.
func (s *AuthService) Login(ctx context.Context, input models.LoginInput) (string, *models.Vendor, error) {
	resp, err := s.provider.Token(ctx, input.Username, input.Password)
	if err != nil {
		var authErr *wpauth.AuthError
		if errors.As(err, &authErr) && (authErr.Status == http.StatusForbidden || authErr.Status == http.StatusUnauthorized) {
			return "", nil, utils.ErrInvalidCredentials
		}
		return "", nil, err
	}

	vendor := &models.Vendor{
		ID:          resp.UserID,
		Email:       resp.UserEmail,
		DisplayName: resp.UserDisplayName,
		LoggedInAt:  time.Now(),
	}
	// Some JWT plugin builds omit user_id in the response body; the token's
	// own claims carry it either way.
	if vendor.ID == 0 {
		if claims, err := utils.InspectToken(resp.Token); err == nil {
			vendor.ID = claims.UserID
		}
	}

	if err := s.sessions.Set(ctx, resp.Token, vendor); err != nil {
		return "", nil, err
	}
	return resp.Token, vendor, nil
}

// Register creates a new seller account through the auth provider. The new
// vendor still logs in normally afterwards.
func (s *AuthService) Register(ctx context.Context, input models.RegisterInput) (*wpauth.RegisterResponse, error) {
	return s.provider.Register(ctx, wpauth.RegisterRequest{
		Username:  input.Username,
		Email:     input.Email,
		Password:  input.Password,
		StoreName: input.StoreName,
		Phone:     input.Phone,
	})
}

// Resolve maps a bearer token to the vendor it belongs to. Expired or
// malformed tokens fail immediately; unknown-but-live tokens (e.g. after a
// portal restart) are re-validated with the provider and re-cached.
func (s *AuthService) Resolve(ctx context.Context, token string) (*models.Vendor, error) {
	claims, err := utils.InspectToken(token)
	if err != nil {
		return nil, utils.ErrInvalidToken
	}

	vendor, err := s.sessions.Get(ctx, token)
	if err != nil {
		log.Warn().Err(err).Msg("session cache read failed, falling back to provider validation")
	}
	if vendor != nil {
		return vendor, nil
	}

	if err := s.provider.Validate(ctx, token); err != nil {
		return nil, utils.ErrInvalidToken
	}
	vendor = &models.Vendor{ID: claims.UserID, LoggedInAt: time.Now()}
	if err := s.sessions.Set(ctx, token, vendor); err != nil {
		log.Warn().Err(err).Msg("failed to cache re-validated session")
	}
	return vendor, nil
}

// Logout drops the cached session for a token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}
