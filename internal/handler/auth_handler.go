package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/sellerhq/seller_api/internal/middleware"
	"github.com/sellerhq/seller_api/internal/models"
	"github.com/sellerhq/seller_api/internal/service"
	"github.com/sellerhq/seller_api/internal/utils"
	"github.com/sellerhq/seller_api/pkg/wpauth"
)

// AuthHandler handles vendor authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login exchanges vendor credentials for a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var input models.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", err.Error())
		return
	}

	token, vendor, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		if err == utils.ErrInvalidCredentials {
			utils.Error(c, 401, "INVALID_CREDENTIALS", "Invalid username or password")
			return
		}
		log.Error().Err(err).Msg("login failed")
		utils.Error(c, 502, "AUTH_PROVIDER_ERROR", "Authentication provider unavailable")
		return
	}

	utils.Success(c, 200, "Login successful", gin.H{
		"token":  token,
		"vendor": vendor,
	})
}

// Register creates a new seller account via the auth provider.
func (h *AuthHandler) Register(c *gin.Context) {
	var input models.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", err.Error())
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), input)
	if err != nil {
		var authErr *wpauth.AuthError
		if errors.As(err, &authErr) && authErr.Status < 500 {
			utils.Error(c, authErr.Status, "REGISTRATION_REJECTED", authErr.Message)
			return
		}
		log.Error().Err(err).Msg("registration failed")
		utils.Error(c, 502, "AUTH_PROVIDER_ERROR", "Authentication provider unavailable")
		return
	}

	utils.Success(c, 201, "Seller account created", resp)
}

// Me returns the authenticated vendor's identity.
func (h *AuthHandler) Me(c *gin.Context) {
	utils.Success(c, 200, "Vendor retrieved successfully", middleware.GetVendor(c))
}

// Logout drops the session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.GetToken(c)); err != nil {
		log.Warn().Err(err).Msg("logout cleanup failed")
	}
	utils.Success(c, 200, "Logged out", nil)
}
