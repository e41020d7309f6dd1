// api/handlers/auth_handler.go
package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campustrade/campustrade-api/api/middleware"
	"github.com/campustrade/campustrade-api/api/models"
	"github.com/campustrade/campustrade-api/internal/auth"
	"github.com/campustrade/campustrade-api/internal/domain"
	"github.com/campustrade/campustrade-api/internal/storage"
)

// AuthHandler holds dependencies for authentication handlers.
type AuthHandler struct {
	DB           *sql.DB
	Tokens       *auth.TokenService
	SecureCookie bool
}

// NewAuthHandler creates a new AuthHandler with dependencies.
func NewAuthHandler(db *sql.DB, tokens *auth.TokenService, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		DB:           db,
		Tokens:       tokens,
		SecureCookie: secureCookie,
	}
}

// Register handles user registration requests.
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	user, err := storage.CreateUser(c.Request.Context(), h.DB, uuid.NewString(), req.Username, req.Email, hashedPassword)
	if err != nil {
		customLog.Warnf("Failed to create user %s: %v", req.Email, err)
		_ = c.Error(err)
		return
	}

	customLog.Printf("Successfully registered user with email %s", req.Email)
	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    models.NewUserResponse(user),
	})
}

// Login handles user login requests and issues tokens on success.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := storage.FindUserByEmail(c.Request.Context(), h.DB, req.Email)
	if err != nil {
		customLog.Warnf("Login failed for email %s: %v", req.Email, err)
		if errors.Is(err, storage.ErrUserNotFound) {
			err = storage.ErrInvalidCredentials
		}
		_ = c.Error(err)
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		customLog.Warnf("Login attempt failed for email %s: invalid password", user.Email)
		_ = c.Error(storage.ErrInvalidCredentials)
		return
	}

	resp, err := h.issueTokens(c, user)
	if err != nil {
		_ = c.Error(err)
		return
	}
	resp.Message = "Login successful"
	c.JSON(http.StatusOK, resp)
}

// Refresh exchanges a refresh token for a new token pair. The presented
// refresh token is consumed (rotation); it can be exchanged only once.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()

	stored, err := storage.ClaimRefreshToken(ctx, h.DB, auth.HashRefreshToken(req.RefreshToken), timeNow())
	if err != nil {
		if errors.Is(err, storage.ErrRefreshTokenNotFound) || errors.Is(err, storage.ErrRefreshTokenExpired) {
			customLog.Warnf("Refresh rejected: %v", err)
			err = auth.ErrRefreshTokenInvalid
		}
		_ = c.Error(err)
		return
	}

	user, err := storage.FindUserByID(ctx, h.DB, stored.UserID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp, err := h.issueTokens(c, user)
	if err != nil {
		_ = c.Error(err)
		return
	}
	resp.Message = "Token refreshed"
	c.JSON(http.StatusOK, resp)
}

// Logout blacklists the presented access token and revokes refresh tokens.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req models.LogoutRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()
	claims := middleware.ClaimsFrom(c)

	if claims.ID == "" {
		customLog.Warnf("Logout for user %s: access token has no jti and stays valid until expiry", claims.Subject)
	} else if err := h.Tokens.RevokeToken(ctx, claims); err != nil {
		_ = c.Error(err)
		return
	}

	if req.RefreshToken != "" {
		stored, err := storage.FindRefreshToken(ctx, h.DB, auth.HashRefreshToken(req.RefreshToken))
		if err == nil && stored.UserID == claims.Subject {
			err = storage.RevokeRefreshToken(ctx, h.DB, stored.ID)
		}
		if err != nil && !errors.Is(err, storage.ErrRefreshTokenNotFound) {
			_ = c.Error(err)
			return
		}
	} else if _, err := storage.RevokeUserRefreshTokens(ctx, h.DB, claims.Subject); err != nil {
		_ = c.Error(err)
		return
	}

	h.clearCookie(c)
	customLog.Printf("User %s logged out", claims.Subject)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := storage.FindUserByID(c.Request.Context(), h.DB, middleware.UserIDFrom(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, models.NewUserResponse(user))
}

func (h *AuthHandler) issueTokens(c *gin.Context, user *domain.User) (*models.TokenResponse, error) {
	accessToken, _, err := h.Tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	raw, hash, expiresAt, err := h.Tokens.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}
	err = storage.SaveRefreshToken(c.Request.Context(), h.DB, &domain.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		TokenHash: hash,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return nil, err
	}

	lifetime := h.Tokens.Options().AccessTokenLifetime()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, accessToken, int(lifetime.Seconds()), "/", "", h.SecureCookie, true)

	return &models.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: raw,
		TokenType:    "Bearer",
		ExpiresIn:    int64(lifetime.Seconds()),
		User:         models.NewUserResponse(user),
	}, nil
}

func (h *AuthHandler) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", h.SecureCookie, true)
}
