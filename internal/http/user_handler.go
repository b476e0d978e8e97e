package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"citizen-services/internal/service"
)

// UserHandler holds dependencies for the citizen auth endpoints.
type UserHandler struct {
	logger   *zap.Logger
	userServ *service.UserService
	jwtServ  *service.JWTService
}

// NewUserHandler creates a UserHandler with its dependencies.
func NewUserHandler(logger *zap.Logger, userServ *service.UserService, jwtServ *service.JWTService) *UserHandler {
	return &UserHandler{
		logger:   logger,
		userServ: userServ,
		jwtServ:  jwtServ,
	}
}

type identityRequest struct {
	Email         string `json:"email" binding:"required,email"`
	CitizenshipNo string `json:"citizenshipNo" binding:"required"`
}

type verifyRequest struct {
	Email         string `json:"email" binding:"required,email"`
	CitizenshipNo string `json:"citizenshipNo" binding:"required"`
	Otp           string `json:"otp" binding:"required"`
}

// Activate handles POST /api/users/activate.
func (h *UserHandler) Activate(c *gin.Context) {
	var req identityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid activate request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request"})
		return
	}

	err := h.userServ.RequestActivationOTP(c.Request.Context(), req.Email, req.CitizenshipNo)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrInvalidIdentity):
			c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
		case errors.Is(err, service.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"message": "too many requests"})
		default:
			h.logger.Error("request activation otp failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not send activation code"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Activation OTP sent to your email"})
}

// VerifyActivationOTP handles POST /api/users/verify-activation-otp.
func (h *UserHandler) VerifyActivationOTP(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid verify activation request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request"})
		return
	}

	_, err := h.userServ.VerifyActivationOTP(c.Request.Context(), req.Email, req.CitizenshipNo, req.Otp)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrInvalidIdentity):
			c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
		case errors.Is(err, service.ErrOTPInvalidOrExpired):
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid or expired OTP"})
		default:
			h.logger.Error("verify activation otp failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not verify OTP"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account activated successfully"})
}

// Login handles POST /api/users/login. An inactive account is reported the
// same way as a missing one.
func (h *UserHandler) Login(c *gin.Context) {
	var req identityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request"})
		return
	}

	err := h.userServ.RequestLoginOTP(c.Request.Context(), req.Email, req.CitizenshipNo)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrInvalidIdentity):
			c.JSON(http.StatusUnauthorized, gin.H{"message": "user not found or not activated"})
		case errors.Is(err, service.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"message": "too many requests"})
		default:
			h.logger.Error("request login otp failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not send login code"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Login OTP sent to your email"})
}

// VerifyLoginOTP handles POST /api/users/verify-login-otp.
func (h *UserHandler) VerifyLoginOTP(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid verify login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request"})
		return
	}

	user, err := h.userServ.VerifyLoginOTP(c.Request.Context(), req.Email, req.CitizenshipNo, req.Otp)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrInvalidIdentity):
			c.JSON(http.StatusNotFound, gin.H{"message": "user not found or not activated"})
		case errors.Is(err, service.ErrOTPInvalidOrExpired):
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid or expired OTP"})
		default:
			h.logger.Error("verify login otp failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not verify OTP"})
		}
		return
	}

	token, err := h.jwtServ.GenerateUserToken(user)
	if err != nil {
		h.logger.Error("jwt issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Login successful",
		"token":     token,
		"expiresIn": h.jwtServ.TTLSeconds(),
	})
}

// Me handles GET /api/users/me. The record is fetched fresh so the response
// reflects updates made after the token was issued.
func (h *UserHandler) Me(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "missing token"})
		return
	}

	user, err := h.userServ.GetUser(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
			return
		}
		h.logger.Error("get user failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not load user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
