package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"citizen-services/internal/service"
)

// PaymentHandler holds dependencies for the payment endpoints.
type PaymentHandler struct {
	logger      *zap.Logger
	paymentServ *service.PaymentService
}

// NewPaymentHandler creates a PaymentHandler with its dependencies.
func NewPaymentHandler(logger *zap.Logger, paymentServ *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		logger:      logger,
		paymentServ: paymentServ,
	}
}

// Create handles POST /api/payments.
func (h *PaymentHandler) Create(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "missing token"})
		return
	}

	var req struct {
		EsewaRefID string `json:"esewaRefId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create payment request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request"})
		return
	}

	payment, err := h.paymentServ.CreatePayment(c.Request.Context(), claims.UserID, req.EsewaRefID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
		case errors.Is(err, service.ErrSalaryNotRegistered):
			c.JSON(http.StatusBadRequest, gin.H{"message": "salary not registered"})
		default:
			h.logger.Error("create payment failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not create payment"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"payment": payment})
}

// List handles GET /api/payments.
func (h *PaymentHandler) List(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "missing token"})
		return
	}

	payments, err := h.paymentServ.ListForUser(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("list payments failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not list payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

// ResolveByAdmin handles POST /api/admin/payments/:id/verify.
func (h *PaymentHandler) ResolveByAdmin(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "missing token"})
		return
	}

	var req struct {
		Approve *bool `json:"approve" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid resolve payment request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request"})
		return
	}

	payment, err := h.paymentServ.ResolveByAdmin(c.Request.Context(), c.Param("id"), claims.UserID, *req.Approve)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "payment not found"})
		case errors.Is(err, service.ErrPaymentAlreadyClosed):
			c.JSON(http.StatusConflict, gin.H{"message": "payment already resolved"})
		default:
			h.logger.Error("resolve payment failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not resolve payment"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": payment})
}
