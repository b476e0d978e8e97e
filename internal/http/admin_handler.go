package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"citizen-services/internal/service"
)

// AdminHandler holds dependencies for the admin dashboard endpoints.
type AdminHandler struct {
	logger    *zap.Logger
	adminServ *service.AdminService
	jwtServ   *service.JWTService
}

// NewAdminHandler creates an AdminHandler with its dependencies.
func NewAdminHandler(logger *zap.Logger, adminServ *service.AdminService, jwtServ *service.JWTService) *AdminHandler {
	return &AdminHandler{
		logger:    logger,
		adminServ: adminServ,
		jwtServ:   jwtServ,
	}
}

// Login handles POST /api/admin/admin-login.
func (h *AdminHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid admin login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request"})
		return
	}

	admin, err := h.adminServ.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
			return
		}
		h.logger.Error("admin login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not login"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "OTP verification required", "adminId": admin.ID})
}

// VerifyOTP handles POST /api/admin/verify-otp.
func (h *AdminHandler) VerifyOTP(c *gin.Context) {
	var req struct {
		AdminID string `json:"adminId" binding:"required"`
		Otp     string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid admin verify request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request"})
		return
	}

	admin, err := h.adminServ.VerifyOTP(c.Request.Context(), req.AdminID, req.Otp)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAdminNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "admin not found"})
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid OTP"})
		default:
			h.logger.Error("admin verify otp failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "could not verify OTP"})
		}
		return
	}

	token, err := h.jwtServ.GenerateAdminToken(admin)
	if err != nil {
		h.logger.Error("jwt issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Admin verified", "adminId": admin.ID, "token": token})
}

// CreateUser handles POST /api/admin/users.
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req struct {
		Name          string   `json:"name" binding:"required"`
		Email         string   `json:"email" binding:"required,email"`
		CitizenshipNo string   `json:"citizenshipNo" binding:"required"`
		Address       string   `json:"address"`
		FatherName    string   `json:"fatherName"`
		MotherName    string   `json:"motherName"`
		DateOfBirth   string   `json:"dob"`
		IssueDate     string   `json:"issueDate"`
		PanNumber     string   `json:"panNumber"`
		PanIssueDate  string   `json:"panIssueDate"`
		Salary        *float64 `json:"salary"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create user request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request"})
		return
	}

	user, err := h.adminServ.CreateUser(c.Request.Context(), service.CreateUserInput{
		Name:          req.Name,
		Email:         req.Email,
		CitizenshipNo: req.CitizenshipNo,
		Address:       req.Address,
		FatherName:    req.FatherName,
		MotherName:    req.MotherName,
		DateOfBirth:   req.DateOfBirth,
		IssueDate:     req.IssueDate,
		PanNumber:     req.PanNumber,
		PanIssueDate:  req.PanIssueDate,
		Salary:        req.Salary,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidIdentity) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid identity fields"})
			return
		}
		h.logger.Error("create user failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// LookupUser handles GET /api/admin/users/lookup?citizenshipNo=.
func (h *AdminHandler) LookupUser(c *gin.Context) {
	citizenshipNo := c.Query("citizenshipNo")
	user, err := h.adminServ.LookupUserByCitizenshipNo(c.Request.Context(), citizenshipNo)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
			return
		}
		h.logger.Error("lookup user failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not lookup user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
