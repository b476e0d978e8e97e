package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"citizen-services/internal/domain"
	"citizen-services/internal/service"
)

type mockAdminRepo struct {
	adminsByID map[string]domain.Admin
}

func newMockAdminRepo() *mockAdminRepo {
	return &mockAdminRepo{adminsByID: make(map[string]domain.Admin)}
}

func (m *mockAdminRepo) Create(_ context.Context, admin domain.Admin) error {
	m.adminsByID[admin.ID] = admin
	return nil
}

func (m *mockAdminRepo) GetByEmail(_ context.Context, email string) (domain.Admin, error) {
	for _, a := range m.adminsByID {
		if a.Email == email {
			return a, nil
		}
	}
	return domain.Admin{}, pgx.ErrNoRows
}

func (m *mockAdminRepo) GetByID(_ context.Context, id string) (domain.Admin, error) {
	a, ok := m.adminsByID[id]
	if !ok {
		return domain.Admin{}, pgx.ErrNoRows
	}
	return a, nil
}

type adminEnv struct {
	admins *mockAdminRepo
	users  *mockUserRepo
	jwtSvc *service.JWTService
	router *gin.Engine
}

func setupAdminEnv(t *testing.T) *adminEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	admins := newMockAdminRepo()
	users := newMockUserRepo()
	notifier := service.NewNotificationService(zap.NewNop(), &mockNotificationRepo{}, nil)
	adminSvc := service.NewAdminService(zap.NewNop(), admins, users, notifier)
	jwtSvc := service.NewJWTService("test-secret", time.Hour)
	h := NewAdminHandler(zap.NewNop(), adminSvc, jwtSvc)

	hash, err := service.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	admins.adminsByID["adm1"] = domain.Admin{
		ID:           "adm1",
		Email:        "admin@x.com",
		PasswordHash: hash,
		PermanentOtp: "54321",
		CreatedAt:    time.Now().UTC(),
	}

	r := gin.New()
	r.POST("/api/admin/admin-login", h.Login)
	r.POST("/api/admin/verify-otp", h.VerifyOTP)
	r.POST("/api/admin/users", JWTAuthMiddleware(jwtSvc), RequireTokenType(service.TokenTypeAdmin), h.CreateUser)
	r.GET("/api/admin/users/lookup", JWTAuthMiddleware(jwtSvc), RequireTokenType(service.TokenTypeAdmin), h.LookupUser)

	return &adminEnv{admins: admins, users: users, jwtSvc: jwtSvc, router: r}
}

func (e *adminEnv) adminToken(t *testing.T) string {
	t.Helper()
	token, err := e.jwtSvc.GenerateAdminToken(e.admins.adminsByID["adm1"])
	if err != nil {
		t.Fatalf("generate admin token: %v", err)
	}
	return token
}

func TestAdminLoginEndpoint(t *testing.T) {
	env := setupAdminEnv(t)

	rec := performRequest(env.router, http.MethodPost, "/api/admin/admin-login", map[string]string{
		"email":    "admin@x.com",
		"password": "s3cret",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		AdminID string `json:"adminId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.AdminID != "adm1" {
		t.Fatalf("expected adminId adm1, got %q", resp.AdminID)
	}

	rec = performRequest(env.router, http.MethodPost, "/api/admin/admin-login", map[string]string{
		"email":    "admin@x.com",
		"password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", rec.Code)
	}
}

func TestAdminVerifyOTPEndpoint(t *testing.T) {
	env := setupAdminEnv(t)

	rec := performRequest(env.router, http.MethodPost, "/api/admin/verify-otp", map[string]string{
		"adminId": "adm1",
		"otp":     "54321",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	claims, err := env.jwtSvc.ParseToken(resp.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.TokenType != service.TokenTypeAdmin {
		t.Fatalf("expected admin token, got %s", claims.TokenType)
	}

	rec = performRequest(env.router, http.MethodPost, "/api/admin/verify-otp", map[string]string{
		"adminId": "adm1",
		"otp":     "00000",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong code, got %d", rec.Code)
	}

	rec = performRequest(env.router, http.MethodPost, "/api/admin/verify-otp", map[string]string{
		"adminId": "missing",
		"otp":     "54321",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown admin, got %d", rec.Code)
	}
}

func TestAdminCreateUserEndpoint(t *testing.T) {
	env := setupAdminEnv(t)
	token := env.adminToken(t)

	rec := performRequest(env.router, http.MethodPost, "/api/admin/users", map[string]any{
		"name":          "Sita Sharma",
		"email":         "sita@x.com",
		"citizenshipNo": "9876543210",
		"salary":        600000,
	}, [2]string{"Authorization", "Bearer " + token})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}

	stored, err := env.users.GetByCitizenshipNo(context.Background(), "9876543210")
	if err != nil {
		t.Fatalf("expected user stored, got %v", err)
	}
	if stored.IsActive {
		t.Fatalf("expected new user inactive")
	}
}

func TestAdminCreateUserEndpoint_RequiresAdminToken(t *testing.T) {
	env := setupAdminEnv(t)

	rec := performRequest(env.router, http.MethodPost, "/api/admin/users", map[string]string{
		"name":          "Sita Sharma",
		"email":         "sita@x.com",
		"citizenshipNo": "9876543210",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	userToken, err := env.jwtSvc.GenerateUserToken(domain.User{ID: "u1", Email: "a@x.com"})
	if err != nil {
		t.Fatalf("generate user token: %v", err)
	}
	rec = performRequest(env.router, http.MethodPost, "/api/admin/users", map[string]string{
		"name":          "Sita Sharma",
		"email":         "sita@x.com",
		"citizenshipNo": "9876543210",
	}, [2]string{"Authorization", "Bearer " + userToken})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for citizen token, got %d", rec.Code)
	}
}

func TestAdminLookupUserEndpoint(t *testing.T) {
	env := setupAdminEnv(t)
	token := env.adminToken(t)
	env.users.usersByID["u1"] = domain.User{
		ID:            "u1",
		Name:          "Ram Bahadur",
		Email:         "a@x.com",
		CitizenshipNo: "1234567890",
		CreatedAt:     time.Now().UTC(),
	}

	rec := performRequest(env.router, http.MethodGet, "/api/admin/users/lookup?citizenshipNo=1234567890", nil,
		[2]string{"Authorization", "Bearer " + token})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = performRequest(env.router, http.MethodGet, "/api/admin/users/lookup?citizenshipNo=0000000000", nil,
		[2]string{"Authorization", "Bearer " + token})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
