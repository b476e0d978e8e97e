package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"citizen-services/internal/domain"
	"citizen-services/internal/repository"
)

// AdminService handles dashboard operator authentication and the admin-side
// citizen record actions.
type AdminService struct {
	logger   *zap.Logger
	admins   repository.AdminRepository
	users    repository.UserRepository
	notifier *NotificationService
}

func NewAdminService(logger *zap.Logger, admins repository.AdminRepository, users repository.UserRepository, notifier *NotificationService) *AdminService {
	return &AdminService{
		logger:   logger,
		admins:   admins,
		users:    users,
		notifier: notifier,
	}
}

var ErrAdminNotFound = errors.New("admin not found")

// Login checks email and password and returns the admin. The password check
// runs against a bcrypt hash.
func (s *AdminService) Login(ctx context.Context, emailAddr, password string) (domain.Admin, error) {
	emailAddr = normalizeEmail(emailAddr)
	password = strings.TrimSpace(password)
	if emailAddr == "" || password == "" {
		return domain.Admin{}, ErrInvalidCredentials
	}

	admin, err := s.admins.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Admin{}, ErrInvalidCredentials
		}
		return domain.Admin{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return domain.Admin{}, ErrInvalidCredentials
	}
	return admin, nil
}

// VerifyOTP compares the supplied code against the admin's permanent code.
// The code is a static second factor: it never expires and is not consumed.
func (s *AdminService) VerifyOTP(ctx context.Context, adminID, code string) (domain.Admin, error) {
	adminID = strings.TrimSpace(adminID)
	code = strings.TrimSpace(code)
	if adminID == "" {
		return domain.Admin{}, ErrAdminNotFound
	}

	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Admin{}, ErrAdminNotFound
		}
		return domain.Admin{}, err
	}
	if code == "" || subtle.ConstantTimeCompare([]byte(code), []byte(admin.PermanentOtp)) != 1 {
		return domain.Admin{}, ErrInvalidCredentials
	}
	return admin, nil
}

// CreateUserInput carries the fields an admin registers for a new citizen.
type CreateUserInput struct {
	Name          string
	Email         string
	CitizenshipNo string
	Address       string
	FatherName    string
	MotherName    string
	DateOfBirth   string
	IssueDate     string
	PanNumber     string
	PanIssueDate  string
	Salary        *float64
}

// CreateUser registers a citizen record in the pre-activation state.
func (s *AdminService) CreateUser(ctx context.Context, input CreateUserInput) (domain.User, error) {
	emailAddr := normalizeEmail(input.Email)
	citizenshipNo := strings.TrimSpace(input.CitizenshipNo)
	if emailAddr == "" || citizenshipNo == "" {
		return domain.User{}, ErrInvalidIdentity
	}

	user := domain.User{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(input.Name),
		Email:         emailAddr,
		CitizenshipNo: citizenshipNo,
		Address:       strings.TrimSpace(input.Address),
		FatherName:    strings.TrimSpace(input.FatherName),
		MotherName:    strings.TrimSpace(input.MotherName),
		DateOfBirth:   strings.TrimSpace(input.DateOfBirth),
		IssueDate:     strings.TrimSpace(input.IssueDate),
		PanNumber:     strings.TrimSpace(input.PanNumber),
		PanIssueDate:  strings.TrimSpace(input.PanIssueDate),
		Salary:        input.Salary,
		IsActive:      false,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, user.ID, "Account created", "Your citizen record has been registered. Activate it with the code sent on request.")
	}
	return user, nil
}

// LookupUserByCitizenshipNo resolves a citizen record from a scanned
// citizenship number.
func (s *AdminService) LookupUserByCitizenshipNo(ctx context.Context, citizenshipNo string) (domain.User, error) {
	citizenshipNo = strings.TrimSpace(citizenshipNo)
	if citizenshipNo == "" {
		return domain.User{}, ErrUserNotFound
	}
	user, err := s.users.GetByCitizenshipNo(ctx, citizenshipNo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// HashPassword produces a bcrypt hash for admin seeding.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
