package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"citizen-services/internal/domain"
	"citizen-services/internal/email"
	"citizen-services/internal/repository"
)

// UserService coordinates citizen activation and login over one-time codes.
type UserService struct {
	logger      *zap.Logger
	users       repository.UserRepository
	otps        repository.OtpRepository
	emailSender email.Sender
	notifier    *NotificationService
	otpLimiter  OTPRateLimiter
}

func NewUserService(
	logger *zap.Logger,
	users repository.UserRepository,
	otps repository.OtpRepository,
	emailSender email.Sender,
	notifier *NotificationService,
	otpLimiter OTPRateLimiter,
) *UserService {
	if otpLimiter == nil {
		otpLimiter = NewOTPRateLimiter(otpTTL, 3)
	}
	return &UserService{
		logger:      logger,
		users:       users,
		otps:        otps,
		emailSender: emailSender,
		notifier:    notifier,
		otpLimiter:  otpLimiter,
	}
}

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrOTPInvalidOrExpired  = errors.New("otp invalid or expired")
	ErrRateLimited          = errors.New("rate limited")
	ErrInvalidIdentity      = errors.New("invalid identity fields")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrSalaryNotRegistered  = errors.New("salary not registered")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrPaymentAlreadyClosed = errors.New("payment already closed")
)

const otpTTL = 10 * time.Minute

// RequestActivationOTP issues a fresh activation code for an existing
// citizen record. An email delivery failure is logged but does not fail the
// request; the stored code remains usable.
func (s *UserService) RequestActivationOTP(ctx context.Context, emailAddr, citizenshipNo string) error {
	user, err := s.resolveUser(ctx, emailAddr, citizenshipNo, false)
	if err != nil {
		return err
	}
	return s.issueOTP(ctx, user, "Account activation", "Your activation code has been sent to your email.")
}

// VerifyActivationOTP consumes an activation code and marks the account
// active. Every outstanding code for the user is removed on success.
func (s *UserService) VerifyActivationOTP(ctx context.Context, emailAddr, citizenshipNo, code string) (domain.User, error) {
	user, err := s.resolveUser(ctx, emailAddr, citizenshipNo, false)
	if err != nil {
		return domain.User{}, err
	}
	if err := s.consumeOTP(ctx, user.ID, code); err != nil {
		return domain.User{}, err
	}

	activatedAt := time.Now().UTC()
	if err := s.users.Activate(ctx, user.ID, activatedAt); err != nil {
		return domain.User{}, err
	}
	user.IsActive = true
	user.UpdatedAt = &activatedAt

	if s.notifier != nil {
		s.notifier.Notify(ctx, user.ID, "Account activated", "Your citizen account is now active.")
	}
	return user, nil
}

// RequestLoginOTP issues a login code. An inactive user is treated exactly
// like a missing one so the response does not leak activation state.
func (s *UserService) RequestLoginOTP(ctx context.Context, emailAddr, citizenshipNo string) error {
	user, err := s.resolveUser(ctx, emailAddr, citizenshipNo, true)
	if err != nil {
		return err
	}
	return s.issueOTP(ctx, user, "Login request", "Your login code has been sent to your email.")
}

// VerifyLoginOTP consumes a login code and returns the authenticated user.
// Token issuance is the caller's concern.
func (s *UserService) VerifyLoginOTP(ctx context.Context, emailAddr, citizenshipNo, code string) (domain.User, error) {
	user, err := s.resolveUser(ctx, emailAddr, citizenshipNo, true)
	if err != nil {
		return domain.User{}, err
	}
	if err := s.consumeOTP(ctx, user.ID, code); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// GetUser returns a citizen record by id.
func (s *UserService) GetUser(ctx context.Context, id string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

func (s *UserService) resolveUser(ctx context.Context, emailAddr, citizenshipNo string, requireActive bool) (domain.User, error) {
	emailAddr = normalizeEmail(emailAddr)
	citizenshipNo = strings.TrimSpace(citizenshipNo)
	if emailAddr == "" || citizenshipNo == "" {
		return domain.User{}, ErrInvalidIdentity
	}

	user, err := s.users.GetByEmailAndCitizenship(ctx, emailAddr, citizenshipNo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	if requireActive && !user.IsActive {
		return domain.User{}, ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) issueOTP(ctx context.Context, user domain.User, title, message string) error {
	if s.otpLimiter != nil && !s.otpLimiter.Allow(user.Email+"|"+user.CitizenshipNo) {
		return ErrRateLimited
	}

	code, err := generateOTPCode()
	if err != nil {
		return err
	}
	expiresAt := time.Now().UTC().Add(otpTTL)

	otp := domain.Otp{
		ID:        uuid.NewString(),
		Code:      code,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.otps.Create(ctx, otp); err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, user.ID, title, message)
	}

	// Delivery is best effort: the code is already stored, so a mail
	// outage must not invalidate the request.
	if s.emailSender == nil {
		s.logger.Warn("email sender not configured", zap.String("user_id", user.ID))
		return nil
	}
	if err := s.emailSender.SendOTP(ctx, user.Email, code, expiresAt); err != nil {
		s.logger.Warn("send otp failed", zap.Error(err), zap.String("user_id", user.ID))
	}
	return nil
}

func (s *UserService) consumeOTP(ctx context.Context, userID, code string) error {
	code = strings.TrimSpace(code)
	if !isValidOTPCode(code) {
		return ErrOTPInvalidOrExpired
	}
	if _, err := s.otps.GetMatching(ctx, userID, code, time.Now().UTC()); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrOTPInvalidOrExpired
		}
		return err
	}
	// Blunt delete-all: stale codes for the user die with the consumed one.
	return s.otps.DeleteForUser(ctx, userID)
}

// generateOTPCode draws a 5-digit code uniformly from [10000, 99999].
func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(90000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%05d", n.Int64()+10000), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isValidOTPCode(code string) bool {
	if len(code) != 5 {
		return false
	}
	for _, r := range code {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// OTPRateLimiter bounds how often codes may be requested per identity key.
type OTPRateLimiter interface {
	Allow(key string) bool
}

type otpRateLimiter struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	hits   map[string][]time.Time
}

// NewOTPRateLimiter creates an in-memory rate limiter.
func NewOTPRateLimiter(window time.Duration, max int) OTPRateLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &otpRateLimiter{
		window: window,
		max:    max,
		hits:   make(map[string][]time.Time),
	}
}

func (l *otpRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now().UTC()
	cutoff := now.Add(-l.window)
	entries := l.hits[key]
	kept := entries[:0]
	for _, ts := range entries {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= l.max {
		l.hits[key] = kept
		return false
	}
	kept = append(kept, now)
	l.hits[key] = kept
	return true
}
