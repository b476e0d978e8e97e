package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"citizen-services/internal/domain"
	"citizen-services/internal/esewa"
	"citizen-services/internal/repository"
)

// PaymentService creates tax payments and reconciles them against the
// gateway or an admin decision.
type PaymentService struct {
	logger   *zap.Logger
	payments repository.PaymentRepository
	users    repository.UserRepository
	gateway  esewa.Verifier
	notifier *NotificationService
}

func NewPaymentService(
	logger *zap.Logger,
	payments repository.PaymentRepository,
	users repository.UserRepository,
	gateway esewa.Verifier,
	notifier *NotificationService,
) *PaymentService {
	return &PaymentService{
		logger:   logger,
		payments: payments,
		users:    users,
		gateway:  gateway,
		notifier: notifier,
	}
}

// CreatePayment computes the tax amount from the user's registered salary,
// stores a PENDING row, then asks the gateway to confirm the transaction.
// A gateway failure leaves the row PENDING; the payment is still returned
// so the caller can report the unverified state inline.
func (s *PaymentService) CreatePayment(ctx context.Context, userID, esewaRefID string) (domain.Payment, error) {
	esewaRefID = strings.TrimSpace(esewaRefID)

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Payment{}, ErrUserNotFound
		}
		return domain.Payment{}, err
	}
	if user.Salary == nil {
		return domain.Payment{}, ErrSalaryNotRegistered
	}

	payment := domain.Payment{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		Amount:     ComputeAnnualTax(*user.Salary),
		Status:     domain.PaymentPending,
		EsewaRefID: esewaRefID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return domain.Payment{}, err
	}

	if s.gateway == nil || esewaRefID == "" {
		return payment, nil
	}

	ok, err := s.gateway.VerifyTransaction(ctx, esewaRefID, payment.Amount)
	if err != nil {
		// No retry and no reconciliation job: the row stays PENDING
		// until an admin resolves it.
		s.logger.Warn("gateway verification failed", zap.Error(err), zap.String("payment_id", payment.ID))
		return payment, nil
	}
	if !ok {
		return payment, nil
	}

	verifiedAt := time.Now().UTC()
	if err := s.payments.SetStatus(ctx, payment.ID, domain.PaymentVerified, esewaRefID, "", verifiedAt); err != nil {
		return domain.Payment{}, err
	}
	payment.Status = domain.PaymentVerified
	payment.VerifiedAt = &verifiedAt

	if s.notifier != nil {
		s.notifier.Notify(ctx, user.ID, "Payment verified", "Your tax payment has been verified.")
	}
	return payment, nil
}

// ListForUser returns the user's payments, newest first.
func (s *PaymentService) ListForUser(ctx context.Context, userID string) ([]domain.Payment, error) {
	return s.payments.ListByUserID(ctx, userID)
}

// ResolveByAdmin verifies or rejects a pending payment on an admin's
// decision, recording who resolved it and when.
func (s *PaymentService) ResolveByAdmin(ctx context.Context, paymentID, adminID string, approve bool) (domain.Payment, error) {
	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Payment{}, ErrPaymentNotFound
		}
		return domain.Payment{}, err
	}
	if payment.Status != domain.PaymentPending {
		return domain.Payment{}, ErrPaymentAlreadyClosed
	}

	status := domain.PaymentRejected
	if approve {
		status = domain.PaymentVerified
	}
	verifiedAt := time.Now().UTC()
	if err := s.payments.SetStatus(ctx, payment.ID, status, payment.EsewaRefID, adminID, verifiedAt); err != nil {
		return domain.Payment{}, err
	}
	payment.Status = status
	payment.VerifiedBy = adminID
	payment.VerifiedAt = &verifiedAt

	if s.notifier != nil {
		title := "Payment rejected"
		message := "Your tax payment was rejected. Contact support for details."
		if approve {
			title = "Payment verified"
			message = "Your tax payment has been verified."
		}
		s.notifier.Notify(ctx, payment.UserID, title, message)
	}
	return payment, nil
}
