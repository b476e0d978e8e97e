package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"citizen-services/internal/domain"
)

type mockPaymentRepo struct {
	paymentsByID map[string]domain.Payment
}

func newMockPaymentRepo() *mockPaymentRepo {
	return &mockPaymentRepo{paymentsByID: make(map[string]domain.Payment)}
}

func (m *mockPaymentRepo) Create(_ context.Context, payment domain.Payment) error {
	m.paymentsByID[payment.ID] = payment
	return nil
}

func (m *mockPaymentRepo) GetByID(_ context.Context, id string) (domain.Payment, error) {
	p, ok := m.paymentsByID[id]
	if !ok {
		return domain.Payment{}, pgx.ErrNoRows
	}
	return p, nil
}

func (m *mockPaymentRepo) ListByUserID(_ context.Context, userID string) ([]domain.Payment, error) {
	var out []domain.Payment
	for _, p := range m.paymentsByID {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPaymentRepo) SetStatus(_ context.Context, id, status, esewaRefID, verifiedBy string, verifiedAt time.Time) error {
	p, ok := m.paymentsByID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	p.Status = status
	p.EsewaRefID = esewaRefID
	p.VerifiedBy = verifiedBy
	p.VerifiedAt = &verifiedAt
	m.paymentsByID[id] = p
	return nil
}

type mockGateway struct {
	ok  bool
	err error
}

func (m *mockGateway) VerifyTransaction(_ context.Context, _ string, _ float64) (bool, error) {
	return m.ok, m.err
}

func newTestPaymentService(users *mockUserRepo, payments *mockPaymentRepo, gateway *mockGateway) *PaymentService {
	notifier := NewNotificationService(zap.NewNop(), &mockNotificationRepo{}, nil)
	return NewPaymentService(zap.NewNop(), payments, users, gateway, notifier)
}

func seedSalariedUser(users *mockUserRepo, salary float64) domain.User {
	user := seedInactiveUser(users)
	user.IsActive = true
	user.Salary = &salary
	users.usersByID[user.ID] = user
	return user
}

func TestCreatePayment_VerifiedByGateway(t *testing.T) {
	users := newMockUserRepo()
	payments := newMockPaymentRepo()
	svc := newTestPaymentService(users, payments, &mockGateway{ok: true})
	seedSalariedUser(users, 600_000)

	payment, err := svc.CreatePayment(context.Background(), "u1", "esewa-ref-1")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if payment.Status != domain.PaymentVerified {
		t.Fatalf("expected VERIFIED, got %s", payment.Status)
	}
	if payment.Amount != ComputeAnnualTax(600_000) {
		t.Fatalf("expected tax-bracket amount, got %.2f", payment.Amount)
	}
	if payment.VerifiedAt == nil {
		t.Fatalf("expected verified timestamp")
	}
}

func TestCreatePayment_GatewayFailureLeavesPending(t *testing.T) {
	users := newMockUserRepo()
	payments := newMockPaymentRepo()
	svc := newTestPaymentService(users, payments, &mockGateway{err: errors.New("network blip")})
	seedSalariedUser(users, 600_000)

	payment, err := svc.CreatePayment(context.Background(), "u1", "esewa-ref-1")
	if err != nil {
		t.Fatalf("expected inline failure report, not error, got %v", err)
	}
	if payment.Status != domain.PaymentPending {
		t.Fatalf("expected PENDING after gateway failure, got %s", payment.Status)
	}

	stored, _ := payments.GetByID(context.Background(), payment.ID)
	if stored.Status != domain.PaymentPending {
		t.Fatalf("expected stored row PENDING, got %s", stored.Status)
	}
}

func TestCreatePayment_GatewayDeclinedLeavesPending(t *testing.T) {
	users := newMockUserRepo()
	payments := newMockPaymentRepo()
	svc := newTestPaymentService(users, payments, &mockGateway{ok: false})
	seedSalariedUser(users, 600_000)

	payment, err := svc.CreatePayment(context.Background(), "u1", "esewa-ref-1")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if payment.Status != domain.PaymentPending {
		t.Fatalf("expected PENDING when gateway declines, got %s", payment.Status)
	}
}

func TestCreatePayment_NoSalary(t *testing.T) {
	users := newMockUserRepo()
	payments := newMockPaymentRepo()
	svc := newTestPaymentService(users, payments, &mockGateway{ok: true})
	user := seedInactiveUser(users)
	user.IsActive = true
	users.usersByID[user.ID] = user

	_, err := svc.CreatePayment(context.Background(), "u1", "esewa-ref-1")
	if !errors.Is(err, ErrSalaryNotRegistered) {
		t.Fatalf("expected ErrSalaryNotRegistered, got %v", err)
	}
	if len(payments.paymentsByID) != 0 {
		t.Fatalf("expected no payment row without salary")
	}
}

func TestResolveByAdmin_Approve(t *testing.T) {
	users := newMockUserRepo()
	payments := newMockPaymentRepo()
	svc := newTestPaymentService(users, payments, &mockGateway{})
	seedSalariedUser(users, 600_000)

	payments.paymentsByID["p1"] = domain.Payment{
		ID:        "p1",
		UserID:    "u1",
		Amount:    15_000,
		Status:    domain.PaymentPending,
		CreatedAt: time.Now().UTC(),
	}

	payment, err := svc.ResolveByAdmin(context.Background(), "p1", "adm1", true)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if payment.Status != domain.PaymentVerified || payment.VerifiedBy != "adm1" {
		t.Fatalf("expected VERIFIED by adm1, got %+v", payment)
	}
}

func TestResolveByAdmin_AlreadyClosed(t *testing.T) {
	users := newMockUserRepo()
	payments := newMockPaymentRepo()
	svc := newTestPaymentService(users, payments, &mockGateway{})

	payments.paymentsByID["p1"] = domain.Payment{
		ID:     "p1",
		UserID: "u1",
		Status: domain.PaymentVerified,
	}

	_, err := svc.ResolveByAdmin(context.Background(), "p1", "adm1", false)
	if !errors.Is(err, ErrPaymentAlreadyClosed) {
		t.Fatalf("expected ErrPaymentAlreadyClosed, got %v", err)
	}
}

func TestResolveByAdmin_NotFound(t *testing.T) {
	users := newMockUserRepo()
	payments := newMockPaymentRepo()
	svc := newTestPaymentService(users, payments, &mockGateway{})

	_, err := svc.ResolveByAdmin(context.Background(), "missing", "adm1", true)
	if !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("expected ErrPaymentNotFound, got %v", err)
	}
}
