package domain

import "time"

// Payment status values. A payment is created PENDING and transitions at
// most once.
const (
	PaymentPending  = "PENDING"
	PaymentVerified = "VERIFIED"
	PaymentRejected = "REJECTED"
)

// Payment is a tax payment owned by a user and optionally verified by an
// admin or by the gateway callback.
type Payment struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	Amount     float64    `json:"amount"`
	Status     string     `json:"status"`
	EsewaRefID string     `json:"esewa_ref_id,omitempty"`
	VerifiedBy string     `json:"verified_by,omitempty"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
