package domain

import "time"

// Otp is a one-time activation or login code. A code is valid only while
// ExpiresAt >= now. Several rows may coexist for one user; all of them are
// deleted once any of them is consumed.
type Otp struct {
	ID        string    `json:"id"`
	Code      string    `json:"-"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
