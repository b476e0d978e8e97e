package domain

import "time"

// Admin is a dashboard operator. PermanentOtp is a static second factor
// compared on every admin verification, it never expires or rotates.
type Admin struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	PermanentOtp string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
