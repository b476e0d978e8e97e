package domain

import "time"

// User is a citizen identity record. It is created by an admin action with
// IsActive=false and becomes active only after OTP verification.
type User struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	CitizenshipNo string     `json:"citizenship_no"`
	Address       string     `json:"address,omitempty"`
	FatherName    string     `json:"father_name,omitempty"`
	MotherName    string     `json:"mother_name,omitempty"`
	DateOfBirth   string     `json:"dob,omitempty"`
	IssueDate     string     `json:"issue_date,omitempty"`
	PanNumber     string     `json:"pan_number,omitempty"`
	PanIssueDate  string     `json:"pan_issue_date,omitempty"`
	Salary        *float64   `json:"salary,omitempty"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}
