package employee

import (
	"time"
)

type Employee struct {
	ID           string
	UserID       string
	ManagerID    *string
	FullName     string
	PhoneNumber  *string
	Address      *string
	DOB          *time.Time
	Position     string
	Department   *string
	HireDate     time.Time
	Status       Status

	// SalaryToken is the base salary as a field-cipher token. The plaintext
	// never touches the store; it only exists in decrypted responses.
	SalaryToken *string

	// BiometricToken is the encrypted biometric descriptor used for
	// biometric clock-in, same token format as SalaryToken.
	BiometricToken *string

	ResumeURL *string
	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO / Join
	Email       *string
	ManagerName *string
}

type Status string

const (
	StatusActive     Status = "active"
	StatusInactive   Status = "inactive"
	StatusTerminated Status = "terminated"
)

func IsValidStatus(s string) bool {
	switch Status(s) {
	case StatusActive, StatusInactive, StatusTerminated:
		return true
	}
	return false
}
