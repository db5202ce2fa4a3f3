package domain

import (
	"net/mail"
	"strings"
	"time"

	"alcyxob/fitlab/internal/apperror"
)

// Role type to distinguish between member roles
type Role string

const (
	RoleTrainer Role = "trainer"
	RoleMember  Role = "member"
)

const MinPasswordLength = 4

// Member is anyone who can sign in: the trainer, or one of the trainer's members.
type Member struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Role         Role      `json:"role"`
	EnrolledAt   time.Time `json:"enrolledAt"`
	Objective    string    `json:"objective,omitempty"`
	PhotoURL     string    `json:"photoUrl,omitempty"` // most recent progress photo
	PasswordHash string    `json:"-"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (m *Member) IsTrainer() bool {
	return m.Role == RoleTrainer
}

func (m *Member) IsMember() bool {
	return m.Role == RoleMember
}

func (r Role) Valid() bool {
	return r == RoleTrainer || r == RoleMember
}

// NormalizeEmail lower-cases and trims an email address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks the fields every stored member must carry.
func (m Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return apperror.NewValidationError("name", "is required")
	}
	if _, err := mail.ParseAddress(m.Email); err != nil {
		return apperror.NewValidationError("email", "is not a valid address")
	}
	if !m.Role.Valid() {
		return apperror.NewValidationError("role", "must be trainer or member")
	}
	return nil
}

// ValidatePassword enforces the minimum password length.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return apperror.NewValidationError("password", "must be at least 4 characters")
	}
	return nil
}
