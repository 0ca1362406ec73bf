package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	// StepIssued means a code has been generated and sent.
	StepIssued = 1
	// StepVerified means the code was entered correctly.
	StepVerified = 2
	// StepComplete means profile details were saved and a token issued.
	StepComplete = 3
)

// SessionTTL bounds how long an incomplete session survives. Rows past
// this age that never reached StepComplete are purged lazily.
const SessionTTL = 10 * time.Minute

type IdentifierSession struct {
	bun.BaseModel `bun:"table:identifier_sessions,alias:s"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Identifier   string     `bun:",nullzero" json:"identifier"`
	OTP          string     `bun:"otp" json:"-"`
	Step         int        `bun:",nullzero" json:"step"`
	Name         *string    `json:"name,omitempty"`
	DOB          *string    `bun:"dob" json:"dob,omitempty"`
	Gender       *string    `json:"gender,omitempty"`
	OTPExpiresAt *time.Time `bun:"otp_expires_at" json:"-"`
}
