package domain

import "time"

// User is an account identity. Token hash fields hold SHA-256 fingerprints
// of the raw verification/reset tokens, never the tokens themselves; both
// pairs are nil once consumed.
type User struct {
	ID           string
	Name         string
	Email        string // unique across all users
	PasswordHash string // argon2id encoded
	Verified     bool

	ResetTokenHash       *string
	ResetTokenExpiresAt  *time.Time
	VerifyTokenHash      *string
	VerifyTokenExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Token lifetimes for the auth lifecycle flows.
const (
	// VerifyTokenTTL is how long an email verification link stays valid.
	VerifyTokenTTL = 24 * time.Hour

	// ResetTokenTTL is how long a password reset link stays valid.
	ResetTokenTTL = time.Hour
)
