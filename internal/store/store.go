package store

import (
	"context"
	"errors"
	"time"

	"github.com/walleto/walleto/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	Expenses() Expenses

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to handle multi-step writes.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It exposes the same repos but adds Commit/Rollback.
type Tx interface {
	Users() Users
	Expenses() Expenses
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists when the email is already registered.
	CreateUser(ctx context.Context, u domain.User) error

	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login and forgot-password.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// SetVerifyToken stores the fingerprint and expiry of a freshly issued
	// email verification token.
	SetVerifyToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error

	// GetUserByVerifyToken returns the user whose stored verification token
	// fingerprint matches and has not expired as of now.
	GetUserByVerifyToken(ctx context.Context, tokenHash string, now time.Time) (domain.User, error)

	// MarkVerified flips verified and clears the verification token pair.
	MarkVerified(ctx context.Context, userID string) error

	// SetResetToken stores the fingerprint and expiry of a freshly issued
	// password reset token.
	SetResetToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error

	// GetUserByResetToken returns the user whose stored reset token
	// fingerprint matches and has not expired as of now.
	GetUserByResetToken(ctx context.Context, tokenHash string, now time.Time) (domain.User, error)

	// UpdatePasswordHash sets the password_hash and clears the reset token pair.
	UpdatePasswordHash(ctx context.Context, userID, newHash string) error

	// DeleteExpiredTokens clears verification and reset token pairs whose
	// expiry has passed. Housekeeping; returns the number of users touched.
	DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}

type Expenses interface {
	// CreateExpense inserts a new expense (id provided by app via ULID).
	CreateExpense(ctx context.Context, e domain.Expense) error

	// GetExpense returns the expense iff both id and owner match;
	// ErrNotFound otherwise, identical for absent and non-owned records.
	GetExpense(ctx context.Context, id, userID string) (domain.Expense, error)

	// ListExpenses returns all expenses owned by the user in insertion order.
	ListExpenses(ctx context.Context, userID string) ([]domain.Expense, error)

	// UpdateExpense overwrites the stored record, scoped by (e.ID, e.UserID).
	// ErrNotFound when no such owned record exists.
	UpdateExpense(ctx context.Context, e domain.Expense) error

	// DeleteExpense removes the record scoped by (id, userID).
	// ErrNotFound when no such owned record exists.
	DeleteExpense(ctx context.Context, id, userID string) error
}
