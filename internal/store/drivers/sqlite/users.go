package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/walleto/walleto/internal/domain"
	"github.com/walleto/walleto/internal/store"
)

type usersRepo struct {
	q dbtx
}

const userColumns = `id, name, email, password_hash, verified,
	reset_token_hash, reset_token_expires_at,
	verify_token_hash, verify_token_expires_at,
	created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (domain.User, error) {
	var (
		u                           domain.User
		verified                    int
		resetHash, verifyHash       sql.NullString
		resetExpires, verifyExpires sql.NullString
		createdAtRaw, updatedAtRaw  string
	)
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &verified,
		&resetHash, &resetExpires,
		&verifyHash, &verifyExpires,
		&createdAtRaw, &updatedAtRaw,
	)
	if err != nil {
		return domain.User{}, err
	}

	u.Verified = verified != 0
	u.ResetTokenHash = mapNullString(resetHash)
	u.ResetTokenExpiresAt = mapNullTime(resetExpires)
	u.VerifyTokenHash = mapNullString(verifyHash)
	u.VerifyTokenExpiresAt = mapNullTime(verifyExpires)
	u.CreatedAt = timeFromDB(createdAtRaw)
	u.UpdatedAt = timeFromDB(updatedAtRaw)
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, verified, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, boolToInt(u.Verified),
		timeToDB(u.CreatedAt), timeToDB(u.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	return u, mapNotFound(err)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	return u, mapNotFound(err)
}

func (r *usersRepo) SetVerifyToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users
		SET verify_token_hash = ?, verify_token_expires_at = ?, updated_at = ?
		WHERE id = ?`,
		tokenHash, timeToDB(expiresAt), timeToDB(time.Now()), userID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) GetUserByVerifyToken(ctx context.Context, tokenHash string, now time.Time) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE verify_token_hash = ? AND verify_token_expires_at > ?`,
		tokenHash, timeToDB(now),
	)
	u, err := scanUser(row)
	return u, mapNotFound(err)
}

func (r *usersRepo) MarkVerified(ctx context.Context, userID string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users
		SET verified = 1, verify_token_hash = NULL, verify_token_expires_at = NULL, updated_at = ?
		WHERE id = ?`,
		timeToDB(time.Now()), userID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) SetResetToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users
		SET reset_token_hash = ?, reset_token_expires_at = ?, updated_at = ?
		WHERE id = ?`,
		tokenHash, timeToDB(expiresAt), timeToDB(time.Now()), userID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) GetUserByResetToken(ctx context.Context, tokenHash string, now time.Time) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE reset_token_hash = ? AND reset_token_expires_at > ?`,
		tokenHash, timeToDB(now),
	)
	u, err := scanUser(row)
	return u, mapNotFound(err)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, newHash string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users
		SET password_hash = ?, reset_token_hash = NULL, reset_token_expires_at = NULL, updated_at = ?
		WHERE id = ?`,
		newHash, timeToDB(time.Now()), userID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	nowDB := timeToDB(now)

	resVerify, err := r.q.ExecContext(ctx, `
		UPDATE users
		SET verify_token_hash = NULL, verify_token_expires_at = NULL
		WHERE verify_token_expires_at IS NOT NULL AND verify_token_expires_at <= ?`,
		nowDB,
	)
	if err != nil {
		return 0, err
	}
	nVerify, _ := resVerify.RowsAffected()

	resReset, err := r.q.ExecContext(ctx, `
		UPDATE users
		SET reset_token_hash = NULL, reset_token_expires_at = NULL
		WHERE reset_token_expires_at IS NOT NULL AND reset_token_expires_at <= ?`,
		nowDB,
	)
	if err != nil {
		return nVerify, err
	}
	nReset, _ := resReset.RowsAffected()

	return nVerify + nReset, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
