package sqlite

import (
	"context"

	"github.com/walleto/walleto/internal/domain"
)

type expensesRepo struct {
	q dbtx
}

const expenseColumns = `id, user_id, title, amount, category, payment_method,
	description, group_key, date, created_at, updated_at`

func scanExpense(row interface{ Scan(dest ...any) error }) (domain.Expense, error) {
	var (
		e                                   domain.Expense
		category, paymentMethod             string
		dateRaw, createdAtRaw, updatedAtRaw string
	)
	err := row.Scan(
		&e.ID, &e.UserID, &e.Title, &e.Amount, &category, &paymentMethod,
		&e.Description, &e.GroupKey, &dateRaw, &createdAtRaw, &updatedAtRaw,
	)
	if err != nil {
		return domain.Expense{}, err
	}

	e.Category = domain.Category(category)
	e.PaymentMethod = domain.PaymentMethod(paymentMethod)
	e.Date = timeFromDB(dateRaw)
	e.CreatedAt = timeFromDB(createdAtRaw)
	e.UpdatedAt = timeFromDB(updatedAtRaw)
	return e, nil
}

func (r *expensesRepo) CreateExpense(ctx context.Context, e domain.Expense) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO expenses (id, user_id, title, amount, category, payment_method,
			description, group_key, date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Title, e.Amount, string(e.Category), string(e.PaymentMethod),
		e.Description, e.GroupKey, timeToDB(e.Date), timeToDB(e.CreatedAt), timeToDB(e.UpdatedAt),
	)
	return err
}

func (r *expensesRepo) GetExpense(ctx context.Context, id, userID string) (domain.Expense, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+expenseColumns+` FROM expenses
		WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	e, err := scanExpense(row)
	return e, mapNotFound(err)
}

func (r *expensesRepo) ListExpenses(ctx context.Context, userID string) ([]domain.Expense, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+expenseColumns+` FROM expenses
		WHERE user_id = ?
		ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (r *expensesRepo) UpdateExpense(ctx context.Context, e domain.Expense) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE expenses
		SET title = ?, amount = ?, category = ?, payment_method = ?,
			description = ?, group_key = ?, date = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		e.Title, e.Amount, string(e.Category), string(e.PaymentMethod),
		e.Description, e.GroupKey, timeToDB(e.Date), timeToDB(e.UpdatedAt),
		e.ID, e.UserID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *expensesRepo) DeleteExpense(ctx context.Context, id, userID string) error {
	res, err := r.q.ExecContext(ctx, `
		DELETE FROM expenses
		WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}
