package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/walleto/walleto/internal/domain"
	"github.com/walleto/walleto/internal/store"
	"github.com/walleto/walleto/pkg/idx"
	"github.com/walleto/walleto/pkg/slogx"
)

var (
	// ErrExpenseNotFound is returned when no expense with the given id is
	// owned by the caller. Absent and non-owned records are indistinguishable.
	ErrExpenseNotFound = errors.New("expense: not found")

	// ErrInvalidExpense guards the record invariants (blank title,
	// non-positive amount, unknown category or payment method).
	ErrInvalidExpense = errors.New("expense: invalid")
)

// ExpenseService owns the ledger. Every operation is scoped to the calling
// user; an expense never changes owner after creation.
type ExpenseService struct {
	Store store.Store
}

func NewExpenseService(s store.Store) *ExpenseService {
	return &ExpenseService{Store: s}
}

// CreateExpenseInput carries the caller-supplied fields of a new record.
// Merchant is optional; when present it seeds the derived group key.
type CreateExpenseInput struct {
	Title         string
	Amount        float64
	Category      string
	PaymentMethod string
	Description   string
	Merchant      string
	Date          time.Time
}

func (s *ExpenseService) Create(ctx context.Context, userID string, in CreateExpenseInput) (domain.Expense, error) {
	now := time.Now().UTC()

	date := in.Date
	if date.IsZero() {
		date = now
	}

	category := domain.Category(in.Category)
	if in.Category == "" {
		category = domain.CategoryOther
	}
	method := domain.PaymentMethod(in.PaymentMethod)
	if in.PaymentMethod == "" {
		method = domain.PaymentCash
	}

	e := domain.Expense{
		ID:            idx.New().String(),
		UserID:        userID,
		Title:         strings.TrimSpace(in.Title),
		Amount:        in.Amount,
		Category:      category,
		PaymentMethod: method,
		Description:   in.Description,
		Date:          date,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	// the label goes into the key verbatim; trimming is only the presence check
	if strings.TrimSpace(in.Merchant) != "" {
		e.GroupKey = domain.GroupKey(in.Merchant, date)
	}

	if err := validateExpense(e); err != nil {
		return domain.Expense{}, err
	}

	if err := s.Store.Expenses().CreateExpense(ctx, e); err != nil {
		return domain.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	slogx.FromContext(ctx).Info("expense created", "expense_id", e.ID, "user_id", userID)
	return e, nil
}

func (s *ExpenseService) List(ctx context.Context, userID string) ([]domain.Expense, error) {
	list, err := s.Store.Expenses().ListExpenses(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return list, nil
}

func (s *ExpenseService) Get(ctx context.Context, userID, id string) (domain.Expense, error) {
	e, err := s.Store.Expenses().GetExpense(ctx, id, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Expense{}, ErrExpenseNotFound
	}
	if err != nil {
		return domain.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// UpdateExpenseInput is a partial patch. Nil means "leave unchanged"; for
// Merchant a present-but-blank value clears the group key.
type UpdateExpenseInput struct {
	Title         *string
	Amount        *float64
	Category      *string
	PaymentMethod *string
	Description   *string
	Merchant      *string
	Date          *time.Time
}

func (s *ExpenseService) Update(ctx context.Context, userID, id string, in UpdateExpenseInput) (domain.Expense, error) {
	var updated domain.Expense

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		e, err := tx.Expenses().GetExpense(ctx, id, userID)
		if err != nil {
			return err
		}

		if in.Title != nil {
			e.Title = strings.TrimSpace(*in.Title)
		}
		if in.Amount != nil {
			e.Amount = *in.Amount
		}
		if in.Category != nil {
			e.Category = domain.Category(*in.Category)
		}
		if in.PaymentMethod != nil {
			e.PaymentMethod = domain.PaymentMethod(*in.PaymentMethod)
		}
		if in.Description != nil {
			e.Description = *in.Description
		}
		if in.Date != nil {
			e.Date = *in.Date
		}
		if in.Merchant != nil {
			if strings.TrimSpace(*in.Merchant) != "" {
				e.GroupKey = domain.GroupKey(*in.Merchant, e.Date)
			} else {
				e.GroupKey = ""
			}
		}
		e.UpdatedAt = time.Now().UTC()

		if err := validateExpense(e); err != nil {
			return err
		}

		if err := tx.Expenses().UpdateExpense(ctx, e); err != nil {
			return err
		}
		updated = e
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return domain.Expense{}, ErrExpenseNotFound
	}
	if err != nil {
		return domain.Expense{}, err
	}

	slogx.FromContext(ctx).Info("expense updated", "expense_id", id, "user_id", userID)
	return updated, nil
}

func (s *ExpenseService) Delete(ctx context.Context, userID, id string) error {
	err := s.Store.Expenses().DeleteExpense(ctx, id, userID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrExpenseNotFound
	}
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	slogx.FromContext(ctx).Info("expense deleted", "expense_id", id, "user_id", userID)
	return nil
}

func validateExpense(e domain.Expense) error {
	switch {
	case e.Title == "":
		return fmt.Errorf("%w: title is blank", ErrInvalidExpense)
	case e.Amount <= 0:
		return fmt.Errorf("%w: amount must be positive", ErrInvalidExpense)
	case !e.Category.Valid():
		return fmt.Errorf("%w: unknown category %q", ErrInvalidExpense, e.Category)
	case !e.PaymentMethod.Valid():
		return fmt.Errorf("%w: unknown payment method %q", ErrInvalidExpense, e.PaymentMethod)
	}
	return nil
}
