package domain

import "time"

// Category classifies an expense. Unknown values are rejected at the
// boundary; an absent value falls back to CategoryOther.
type Category string

const (
	CategoryFood      Category = "Food"
	CategoryTransport Category = "Transport"
	CategoryBills     Category = "Bills"
	CategoryShopping  Category = "Shopping"
	CategoryHealth    Category = "Health"
	CategoryOther     Category = "Other"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryFood, CategoryTransport, CategoryBills, CategoryShopping, CategoryHealth, CategoryOther:
		return true
	}
	return false
}

// PaymentMethod records how an expense was paid. Defaults to PaymentCash.
type PaymentMethod string

const (
	PaymentCash    PaymentMethod = "Cash"
	PaymentCard    PaymentMethod = "Card"
	PaymentEWallet PaymentMethod = "eWallet"
)

// Valid reports whether p is a known payment method.
func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentCard, PaymentEWallet:
		return true
	}
	return false
}

// Expense is a flat ledger record owned by exactly one user. UserID is
// immutable after creation; every store lookup filters by (ID, UserID) so a
// record is indistinguishable from nonexistent to any other identity.
type Expense struct {
	ID            string
	UserID        string
	Title         string
	Amount        float64 // strictly positive
	Category      Category
	PaymentMethod PaymentMethod
	Description   string
	GroupKey      string // derived, empty when no merchant was supplied
	Date          time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
