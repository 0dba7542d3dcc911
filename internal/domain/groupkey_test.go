package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGroupKey(t *testing.T) {
	tests := []struct {
		name     string
		merchant string
		at       time.Time
		want     string
	}{
		{
			name:     "reference instant",
			merchant: "Starbucks",
			at:       time.Date(2024, 3, 1, 9, 5, 0, 0, time.UTC),
			want:     "Starbucks_202403010905",
		},
		{
			name:     "single digit components zero padded",
			merchant: "7-Eleven",
			at:       time.Date(2023, 1, 2, 3, 4, 59, 0, time.UTC),
			want:     "7-Eleven_202301020304",
		},
		{
			name:     "merchant taken verbatim",
			merchant: "  Cafe du Monde  ",
			at:       time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC),
			want:     "  Cafe du Monde  _202412312359",
		},
		{
			name:     "seconds do not affect the bucket",
			merchant: "Starbucks",
			at:       time.Date(2024, 3, 1, 9, 5, 58, 999, time.UTC),
			want:     "Starbucks_202403010905",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, GroupKey(tt.merchant, tt.at))
		})
	}
}

func TestGroupKey_TimezoneInvariant(t *testing.T) {
	// The same instant expressed in different offsets must bucket identically.
	utc := time.Date(2024, 3, 1, 9, 5, 0, 0, time.UTC)
	tokyo := utc.In(time.FixedZone("JST", 9*3600))
	newYork := utc.In(time.FixedZone("EST", -5*3600))

	require.Equal(t, GroupKey("Starbucks", utc), GroupKey("Starbucks", tokyo))
	require.Equal(t, GroupKey("Starbucks", utc), GroupKey("Starbucks", newYork))
}

func TestGroupKey_Deterministic(t *testing.T) {
	at := time.Date(2024, 6, 15, 12, 30, 0, 0, time.UTC)
	require.Equal(t, GroupKey("IKEA", at), GroupKey("IKEA", at))
}

func TestCategory_Valid(t *testing.T) {
	for _, c := range []Category{CategoryFood, CategoryTransport, CategoryBills, CategoryShopping, CategoryHealth, CategoryOther} {
		require.True(t, c.Valid(), "category %q", c)
	}
	require.False(t, Category("Groceries").Valid())
	require.False(t, Category("food").Valid(), "categories are case sensitive")
	require.False(t, Category("").Valid())
}

func TestPaymentMethod_Valid(t *testing.T) {
	for _, p := range []PaymentMethod{PaymentCash, PaymentCard, PaymentEWallet} {
		require.True(t, p.Valid(), "payment method %q", p)
	}
	require.False(t, PaymentMethod("Crypto").Valid())
	require.False(t, PaymentMethod("ewallet").Valid())
}
