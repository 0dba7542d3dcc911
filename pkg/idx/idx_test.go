package idx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew_Unique(t *testing.T) {
	seen := make(map[ID]struct{}, 1000)
	for range 1000 {
		id := New()
		require.False(t, id.IsZero())
		_, dup := seen[id]
		require.False(t, dup, "generated duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestNew_MonotonicOrdering(t *testing.T) {
	a := New()
	b := New()
	require.Less(t, a.String(), b.String())
}

func TestNewAt_EmbedsTimestamp(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 5, 0, 0, time.UTC)
	id := NewAt(at)
	require.Equal(t, at.UnixMilli(), id.Time().UnixMilli())
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"valid ulid", New().String(), false},
		{"valid with whitespace", " " + New().String() + " ", false},
		{"empty", "", true},
		{"garbage", "not-a-ulid", true},
		{"too short", "01ARZ3NDEKTSV", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Parse(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalid)
				require.True(t, id.IsZero())
				return
			}
			require.NoError(t, err)
			require.False(t, id.IsZero())
		})
	}
}

func TestMustParse_Panics(t *testing.T) {
	require.Panics(t, func() { MustParse("bogus") })
}
