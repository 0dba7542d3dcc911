package service

import (
	"context"
	"time"

	"github.com/walleto/walleto/internal/store"
	"github.com/walleto/walleto/pkg/slogx"
)

// DefaultHousekeepingInterval is how often stale token pairs are swept.
const DefaultHousekeepingInterval = time.Hour

// Housekeeping periodically clears expired verification and reset tokens.
// Expired tokens are already unusable (every lookup checks the expiry), so
// the sweep is hygiene, not a correctness requirement.
type Housekeeping struct {
	Store    store.Store
	Interval time.Duration
}

func NewHousekeeping(s store.Store, interval time.Duration) *Housekeeping {
	if interval <= 0 {
		interval = DefaultHousekeepingInterval
	}
	return &Housekeeping{Store: s, Interval: interval}
}

// Run blocks until ctx is done, sweeping once per interval.
func (h *Housekeeping) Run(ctx context.Context) error {
	ticker := time.NewTicker(h.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			h.sweep(ctx)
		}
	}
}

func (h *Housekeeping) sweep(ctx context.Context) {
	log := slogx.FromContext(ctx)

	n, err := h.Store.Users().DeleteExpiredTokens(ctx, time.Now().UTC())
	if err != nil {
		log.Error("token sweep failed", "error", err)
		return
	}
	if n > 0 {
		log.Info("token sweep cleared stale tokens", "count", n)
	}
}
