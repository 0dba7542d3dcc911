package domain

import (
	"fmt"
	"time"
)

// GroupKey derives the canonical grouping key for a merchant transaction:
// the merchant label verbatim, an underscore, then the timestamp down to
// minute resolution. All components are taken in UTC so the key is stable
// regardless of server or client timezone, which is what lets two
// near-simultaneous captures from the same merchant (split receipts, card
// pre-auth plus capture) land in the same bucket.
//
//	GroupKey("Starbucks", 2024-03-01T09:05:00Z) == "Starbucks_202403010905"
//
// Callers are responsible for skipping derivation when the merchant label is
// blank; any string and any valid instant produce a key.
func GroupKey(merchant string, t time.Time) string {
	u := t.UTC()
	return fmt.Sprintf("%s_%04d%02d%02d%02d%02d",
		merchant, u.Year(), int(u.Month()), u.Day(), u.Hour(), u.Minute())
}
