package shared

import (
	"context"
	"time"

	"lottery-sales/internal/domain/ticket"
)

// QuotaKey identifies one ledger row: the cumulative pieces sold for a
// number under a (zone, draw type) pair on one sales day.
type QuotaKey struct {
	ZoneID     int64
	DrawTypeID int64
	SalesDate  time.Time // date-truncated, sales timezone
	Number     string
}

// ReserveResult reports the outcome of one conditional increment.
// When OK, Committed is the post-increment total. When rejected, Committed
// is the current total so callers can compute the remaining capacity.
type ReserveResult struct {
	OK        bool
	Committed int32
	Max       int32
}

func (r ReserveResult) Remaining() int32 {
	remaining := r.Max - r.Committed
	if remaining < 0 {
		return 0
	}
	return remaining
}

type TicketRepository interface {
	Create(ctx context.Context, t *ticket.Ticket) error
}

type QuotaRepository interface {
	// Reserve adds pieces to the ledger row as a single indivisible
	// conditional increment, seeding the row (and refreshing its cap from
	// the catalog snapshot) when absent. It never leaves the row above cap.
	Reserve(ctx context.Context, key QuotaKey, maxPieces, pieces int32) (ReserveResult, error)
}
