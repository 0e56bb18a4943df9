package shared

import (
	"context"
)

type UnitOfWork interface {
	// Within: write transaction with bounded retry for transient failures.
	// The quota ledger may only be mutated inside it.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Tickets() TicketRepository
	Quotas() QuotaRepository
}
