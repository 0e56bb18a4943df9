package queries

import (
	"context"

	"github.com/google/uuid"

	"lottery-sales/internal/pkg/errs"
)

type TicketReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*TicketView, error)
}

type TicketQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*TicketView, error)
}

type ticketQueries struct {
	reads TicketReadStore
}

func NewTicketQueries(reads TicketReadStore) TicketQueries {
	return &ticketQueries{reads: reads}
}

func (q *ticketQueries) GetByID(ctx context.Context, id uuid.UUID) (*TicketView, error) {
	view, err := q.reads.FindByID(ctx, id)
	if err != nil {
		return nil, errs.Wrap(err, "failed to find ticket")
	}
	return view, nil
}
