package repository

import (
	"context"
	"errors"

	"lottery-sales/internal/domain/ticket"
	"lottery-sales/internal/infra"
	"lottery-sales/internal/infra/db"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrCodeUniqueViolation     = "23505"
	pgErrCodeForeignKeyViolation = "23503"
)

type TicketRepository struct {
	db db.Queryer
}

func NewTicketRepository(q db.Queryer) *TicketRepository {
	return &TicketRepository{db: q}
}

const insertTicketSQL = `
INSERT INTO tickets (id, user_id, zone_id, draw_type_id, total_pieces, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

const insertTicketItemSQL = `
INSERT INTO ticket_items (ticket_id, number, pieces)
VALUES ($1, $2, $3)`

func (r *TicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	_, err := r.db.Exec(ctx, insertTicketSQL,
		t.ID(), t.UserID(), t.ZoneID(), t.DrawTypeID(), t.TotalPieces(), t.CreatedAt())
	if err != nil {
		return wrapTicketErr("failed to insert ticket", err)
	}

	for _, line := range t.Lines().All() {
		_, err := r.db.Exec(ctx, insertTicketItemSQL, t.ID(), line.Number().String(), line.Pieces())
		if err != nil {
			return wrapTicketErr("failed to insert ticket item", err)
		}
	}

	return nil
}

func wrapTicketErr(msg string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrCodeUniqueViolation:
			return infra.WrapRepoErr(msg, err, infra.KindDuplicateKey)
		case pgErrCodeForeignKeyViolation:
			return infra.WrapRepoErr(msg, err, infra.KindForeignKeyViolated)
		}
	}
	return infra.WrapRepoErr(msg, err)
}
