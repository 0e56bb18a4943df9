package readstore

import (
	"context"

	"github.com/google/uuid"

	"lottery-sales/internal/infra"
	"lottery-sales/internal/infra/db"
	"lottery-sales/internal/usecase/queries"
)

const findTicketSQL = `
SELECT t.id, t.user_id, u.username, t.zone_id, z.name, t.draw_type_id, d.name,
       t.total_pieces, t.created_at
FROM tickets t
JOIN users u ON u.id = t.user_id
JOIN zones z ON z.id = t.zone_id
JOIN draw_types d ON d.id = t.draw_type_id
WHERE t.id = $1`

const listTicketItemsSQL = `
SELECT number, pieces
FROM ticket_items
WHERE ticket_id = $1
ORDER BY number`

type TicketReadStore struct {
	q db.Queryer
}

func NewTicketReadStore(q db.Queryer) *TicketReadStore {
	return &TicketReadStore{q: q}
}

func (r *TicketReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.TicketView, error) {
	var view queries.TicketView
	err := r.q.QueryRow(ctx, findTicketSQL, id).Scan(
		&view.ID, &view.UserID, &view.Username,
		&view.ZoneID, &view.ZoneName,
		&view.DrawTypeID, &view.DrawTypeName,
		&view.TotalPieces, &view.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("ticket not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find ticket", err)
	}

	rows, err := r.q.Query(ctx, listTicketItemsSQL, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list ticket items", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item queries.TicketItemView
		if err := rows.Scan(&item.Number, &item.Pieces); err != nil {
			return nil, infra.WrapRepoErr("failed to scan ticket item", err)
		}
		view.Items = append(view.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list ticket items", err)
	}
	return &view, nil
}
