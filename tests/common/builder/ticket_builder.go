//go:build unit || e2e

package builder

import (
	"github.com/google/uuid"

	"lottery-sales/internal/domain/ticket"
	"lottery-sales/internal/usecase/commands"
)

type TicketBuilder struct {
	UserID     uuid.UUID
	ZoneID     int64
	DrawTypeID int64
	Lines      []ticket.LineInput
}

func NewTicketBuilder() *TicketBuilder {
	return &TicketBuilder{
		UserID:     uuid.New(),
		ZoneID:     1,
		DrawTypeID: 1,
		Lines: []ticket.LineInput{
			{Number: "23", Pieces: 5},
			{Number: "47", Pieces: 2},
		},
	}
}

func (b *TicketBuilder) With(mutate func(*TicketBuilder)) *TicketBuilder {
	mutate(b)
	return b
}

func (b *TicketBuilder) BuildInput() commands.IssueTicketInput {
	return commands.IssueTicketInput{
		UserID:     b.UserID,
		ZoneID:     b.ZoneID,
		DrawTypeID: b.DrawTypeID,
		Lines:      b.Lines,
	}
}
