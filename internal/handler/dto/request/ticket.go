package request

import (
	"lottery-sales/internal/domain/ticket"
)

type TicketLineRequest struct {
	Number string `json:"number" binding:"required"`
	Pieces int32  `json:"pieces" binding:"required"`
}

type IssueTicketRequest struct {
	ZoneID     int64               `json:"zone_id" binding:"required"`
	DrawTypeID int64               `json:"draw_type_id" binding:"required"`
	Lines      []TicketLineRequest `json:"lines" binding:"required"`
}

func (r IssueTicketRequest) LineInputs() []ticket.LineInput {
	inputs := make([]ticket.LineInput, len(r.Lines))
	for i, l := range r.Lines {
		inputs[i] = ticket.LineInput{Number: l.Number, Pieces: l.Pieces}
	}
	return inputs
}
