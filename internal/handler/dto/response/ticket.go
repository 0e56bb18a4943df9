package response

import (
	"time"

	"github.com/google/uuid"

	"lottery-sales/internal/usecase/commands"
	"lottery-sales/internal/usecase/queries"
)

type TicketItemResponse struct {
	Number string `json:"number"`
	Pieces int32  `json:"pieces"`
}

type TicketResponse struct {
	ID           uuid.UUID            `json:"id"`
	UserID       uuid.UUID            `json:"userId"`
	Username     string               `json:"username"`
	ZoneID       int64                `json:"zoneId"`
	ZoneName     string               `json:"zoneName"`
	DrawTypeID   int64                `json:"drawTypeId"`
	DrawTypeName string               `json:"drawTypeName"`
	TotalPieces  int32                `json:"totalPieces"`
	Items        []TicketItemResponse `json:"items"`
	CreatedAt    time.Time            `json:"createdAt"`
}

func FromTicketView(rm *queries.TicketView) *TicketResponse {
	items := make([]TicketItemResponse, len(rm.Items))
	for i, item := range rm.Items {
		items[i] = TicketItemResponse{Number: item.Number, Pieces: item.Pieces}
	}
	return &TicketResponse{
		ID:           rm.ID,
		UserID:       rm.UserID,
		Username:     rm.Username,
		ZoneID:       rm.ZoneID,
		ZoneName:     rm.ZoneName,
		DrawTypeID:   rm.DrawTypeID,
		DrawTypeName: rm.DrawTypeName,
		TotalPieces:  rm.TotalPieces,
		Items:        items,
		CreatedAt:    rm.CreatedAt,
	}
}

type QuotaViolationResponse struct {
	Number    string `json:"number"`
	Requested int32  `json:"requested"`
	Remaining int32  `json:"remaining"`
}

func FromQuotaViolations(violations []commands.QuotaViolation) []QuotaViolationResponse {
	out := make([]QuotaViolationResponse, len(violations))
	for i, v := range violations {
		out[i] = QuotaViolationResponse{
			Number:    v.Number,
			Requested: v.Requested,
			Remaining: v.Remaining,
		}
	}
	return out
}
