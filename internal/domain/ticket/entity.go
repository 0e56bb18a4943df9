package ticket

import (
	"time"

	"github.com/google/uuid"
)

// Ticket is an immutable, fully committed sale. There is no partial state:
// a ticket either exists with all of its lines or it does not exist at all.
type Ticket struct {
	id         uuid.UUID
	userID     uuid.UUID
	zoneID     int64
	drawTypeID int64
	lines      Lines
	createdAt  time.Time
}

func NewTicket(userID uuid.UUID, zoneID, drawTypeID int64, lines Lines, now time.Time) (*Ticket, error) {
	if lines.Len() == 0 {
		return nil, ErrNoLines
	}
	return &Ticket{
		id:         uuid.New(),
		userID:     userID,
		zoneID:     zoneID,
		drawTypeID: drawTypeID,
		lines:      lines,
		createdAt:  now,
	}, nil
}

func ReconstructTicket(id, userID uuid.UUID, zoneID, drawTypeID int64, lines Lines, createdAt time.Time) *Ticket {
	return &Ticket{
		id:         id,
		userID:     userID,
		zoneID:     zoneID,
		drawTypeID: drawTypeID,
		lines:      lines,
		createdAt:  createdAt,
	}
}

func (t *Ticket) ID() uuid.UUID        { return t.id }
func (t *Ticket) UserID() uuid.UUID    { return t.userID }
func (t *Ticket) ZoneID() int64        { return t.zoneID }
func (t *Ticket) DrawTypeID() int64    { return t.drawTypeID }
func (t *Ticket) Lines() Lines         { return t.lines }
func (t *Ticket) TotalPieces() int32   { return t.lines.TotalPieces() }
func (t *Ticket) CreatedAt() time.Time { return t.createdAt }
