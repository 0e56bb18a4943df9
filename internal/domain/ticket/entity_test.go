//go:build unit

package ticket_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lottery-sales/internal/domain/ticket"
)

var cmpOpts = []cmp.Option{
	cmp.AllowUnexported(ticket.Ticket{}, ticket.Lines{}, ticket.Line{}),
}

func TestNewTicket(t *testing.T) {
	t.Run("success: ticket carries lines and identity", func(t *testing.T) {
		userID := uuid.New()
		now := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
		lines, err := ticket.NewLines([]ticket.LineInput{
			{Number: "23", Pieces: 5},
			{Number: "47", Pieces: 2},
		})
		require.NoError(t, err)

		tk, err := ticket.NewTicket(userID, 3, 1, lines, now)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, tk.ID())
		assert.Equal(t, userID, tk.UserID())
		assert.Equal(t, int64(3), tk.ZoneID())
		assert.Equal(t, int64(1), tk.DrawTypeID())
		assert.Equal(t, int32(7), tk.TotalPieces())
		assert.Equal(t, now, tk.CreatedAt())
	})

	t.Run("error: empty line set", func(t *testing.T) {
		_, err := ticket.NewTicket(uuid.New(), 3, 1, ticket.Lines{}, time.Now())
		assert.ErrorIs(t, err, ticket.ErrNoLines)
	})
}

func TestReconstructTicket(t *testing.T) {
	t.Run("round trip from stored values", func(t *testing.T) {
		userID := uuid.New()
		createdAt := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
		lines, err := ticket.NewLines([]ticket.LineInput{
			{Number: "05", Pieces: 1},
			{Number: "23", Pieces: 5},
		})
		require.NoError(t, err)

		original, err := ticket.NewTicket(userID, 3, 1, lines, createdAt)
		require.NoError(t, err)

		restored := ticket.ReconstructTicket(
			original.ID(), original.UserID(),
			original.ZoneID(), original.DrawTypeID(),
			ticket.ReconstructLines(original.Lines().All()),
			original.CreatedAt(),
		)

		if diff := cmp.Diff(original, restored, cmpOpts...); diff != "" {
			t.Errorf("Ticket mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("reconstructed lines are re-sorted", func(t *testing.T) {
		stored := []ticket.Line{
			ticket.ReconstructLine("47", 2),
			ticket.ReconstructLine("05", 1),
		}
		want, err := ticket.NewLines([]ticket.LineInput{
			{Number: "05", Pieces: 1},
			{Number: "47", Pieces: 2},
		})
		require.NoError(t, err)

		got := ticket.ReconstructLines(stored)

		if diff := cmp.Diff(want, got, cmpOpts...); diff != "" {
			t.Errorf("Lines mismatch (-want +got):\n%s", diff)
		}
	})
}
