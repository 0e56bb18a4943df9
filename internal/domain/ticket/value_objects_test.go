//go:build unit

package ticket_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lottery-sales/internal/domain/ticket"
)

func TestNewNumber(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		expectError bool
	}{
		{name: "success: lowest number", input: "00"},
		{name: "success: highest number", input: "99"},
		{name: "success: ordinary number", input: "47"},
		{name: "error: single digit", input: "7", expectError: true},
		{name: "error: three digits", input: "123", expectError: true},
		{name: "error: letters", input: "4a", expectError: true},
		{name: "error: empty", input: "", expectError: true},
		{name: "error: signed", input: "-1", expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			n, err := ticket.NewNumber(tc.input)
			if tc.expectError {
				assert.ErrorIs(t, err, ticket.ErrInvalidNumber)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.input, n.String())
			}
		})
	}
}

func TestNewLines(t *testing.T) {
	t.Run("success: duplicate numbers are merged by summing", func(t *testing.T) {
		lines, err := ticket.NewLines([]ticket.LineInput{
			{Number: "23", Pieces: 3},
			{Number: "05", Pieces: 2},
			{Number: "23", Pieces: 4},
		})
		require.NoError(t, err)

		all := lines.All()
		require.Len(t, all, 2)
		assert.Equal(t, "05", all[0].Number().String())
		assert.Equal(t, int32(2), all[0].Pieces())
		assert.Equal(t, "23", all[1].Number().String())
		assert.Equal(t, int32(7), all[1].Pieces())
		assert.Equal(t, int32(9), lines.TotalPieces())
	})

	t.Run("success: lines are sorted by number ascending", func(t *testing.T) {
		lines, err := ticket.NewLines([]ticket.LineInput{
			{Number: "99", Pieces: 1},
			{Number: "00", Pieces: 1},
			{Number: "50", Pieces: 1},
		})
		require.NoError(t, err)

		all := lines.All()
		require.Len(t, all, 3)
		assert.Equal(t, "00", all[0].Number().String())
		assert.Equal(t, "50", all[1].Number().String())
		assert.Equal(t, "99", all[2].Number().String())
	})

	t.Run("error: empty input", func(t *testing.T) {
		_, err := ticket.NewLines(nil)
		assert.ErrorIs(t, err, ticket.ErrNoLines)
	})

	t.Run("error: zero pieces", func(t *testing.T) {
		_, err := ticket.NewLines([]ticket.LineInput{{Number: "10", Pieces: 0}})
		assert.ErrorIs(t, err, ticket.ErrInvalidPieces)
	})

	t.Run("error: negative pieces", func(t *testing.T) {
		_, err := ticket.NewLines([]ticket.LineInput{{Number: "10", Pieces: -5}})
		assert.ErrorIs(t, err, ticket.ErrInvalidPieces)
	})

	t.Run("error: summed duplicates overflowing int32", func(t *testing.T) {
		_, err := ticket.NewLines([]ticket.LineInput{
			{Number: "10", Pieces: math.MaxInt32},
			{Number: "10", Pieces: 1},
		})
		assert.ErrorIs(t, err, ticket.ErrTooManyPieces)
	})

	t.Run("error: ticket total overflowing int32 across numbers", func(t *testing.T) {
		_, err := ticket.NewLines([]ticket.LineInput{
			{Number: "10", Pieces: math.MaxInt32},
			{Number: "11", Pieces: 1},
		})
		assert.ErrorIs(t, err, ticket.ErrTooManyPieces)
	})

	t.Run("error: invalid number rejects whole set", func(t *testing.T) {
		_, err := ticket.NewLines([]ticket.LineInput{
			{Number: "10", Pieces: 1},
			{Number: "1x", Pieces: 1},
		})
		assert.ErrorIs(t, err, ticket.ErrInvalidNumber)
	})
}
