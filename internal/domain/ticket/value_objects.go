package ticket

import (
	"errors"
	"math"
	"sort"
)

var (
	ErrNoLines       = errors.New("ticket must have at least one line")
	ErrInvalidNumber = errors.New("number must be a two-digit string 00-99")
	ErrInvalidPieces = errors.New("pieces must be a positive integer")
	ErrTooManyPieces = errors.New("total pieces exceed the supported range")
)

// Number is a two-digit played number, "00" through "99".
type Number string

func NewNumber(s string) (Number, error) {
	if len(s) != 2 {
		return "", ErrInvalidNumber
	}
	for i := 0; i < 2; i++ {
		if s[i] < '0' || s[i] > '9' {
			return "", ErrInvalidNumber
		}
	}
	return Number(s), nil
}

func (n Number) String() string {
	return string(n)
}

type Line struct {
	number Number
	pieces int32
}

func (l Line) Number() Number { return l.number }
func (l Line) Pieces() int32  { return l.pieces }

type LineInput struct {
	Number string
	Pieces int32
}

// Lines is the validated, deduplicated line set of one ticket.
// Duplicate numbers in the input are summed into a single line, and lines
// are kept sorted by number ascending so that quota rows are always visited
// in a deterministic order.
type Lines struct {
	lines []Line
}

func NewLines(inputs []LineInput) (Lines, error) {
	if len(inputs) == 0 {
		return Lines{}, ErrNoLines
	}

	merged := make(map[Number]int32, len(inputs))
	var total int32
	for _, in := range inputs {
		number, err := NewNumber(in.Number)
		if err != nil {
			return Lines{}, err
		}
		if in.Pieces <= 0 {
			return Lines{}, ErrInvalidPieces
		}
		// Summed duplicates and the ticket total must both stay within
		// int32, or a negative value would reach the ledger.
		if merged[number] > math.MaxInt32-in.Pieces || total > math.MaxInt32-in.Pieces {
			return Lines{}, ErrTooManyPieces
		}
		merged[number] += in.Pieces
		total += in.Pieces
	}

	lines := make([]Line, 0, len(merged))
	for number, pieces := range merged {
		lines = append(lines, Line{number: number, pieces: pieces})
	}
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].number < lines[j].number
	})

	return Lines{lines: lines}, nil
}

func ReconstructLines(lines []Line) Lines {
	sorted := make([]Line, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].number < sorted[j].number
	})
	return Lines{lines: sorted}
}

func ReconstructLine(number string, pieces int32) Line {
	return Line{number: Number(number), pieces: pieces}
}

// All returns the lines sorted by number ascending.
func (ls Lines) All() []Line {
	out := make([]Line, len(ls.lines))
	copy(out, ls.lines)
	return out
}

func (ls Lines) Len() int {
	return len(ls.lines)
}

func (ls Lines) TotalPieces() int32 {
	var total int32
	for _, l := range ls.lines {
		total += l.pieces
	}
	return total
}
