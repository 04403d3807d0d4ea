package board

import (
	"fmt"
)

// Move is a from-square, to-square and optional promotion piece. Capture,
// en-passant and check flags depend on the position and are queried from the
// Position the move is about to be played on.
type Move struct {
	From  Square
	To    Square
	Promo PieceType
}

// NullMove is the zero move. It is never legal.
var NullMove = Move{}

func NewMove(from, to Square, promo PieceType) Move {
	return Move{From: from, To: to, Promo: promo}
}

func (m Move) IsPromotion() bool {
	return m.Promo != NoPieceType
}

func (m Move) IsNull() bool {
	return m == NullMove
}

// String returns the move in UCI long algebraic form, e.g. e7e8q.
func (m Move) String() string {
	return m.From.String() + m.To.String() + m.Promo.String()
}

// ParseUCI parses a move in UCI form. It does not check legality.
func ParseUCI(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NullMove, fmt.Errorf("%w: %q", ErrBadMove, s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NullMove, fmt.Errorf("%w: %q", ErrBadMove, s)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NullMove, fmt.Errorf("%w: %q", ErrBadMove, s)
	}
	m := Move{From: from, To: to}
	if len(s) == 5 {
		switch s[4] {
		case 'n':
			m.Promo = Knight
		case 'b':
			m.Promo = Bishop
		case 'r':
			m.Promo = Rook
		case 'q':
			m.Promo = Queen
		default:
			return NullMove, fmt.Errorf("%w: %q", ErrBadMove, s)
		}
	}
	return m, nil
}
