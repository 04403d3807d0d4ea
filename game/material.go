package game

import (
	"github.com/corvidchess/corvid/board"
)

type pieceCounts struct {
	pawns, knights, rooks, queens, total int
	lightBishops, darkBishops           int
}

func lightSquare(sq board.Square) bool {
	return (sq.File()+sq.Rank())%2 == 1
}

func countPieces(pos board.Position) (counts [3]pieceCounts) {
	for sq := board.A1; sq <= board.H8; sq++ {
		p := pos.PieceAt(sq)
		if p.Empty() {
			continue
		}
		c := &counts[p.Color]
		c.total++
		switch p.Type {
		case board.Pawn:
			c.pawns++
		case board.Knight:
			c.knights++
		case board.Bishop:
			if lightSquare(sq) {
				c.lightBishops++
			} else {
				c.darkBishops++
			}
		case board.Rook:
			c.rooks++
		case board.Queen:
			c.queens++
		}
	}
	return counts
}

// insufficientMaterial is true when neither side can possibly mate.
func insufficientMaterial(pos board.Position) bool {
	counts := countPieces(pos)
	return cannotMate(counts, board.White) && cannotMate(counts, board.Black)
}

// cannotMate follows the usual rule: a side with a pawn, rook or queen can
// always mate; a lone knight needs the other side to own something besides
// queens to block with; bishops can only mate if they stand on both colours or
// a knight or pawn is left on the board.
func cannotMate(counts [3]pieceCounts, c board.Color) bool {
	us, them := counts[c], counts[c.Other()]
	if us.pawns+us.rooks+us.queens > 0 {
		return false
	}
	if us.knights > 0 {
		themMinorsOrRooks := them.total - 1 - them.queens
		return us.total <= 2 && themMinorsOrRooks == 0
	}
	if us.lightBishops+us.darkBishops > 0 {
		allLight := counts[board.White].darkBishops+counts[board.Black].darkBishops == 0
		allDark := counts[board.White].lightBishops+counts[board.Black].lightBishops == 0
		noPawns := counts[board.White].pawns+counts[board.Black].pawns == 0
		noKnights := counts[board.White].knights+counts[board.Black].knights == 0
		return (allLight || allDark) && noPawns && noKnights
	}
	return true
}
