package eval

import (
	"github.com/corvidchess/corvid/board"
)

func (e *Evaluator) pawnStructure(s *squares) int {
	score := 0
	for _, c := range []board.Color{board.White, board.Black} {
		files := &s.pawnFiles[c]
		doubled, isolated := 0, 0
		for f, n := range files {
			if n == 0 {
				continue
			}
			doubled += n - 1
			left, right := 0, 0
			if f > 0 {
				left = files[f-1]
			}
			if f < 7 {
				right = files[f+1]
			}
			if left == 0 && right == 0 {
				isolated += n
			}
		}
		passed := passedPawns(s, c)
		score += sign(c) * (passed*e.w.PassedPawn -
			doubled*e.w.DoubledPawn - isolated*e.w.IsolatedPawn)
	}
	return score
}

// passedPawns counts c's pawns with no enemy pawn ahead of them on their own
// or an adjacent file. Ahead is towards the enemy back rank.
func passedPawns(s *squares, c board.Color) int {
	enemy := s.pawns[c.Other()]
	passed := 0
	for _, sq := range s.pawns[c] {
		blocked := false
		for _, esq := range enemy {
			df := esq.File() - sq.File()
			if df < -1 || df > 1 {
				continue
			}
			if (c == board.White && esq.Rank() > sq.Rank()) ||
				(c == board.Black && esq.Rank() < sq.Rank()) {
				blocked = true
				break
			}
		}
		if !blocked {
			passed++
		}
	}
	return passed
}

var castledSquares = [3][2]board.Square{
	board.White: {board.G1, board.C1},
	board.Black: {board.G8, board.C8},
}

// pawnShields lists the three squares in front of each castled king square.
var pawnShields = map[board.Square][3]board.Square{
	board.G1: {board.F2, board.G2, board.H2},
	board.C1: {board.B2, board.C2, board.D2},
	board.G8: {board.F7, board.G7, board.H7},
	board.C8: {board.B7, board.C7, board.D7},
}

func (e *Evaluator) kingSafety(s *squares) int {
	score := 0
	for _, c := range []board.Color{board.White, board.Black} {
		king := s.kings[c]
		if king == board.NoSquare {
			continue
		}
		if king != castledSquares[c][0] && king != castledSquares[c][1] {
			continue
		}
		shield := 0
		for _, sq := range pawnShields[king] {
			if s.board[sq] == board.NewPiece(board.Pawn, c) {
				shield++
			}
		}
		score += sign(c) * (e.w.Castled + shield*e.w.PawnShield)
	}
	return score
}
