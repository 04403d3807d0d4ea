// Package eval scores chess positions statically. Scores are centipawns,
// positive when White stands better.
package eval

import (
	"github.com/corvidchess/corvid/board"
)

const (
	// MateScore is the magnitude of a checkmate at the root. A mate found
	// ply half-moves from the root scores MateScore - ply.
	MateScore = 100000
	// MaxPly bounds the distance from the root a mate can be reported at.
	MaxPly = 128
)

// IsMate is true for scores that encode a forced mate.
func IsMate(score int) bool {
	return score >= MateScore-MaxPly || score <= -MateScore+MaxPly
}

// MatePly returns the number of plies from the root to the mate encoded in
// score.
func MatePly(score int) int {
	if score < 0 {
		score = -score
	}
	return MateScore - score
}

// Breakdown holds the individual terms of a static evaluation.
type Breakdown struct {
	Material      int
	PieceSquare   int
	Mobility      int
	BishopPair    int
	PawnStructure int
	KingSafety    int
}

func (b Breakdown) Total() int {
	return b.Material + b.PieceSquare + b.Mobility + b.BishopPair +
		b.PawnStructure + b.KingSafety
}

type Evaluator struct {
	w Weights
}

// NewEvaluator returns an evaluator using the built-in weights.
func NewEvaluator() *Evaluator {
	return &Evaluator{w: DefaultWeights()}
}

// NewEvaluatorWithWeights uses a fixed table other than the built-in one.
func NewEvaluatorWithWeights(w Weights) *Evaluator {
	return &Evaluator{w: w}
}

func (e *Evaluator) Weights() Weights {
	return e.w
}

// Evaluate scores pos, found ply half-moves from the search root. A side
// that is checkmated scores -(MateScore - ply) from its own point of view,
// so nearer mates are worth more; drawn positions score exactly 0.
func (e *Evaluator) Evaluate(pos board.Position, ply int) int {
	switch st := pos.Status(); {
	case st == board.Checkmate:
		if pos.SideToMove() == board.White {
			return -MateScore + ply
		}
		return MateScore - ply
	case st.Draw():
		return 0
	}
	return e.Terms(pos).Total()
}

// Terms computes every term of the evaluation of a position that is not
// over. The mobility probe hands the move to each side in turn and always
// hands it back before returning.
func (e *Evaluator) Terms(pos board.Position) Breakdown {
	s := scan(pos)
	return Breakdown{
		Material:      e.material(&s),
		PieceSquare:   e.pieceSquare(&s),
		Mobility:      e.mobility(pos),
		BishopPair:    e.bishopPair(&s),
		PawnStructure: e.pawnStructure(&s),
		KingSafety:    e.kingSafety(&s),
	}
}

type placed struct {
	sq board.Square
	p  board.Piece
}

// squares is one pass over the board.
type squares struct {
	pieces  []placed
	bishops [3]int
	// pawnFiles counts pawns per file for each colour.
	pawnFiles [3][8]int
	pawns     [3][]board.Square
	kings     [3]board.Square
	board     [board.NumSquares]board.Piece
}

func scan(pos board.Position) squares {
	s := squares{kings: [3]board.Square{board.NoSquare, board.NoSquare, board.NoSquare}}
	s.pieces = make([]placed, 0, 32)
	for sq := board.A1; sq <= board.H8; sq++ {
		p := pos.PieceAt(sq)
		if p.Empty() {
			continue
		}
		s.board[sq] = p
		s.pieces = append(s.pieces, placed{sq, p})
		switch p.Type {
		case board.Bishop:
			s.bishops[p.Color]++
		case board.Pawn:
			s.pawnFiles[p.Color][sq.File()]++
			s.pawns[p.Color] = append(s.pawns[p.Color], sq)
		case board.King:
			s.kings[p.Color] = sq
		}
	}
	return s
}

func sign(c board.Color) int {
	if c == board.White {
		return 1
	}
	return -1
}

// material leaves kings out: both sides have one in any legal position.
func (e *Evaluator) material(s *squares) int {
	score := 0
	for _, pl := range s.pieces {
		if pl.p.Type == board.King {
			continue
		}
		score += sign(pl.p.Color) * e.w.PieceValues[pl.p.Type]
	}
	return score
}

func (e *Evaluator) pieceSquare(s *squares) int {
	score := 0
	for _, pl := range s.pieces {
		if pl.p.Color == board.White {
			score += e.w.PieceSquare[pl.p.Type][pl.sq]
		} else {
			score -= e.w.PieceSquare[pl.p.Type][pl.sq.Mirror()]
		}
	}
	return score
}

func (e *Evaluator) mobility(pos board.Position) int {
	white := countMoves(pos, board.White)
	black := countMoves(pos, board.Black)
	return (white - black) * e.w.Mobility
}

// countMoves counts the legal moves c would have if it were c's turn.
func countMoves(pos board.Position, c board.Color) int {
	orig := pos.SideToMove()
	defer pos.SetSideToMove(orig)
	pos.SetSideToMove(c)
	return len(pos.LegalMoves())
}

func (e *Evaluator) bishopPair(s *squares) int {
	score := 0
	if s.bishops[board.White] >= 2 {
		score += e.w.BishopPair
	}
	if s.bishops[board.Black] >= 2 {
		score -= e.w.BishopPair
	}
	return score
}
