package eval

import "github.com/corvidchess/corvid/board"

// Weights is the evaluation table. All values are centipawns from White's
// point of view. Piece-square tables are indexed a1 = 0 through h8 = 63, so
// the first row of each literal below is the first rank; Black reads them
// through a vertical mirror.
type Weights struct {
	PieceValues [7]int
	PieceSquare [7][board.NumSquares]int

	Mobility     int
	BishopPair   int
	Castled      int
	PawnShield   int
	DoubledPawn  int
	IsolatedPawn int
	PassedPawn   int
}

var defaultWeights = Weights{
	PieceValues: [7]int{
		board.Pawn:   100,
		board.Knight: 320,
		board.Bishop: 330,
		board.Rook:   500,
		board.Queen:  900,
		board.King:   20000,
	},
	PieceSquare: [7][board.NumSquares]int{
		board.Pawn: {
			0, 0, 0, 0, 0, 0, 0, 0,
			5, 10, 10, -20, -20, 10, 10, 5,
			5, -5, -10, 0, 0, -10, -5, 5,
			0, 0, 0, 20, 20, 0, 0, 0,
			5, 5, 10, 25, 25, 10, 5, 5,
			10, 10, 20, 30, 30, 20, 10, 10,
			50, 50, 50, 50, 50, 50, 50, 50,
			0, 0, 0, 0, 0, 0, 0, 0,
		},
		board.Knight: {
			-50, -40, -30, -30, -30, -30, -40, -50,
			-40, -20, 0, 5, 5, 0, -20, -40,
			-30, 5, 10, 15, 15, 10, 5, -30,
			-30, 0, 15, 20, 20, 15, 0, -30,
			-30, 5, 15, 20, 20, 15, 5, -30,
			-30, 0, 10, 15, 15, 10, 0, -30,
			-40, -20, 0, 0, 0, 0, -20, -40,
			-50, -40, -30, -30, -30, -30, -40, -50,
		},
		board.Bishop: {
			-20, -10, -10, -10, -10, -10, -10, -20,
			-10, 5, 0, 0, 0, 0, 5, -10,
			-10, 10, 10, 10, 10, 10, 10, -10,
			-10, 0, 10, 10, 10, 10, 0, -10,
			-10, 5, 5, 10, 10, 5, 5, -10,
			-10, 0, 5, 10, 10, 5, 0, -10,
			-10, 0, 0, 0, 0, 0, 0, -10,
			-20, -10, -10, -10, -10, -10, -10, -20,
		},
		board.Rook: {
			0, 0, 0, 5, 5, 0, 0, 0,
			-5, 0, 0, 0, 0, 0, 0, -5,
			-5, 0, 0, 0, 0, 0, 0, -5,
			-5, 0, 0, 0, 0, 0, 0, -5,
			-5, 0, 0, 0, 0, 0, 0, -5,
			-5, 0, 0, 0, 0, 0, 0, -5,
			5, 10, 10, 10, 10, 10, 10, 5,
			0, 0, 0, 0, 0, 0, 0, 0,
		},
		board.Queen: {
			-20, -10, -10, -5, -5, -10, -10, -20,
			-10, 0, 5, 0, 0, 0, 0, -10,
			-10, 5, 5, 5, 5, 5, 0, -10,
			0, 0, 5, 5, 5, 5, 0, -5,
			-5, 0, 5, 5, 5, 5, 0, -5,
			-10, 0, 5, 5, 5, 5, 0, -10,
			-10, 0, 0, 0, 0, 0, 0, -10,
			-20, -10, -10, -5, -5, -10, -10, -20,
		},
		board.King: {
			20, 30, 10, 0, 0, 10, 30, 20,
			20, 20, 0, 0, 0, 0, 20, 20,
			-10, -20, -20, -20, -20, -20, -20, -10,
			-20, -30, -30, -40, -40, -30, -30, -20,
			-30, -40, -40, -50, -50, -40, -40, -30,
			-30, -40, -40, -50, -50, -40, -40, -30,
			-30, -40, -40, -50, -50, -40, -40, -30,
			-30, -40, -40, -50, -50, -40, -40, -30,
		},
	},
	Mobility:     5,
	BishopPair:   30,
	Castled:      20,
	PawnShield:   5,
	DoubledPawn:  15,
	IsolatedPawn: 10,
	PassedPawn:   15,
}

// DefaultWeights returns a copy of the built-in table.
func DefaultWeights() Weights {
	return defaultWeights
}

// PieceValue is the default material value of pt.
func PieceValue(pt board.PieceType) int {
	return defaultWeights.PieceValues[pt]
}
