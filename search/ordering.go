package search

import (
	"sort"

	"github.com/corvidchess/corvid/board"
	"github.com/corvidchess/corvid/eval"
)

const (
	CaptureOffset   = 1000
	PromotionOffset = 800
	CheckBonus      = 50
)

// MoveOrderer ranks moves so that the ones most likely to cause a cutoff are
// searched first: captures by MVV-LVA, then promotions, then checks. The
// order never changes the value of a search, only its cost.
type MoveOrderer struct {
	values [7]int
}

func NewMoveOrderer() *MoveOrderer {
	return NewMoveOrdererWithWeights(eval.DefaultWeights())
}

func NewMoveOrdererWithWeights(w eval.Weights) *MoveOrderer {
	return &MoveOrderer{values: w.PieceValues}
}

// Priority is the heuristic value of m in pos. Quiet moves score 0.
func (o *MoveOrderer) Priority(pos board.Position, m board.Move) int {
	score := 0
	if pos.IsCapture(m) {
		victim := board.Pawn
		if !pos.IsEnPassant(m) {
			if p := pos.PieceAt(m.To); !p.Empty() {
				victim = p.Type
			}
		}
		attacker := board.Pawn
		if p := pos.PieceAt(m.From); !p.Empty() {
			attacker = p.Type
		}
		score += CaptureOffset + o.values[victim] - o.values[attacker]
	}
	if m.IsPromotion() {
		score += PromotionOffset + o.values[m.Promo]
	}
	if pos.GivesCheck(m) {
		score += CheckBonus
	}
	return score
}

type scoredMoves struct {
	estimates []int
	moves     []board.Move
}

func (p scoredMoves) Len() int { return len(p.moves) }
func (p scoredMoves) Swap(i, j int) {
	p.estimates[i], p.estimates[j] = p.estimates[j], p.estimates[i]
	p.moves[i], p.moves[j] = p.moves[j], p.moves[i]
}
func (p scoredMoves) Less(i, j int) bool {
	return p.estimates[j] < p.estimates[i]
}

// Order sorts moves in place by descending priority and returns them. Moves
// of equal priority keep their enumeration order.
func (o *MoveOrderer) Order(pos board.Position, moves []board.Move) []board.Move {
	sorter := scoredMoves{estimates: make([]int, len(moves)), moves: moves}
	for i, m := range moves {
		sorter.estimates[i] = o.Priority(pos, m)
	}
	sort.Stable(sorter)
	return sorter.moves
}
