// Package search finds the best move in a position with a fixed-depth
// alpha-beta minimax, extended at the horizon by a captures-only quiescence
// search. White is the maximizing side throughout: scores are positive when
// White stands better.
package search

import (
	"github.com/samber/lo"

	"github.com/corvidchess/corvid/board"
	"github.com/corvidchess/corvid/eval"
	"github.com/corvidchess/corvid/zobrist"
)

// Infinity is larger than any score a search can return.
const Infinity = 1 << 30

const (
	DefaultMaxPly         = 64
	DefaultTTSizePowerOf2 = 20
)

// Searcher holds everything that lives across searches: the evaluator, the
// move orderer and the transposition table. A Searcher and the positions it
// searches belong to one goroutine at a time; run concurrent searches with
// one Searcher each.
type Searcher struct {
	evaluator *eval.Evaluator
	orderer   *MoveOrderer
	ttable    *TranspositionTable
	zobrist   *zobrist.Zobrist

	transpositionTableOptim bool
	// maxPly caps the distance from the root quiescence may reach.
	maxPly int

	stats Stats
}

// NewSearcher returns a searcher with the transposition table enabled. A nil
// evaluator or table is replaced by the default one.
func NewSearcher(ev *eval.Evaluator, tt *TranspositionTable) *Searcher {
	if ev == nil {
		ev = eval.NewEvaluator()
	}
	if tt == nil {
		tt = NewTranspositionTable(DefaultTTSizePowerOf2, AlwaysReplace{})
	}
	return &Searcher{
		evaluator:               ev,
		orderer:                 NewMoveOrdererWithWeights(ev.Weights()),
		ttable:                  tt,
		zobrist:                 zobrist.New(),
		transpositionTableOptim: true,
		maxPly:                  DefaultMaxPly,
	}
}

func (s *Searcher) SetTranspositionTableOptim(tt bool) {
	s.transpositionTableOptim = tt
}

func (s *Searcher) TranspositionTableOptim() bool {
	return s.transpositionTableOptim
}

func (s *Searcher) SetTranspositionTable(tt *TranspositionTable) {
	s.ttable = tt
}

func (s *Searcher) TranspositionTable() *TranspositionTable {
	return s.ttable
}

// SetMaxPly sets the hard ply cap of the quiescence search. Values below 1
// restore the default.
func (s *Searcher) SetMaxPly(p int) {
	if p < 1 {
		p = DefaultMaxPly
	}
	s.maxPly = min(p, eval.MaxPly)
}

func (s *Searcher) Evaluator() *eval.Evaluator {
	return s.evaluator
}

func (s *Searcher) Orderer() *MoveOrderer {
	return s.orderer
}

// Search returns the minimax value of pos searched depth plies deep within
// the window [alpha, beta]. ply is the distance from the root and only
// affects mate scores. Values outside the window are bounds: fail-soft.
func (s *Searcher) Search(pos board.Position, depth, ply, alpha, beta int, maximizing bool) int {
	return s.alphaBeta(pos, depth, ply, alpha, beta, maximizing)
}

// Quiescence searches only captures from pos until the position is quiet.
// Its result is clamped to [alpha, beta].
func (s *Searcher) Quiescence(pos board.Position, ply, alpha, beta int, maximizing bool) int {
	return s.quiescence(pos, ply, alpha, beta, maximizing)
}

func (s *Searcher) alphaBeta(pos board.Position, depth, ply, alpha, beta int, maximizing bool) int {
	s.stats.Nodes++
	if pos.Status().GameOver() {
		return s.evaluator.Evaluate(pos, ply)
	}
	if depth <= 0 {
		return s.quiescence(pos, ply, alpha, beta, maximizing)
	}

	var key uint64
	if s.transpositionTableOptim {
		key = s.zobrist.Hash(pos)
		if entry, ok := s.ttable.lookup(key); ok && entry.Depth() >= depth {
			value := entry.Value()
			switch entry.bound {
			case BoundExact:
				s.stats.TTCutoffs++
				return value
			case BoundLower:
				alpha = max(alpha, value)
			case BoundUpper:
				beta = min(beta, value)
			}
			if alpha >= beta {
				s.stats.TTCutoffs++
				return value
			}
		}
	}

	// The window after the table had its say; the stored bound is
	// classified against it.
	alphaOrig, betaOrig := alpha, beta

	moves := s.orderer.Order(pos, pos.LegalMoves())
	best := Infinity
	if maximizing {
		best = -Infinity
	}
	for _, m := range moves {
		value := s.child(pos, m, depth-1, ply+1, alpha, beta, !maximizing)
		if maximizing {
			best = max(best, value)
			alpha = max(alpha, value)
		} else {
			best = min(best, value)
			beta = min(beta, value)
		}
		if beta <= alpha {
			s.stats.Cutoffs++
			break
		}
	}

	if s.transpositionTableOptim {
		s.ttable.store(key, best, depth, classify(best, alphaOrig, betaOrig))
	}
	return best
}

// child plays m, searches the resulting position and takes m back on every
// way out.
func (s *Searcher) child(pos board.Position, m board.Move, depth, ply, alpha, beta int, maximizing bool) int {
	defer board.Play(pos, m)()
	return s.alphaBeta(pos, depth, ply, alpha, beta, maximizing)
}

func (s *Searcher) quiescence(pos board.Position, ply, alpha, beta int, maximizing bool) int {
	s.stats.QNodes++
	standPat := s.evaluator.Evaluate(pos, ply)

	if maximizing {
		if standPat >= beta {
			return beta
		}
		alpha = max(alpha, standPat)
	} else {
		if standPat <= alpha {
			return alpha
		}
		beta = min(beta, standPat)
	}

	if ply < s.maxPly {
		captures := lo.Filter(pos.LegalMoves(), func(m board.Move, _ int) bool {
			return pos.IsCapture(m)
		})
		for _, m := range s.orderer.Order(pos, captures) {
			score := s.quiescenceChild(pos, m, ply+1, alpha, beta, !maximizing)
			if maximizing {
				alpha = max(alpha, score)
			} else {
				beta = min(beta, score)
			}
			if beta <= alpha {
				break
			}
		}
	}

	if maximizing {
		return alpha
	}
	return beta
}

func (s *Searcher) quiescenceChild(pos board.Position, m board.Move, ply, alpha, beta int, maximizing bool) int {
	defer board.Play(pos, m)()
	return s.quiescence(pos, ply, alpha, beta, maximizing)
}
