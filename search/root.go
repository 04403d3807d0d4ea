package search

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/corvidchess/corvid/board"
)

var ErrNoLegalMoves = errors.New("no legal moves")

// RootMove is one root move with the value the search gave it.
type RootMove struct {
	Move  board.Move
	Score int
}

// Result is the outcome of a root search.
type Result struct {
	Move    board.Move
	Score   int
	Depth   int
	Stats   Stats
	Elapsed time.Duration
	// Moves holds every root move in the order it was searched.
	Moves []RootMove
}

// BestMove searches every legal move of pos depth plies deep and returns the
// best one for the side to move. Each root move is searched with the full
// window, so every entry of Result.Moves carries its exact value. Of moves
// with equal value the first one searched wins. A depth below 1 is treated
// as 1. pos is left as it was found.
func (s *Searcher) BestMove(pos board.Position, depth int) (Result, error) {
	depth = max(depth, 1)
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return Result{}, ErrNoLegalMoves
	}

	start := time.Now()
	s.stats = Stats{}
	tableBefore := s.ttable.Stats()
	s.ttable.NewSearch()

	whiteToMove := pos.SideToMove() == board.White
	scored := make([]RootMove, 0, len(moves))
	for _, m := range s.orderer.Order(pos, moves) {
		scored = append(scored, RootMove{Move: m, Score: s.searchRootMove(pos, m, depth)})
	}

	best := lo.Reduce(scored[1:], func(best RootMove, rm RootMove, _ int) RootMove {
		if (whiteToMove && rm.Score > best.Score) || (!whiteToMove && rm.Score < best.Score) {
			return rm
		}
		return best
	}, scored[0])

	s.stats.Table = s.ttable.Stats().sub(tableBefore)
	res := Result{
		Move:    best.Move,
		Score:   best.Score,
		Depth:   depth,
		Stats:   s.stats,
		Elapsed: time.Since(start),
		Moves:   scored,
	}
	log.Debug().Str("move", res.Move.String()).
		Int("score", res.Score).
		Int("depth", depth).
		Object("stats", res.Stats).
		Dur("elapsed", res.Elapsed).
		Msg("search-returning")
	return res, nil
}

// searchRootMove plays m and searches the reply with the side then to move
// as the maximizing side if it is White.
func (s *Searcher) searchRootMove(pos board.Position, m board.Move, depth int) int {
	defer board.Play(pos, m)()
	return s.alphaBeta(pos, depth-1, 1, -Infinity, Infinity, pos.SideToMove() == board.White)
}

// Stats returns the counters of the last root search.
func (s *Searcher) Stats() Stats {
	return s.stats
}
