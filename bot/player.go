// Package bot turns a position into a move: from the opening book when it
// knows the position, otherwise from a search.
package bot

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/corvidchess/corvid/board"
	"github.com/corvidchess/corvid/book"
	"github.com/corvidchess/corvid/config"
	"github.com/corvidchess/corvid/game"
	"github.com/corvidchess/corvid/search"
)

var ErrNoLegalMoves = search.ErrNoLegalMoves

// Source says where a move came from.
type Source int

const (
	FromSearch Source = iota
	FromBook
)

func (s Source) String() string {
	if s == FromBook {
		return "book"
	}
	return "search"
}

// MoveResult is a chosen move and how it was found. Result is the last
// completed search and is zero for book moves.
type MoveResult struct {
	Move   board.Move
	Source Source
	Result search.Result
}

type PlayerConfig struct {
	Depth              int
	MaxDepth           int
	UseBook            bool
	TimeBudgetFraction float64
	MinTimeBudget      time.Duration
}

// DefaultPlayerConfig has the same values as the config defaults.
func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		Depth:              3,
		MaxDepth:           4,
		UseBook:            true,
		TimeBudgetFraction: 0.9,
		MinTimeBudget:      50 * time.Millisecond,
	}
}

// Player owns a searcher and, optionally, a book. Like its searcher it must
// only be used by one goroutine at a time.
type Player struct {
	cfg      PlayerConfig
	searcher *search.Searcher
	book     *book.Book
}

// NewPlayer returns a player. A nil book disables book moves.
func NewPlayer(cfg PlayerConfig, searcher *search.Searcher, bk *book.Book) *Player {
	if searcher == nil {
		searcher = search.NewSearcher(nil, nil)
	}
	return &Player{cfg: cfg, searcher: searcher, book: bk}
}

// NewPlayerFromConfig builds the searcher, its transposition table and the
// book from cfg.
func NewPlayerFromConfig(cfg *config.Config) (*Player, error) {
	policy, err := search.PolicyFromName(cfg.GetString(config.ConfigTTReplacement))
	if err != nil {
		return nil, err
	}
	tt := search.NewTranspositionTable(search.DefaultTTSizePowerOf2, policy)
	if p := cfg.GetInt(config.ConfigTTSizePowerOf2); p > 0 {
		tt.Resize(p)
	} else {
		tt.Reset(cfg.GetFloat64(config.ConfigTTMemoryFraction))
	}
	s := search.NewSearcher(nil, tt)
	s.SetTranspositionTableOptim(cfg.GetBool(config.ConfigTTEnabled))
	s.SetMaxPly(cfg.GetInt(config.ConfigMaxPly))

	pcfg := PlayerConfig{
		Depth:              cfg.GetInt(config.ConfigSearchDepth),
		MaxDepth:           cfg.GetInt(config.ConfigMaxDepth),
		UseBook:            cfg.GetBool(config.ConfigUseBook),
		TimeBudgetFraction: cfg.GetFloat64(config.ConfigTimeBudgetFraction),
		MinTimeBudget:      cfg.GetDuration(config.ConfigMinTimeBudget),
	}
	var bk *book.Book
	if pcfg.UseBook {
		bk, err = book.FromConfig(cfg)
		if err != nil {
			return nil, err
		}
	}
	return NewPlayer(pcfg, s, bk), nil
}

func (p *Player) Config() PlayerConfig {
	return p.cfg
}

func (p *Player) SetConfig(cfg PlayerConfig) {
	p.cfg = cfg
}

func (p *Player) Searcher() *search.Searcher {
	return p.searcher
}

func (p *Player) Book() *book.Book {
	return p.book
}

func (p *Player) bookMove(g *game.Game) (board.Move, bool) {
	if !p.cfg.UseBook || p.book == nil {
		return board.NullMove, false
	}
	m, ok := p.book.Pick(g)
	if ok {
		log.Debug().Str("move", g.SAN(m)).Msg("book-hit")
	}
	return m, ok
}

// GetMove returns a book move if there is one, and otherwise the best move
// of a search depth plies deep. A depth below 1 uses the configured depth.
// g is left as it was found.
func (p *Player) GetMove(g *game.Game, depth int) (MoveResult, error) {
	if g.Status().GameOver() {
		return MoveResult{}, ErrNoLegalMoves
	}
	if m, ok := p.bookMove(g); ok {
		return MoveResult{Move: m, Source: FromBook}, nil
	}
	if depth < 1 {
		depth = p.cfg.Depth
	}
	res, err := p.searcher.BestMove(g, depth)
	if err != nil {
		return MoveResult{}, err
	}
	return MoveResult{Move: res.Move, Source: FromSearch, Result: res}, nil
}

// Limit is the time available for a move. MoveTime, if set, is the whole
// budget; otherwise it is the mover's clock plus increment.
type Limit struct {
	MoveTime   time.Duration
	WhiteClock time.Duration
	BlackClock time.Duration
	WhiteInc   time.Duration
	BlackInc   time.Duration
}

// TimeBudget is how long a player thinking on limit for side may keep
// starting new iterations.
func (p *Player) TimeBudget(limit Limit, side board.Color) time.Duration {
	budget := limit.MoveTime
	if budget <= 0 {
		if side == board.White {
			budget = limit.WhiteClock + limit.WhiteInc
		} else {
			budget = limit.BlackClock + limit.BlackInc
		}
	}
	budget = max(budget, p.cfg.MinTimeBudget)
	scaled := time.Duration(float64(budget) * p.cfg.TimeBudgetFraction)
	return max(scaled, p.cfg.MinTimeBudget)
}

// Think deepens the search one ply at a time, from 1 up to MaxDepth, and
// returns the result of the deepest search that finished. A new depth is
// only started while time is left in the budget and ctx is not done; a
// search that has started always runs to the end.
func (p *Player) Think(ctx context.Context, g *game.Game, limit Limit) (MoveResult, error) {
	if g.Status().GameOver() {
		return MoveResult{}, ErrNoLegalMoves
	}
	if m, ok := p.bookMove(g); ok {
		return MoveResult{Move: m, Source: FromBook}, nil
	}

	start := time.Now()
	budget := p.TimeBudget(limit, g.SideToMove())
	var best MoveResult
	found := false
	for depth := 1; depth <= max(p.cfg.MaxDepth, 1); depth++ {
		if found && (time.Since(start) >= budget || ctx.Err() != nil) {
			break
		}
		res, err := p.searcher.BestMove(g, depth)
		if err != nil {
			return MoveResult{}, err
		}
		best = MoveResult{Move: res.Move, Source: FromSearch, Result: res}
		found = true
		log.Debug().Int("depth", depth).Str("move", res.Move.String()).
			Int("score", res.Score).Dur("elapsed", time.Since(start)).
			Msg("iteration-done")
	}
	return best, nil
}
