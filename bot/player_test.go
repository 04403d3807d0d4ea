package bot

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/corvidchess/corvid/board"
	"github.com/corvidchess/corvid/book"
	"github.com/corvidchess/corvid/config"
	"github.com/corvidchess/corvid/search"
	"github.com/corvidchess/corvid/testhelpers"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func smallSearcher() *search.Searcher {
	return search.NewSearcher(nil, search.NewTranspositionTable(12, nil))
}

func testBook(t *testing.T) *book.Book {
	bk, err := book.Load(strings.NewReader("moves\ne4 e5 Nf3\n"))
	if err != nil {
		t.Fatal(err)
	}
	return bk
}

func TestGetMoveFromBook(t *testing.T) {
	is := is.New(t)
	p := NewPlayer(DefaultPlayerConfig(), smallSearcher(), testBook(t))
	g := testhelpers.MustGame(testhelpers.StartFEN)

	mr, err := p.GetMove(g, 0)
	is.NoErr(err)
	is.Equal(mr.Source, FromBook)
	is.Equal(mr.Source.String(), "book")
	is.Equal(mr.Move, board.Move{From: board.E2, To: board.E4})
	is.Equal(mr.Result.Depth, 0)
	is.Equal(g.Height(), 0)
}

func TestGetMoveFromSearch(t *testing.T) {
	is := is.New(t)
	cfg := DefaultPlayerConfig()
	cfg.Depth = 2
	p := NewPlayer(cfg, smallSearcher(), testBook(t))

	// Out of book.
	g := testhelpers.MustGame(testhelpers.PawnTakesQueenFEN)
	mr, err := p.GetMove(g, 0)
	is.NoErr(err)
	is.Equal(mr.Source, FromSearch)
	is.Equal(mr.Move, board.Move{From: board.E4, To: board.D5})
	is.Equal(mr.Result.Depth, 2)

	mr, err = p.GetMove(g, 1)
	is.NoErr(err)
	is.Equal(mr.Result.Depth, 1)

	// Book turned off.
	cfg.UseBook = false
	p.SetConfig(cfg)
	mr, err = p.GetMove(testhelpers.MustGame(testhelpers.StartFEN), 1)
	is.NoErr(err)
	is.Equal(mr.Source, FromSearch)
}

func TestGetMoveGameOver(t *testing.T) {
	is := is.New(t)
	p := NewPlayer(DefaultPlayerConfig(), smallSearcher(), nil)

	for _, fen := range []string{testhelpers.WhiteStalematedFEN, testhelpers.KingBishopKingFEN} {
		_, err := p.GetMove(testhelpers.MustGame(fen), 2)
		is.True(errors.Is(err, ErrNoLegalMoves))
		_, err = p.Think(context.Background(), testhelpers.MustGame(fen), Limit{MoveTime: time.Second})
		is.True(errors.Is(err, ErrNoLegalMoves))
	}
}

func TestTimeBudget(t *testing.T) {
	is := is.New(t)
	p := NewPlayer(DefaultPlayerConfig(), smallSearcher(), nil)

	is.Equal(p.TimeBudget(Limit{MoveTime: time.Second}, board.White), 900*time.Millisecond)
	clock := Limit{WhiteClock: 2 * time.Second, WhiteInc: time.Second, BlackClock: 10 * time.Second}
	is.Equal(p.TimeBudget(clock, board.White), 2700*time.Millisecond)
	is.Equal(p.TimeBudget(clock, board.Black), 9*time.Second)
	// Never below the minimum, even after scaling.
	is.Equal(p.TimeBudget(Limit{}, board.Black), 50*time.Millisecond)
}

func TestThinkDeepens(t *testing.T) {
	is := is.New(t)
	cfg := DefaultPlayerConfig()
	cfg.MaxDepth = 3
	p := NewPlayer(cfg, smallSearcher(), nil)
	g := testhelpers.MustGame(testhelpers.BackRankMateFEN)

	mr, err := p.Think(context.Background(), g, Limit{MoveTime: time.Hour})
	is.NoErr(err)
	is.Equal(mr.Source, FromSearch)
	is.Equal(mr.Result.Depth, 3)
	is.Equal(mr.Move, board.Move{From: board.A1, To: board.A8})
	is.Equal(g.FEN(), testhelpers.BackRankMateFEN)
}

func TestThinkStops(t *testing.T) {
	is := is.New(t)
	cfg := DefaultPlayerConfig()
	cfg.MaxDepth = 8
	p := NewPlayer(cfg, smallSearcher(), nil)

	// The first iteration always runs; a cancelled context stops the next.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	mr, err := p.Think(ctx, testhelpers.MustGame(testhelpers.MiddlegameFEN), Limit{MoveTime: time.Hour})
	is.NoErr(err)
	is.Equal(mr.Result.Depth, 1)
}

func TestThinkUsesBook(t *testing.T) {
	is := is.New(t)
	p := NewPlayer(DefaultPlayerConfig(), smallSearcher(), testBook(t))
	mr, err := p.Think(context.Background(), testhelpers.MustGame(testhelpers.StartFEN), Limit{})
	is.NoErr(err)
	is.Equal(mr.Source, FromBook)
}

func TestNewPlayerFromConfig(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigTTSizePowerOf2, 12)
	cfg.Set(config.ConfigTTReplacement, "depth")
	cfg.Set(config.ConfigSearchDepth, 2)
	cfg.Set(config.ConfigTTEnabled, false)

	p, err := NewPlayerFromConfig(cfg)
	is.NoErr(err)
	is.Equal(p.Config().Depth, 2)
	is.Equal(p.Config().MaxDepth, 4)
	is.True(p.Config().UseBook)
	is.True(p.Book() != nil)
	is.Equal(p.Searcher().TranspositionTable().Size(), 1<<12)
	is.Equal(p.Searcher().TranspositionTable().Policy().Name(), "depth")
	is.True(!p.Searcher().TranspositionTableOptim())

	cfg.Set(config.ConfigTTReplacement, "sometimes")
	_, err = NewPlayerFromConfig(cfg)
	is.True(err != nil)
}
