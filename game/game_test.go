package game_test

import (
	"errors"
	"os"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/corvidchess/corvid/board"
	"github.com/corvidchess/corvid/game"
	"github.com/corvidchess/corvid/testhelpers"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func TestFromFEN(t *testing.T) {
	is := is.New(t)

	g := game.NewGame()
	is.Equal(g.FEN(), game.StartFEN)
	is.Equal(g.CanonicalKey(), "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq -")
	is.Equal(g.SideToMove(), board.White)
	is.Equal(g.Height(), 0)
	is.Equal(len(g.LegalMoves()), 20)
	is.Equal(g.KingSquare(board.White), board.E1)
	is.Equal(g.KingSquare(board.Black), board.E8)
	is.Equal(g.CastlingRights(), board.AllCastlingRights)
	is.Equal(g.EnPassantSquare(), board.NoSquare)
	is.Equal(g.PieceAt(board.D8), board.NewPiece(board.Queen, board.Black))

	short, err := game.FromFEN("4k3/8/8/8/8/8/8/4K2R w K -")
	is.NoErr(err)
	is.Equal(short.FEN(), "4k3/8/8/8/8/8/8/4K2R w K - 0 1")
	is.Equal(short.CastlingRights(), board.WhiteKingSide)

	for _, bad := range []string{"", "not a fen", "8/8/8 w - - x 1"} {
		_, err := game.FromFEN(bad)
		is.True(errors.Is(err, game.ErrBadFEN))
	}
}

func TestPlayAndUnplay(t *testing.T) {
	is := is.New(t)
	g := game.NewGame()

	is.NoErr(g.PlaySAN("e4"))
	is.NoErr(g.PlaySAN("e7e5"))
	is.NoErr(g.PlaySAN("Nf3"))
	is.Equal(g.Height(), 3)
	is.Equal(g.SideToMove(), board.Black)
	is.Equal(g.MoveHistory(), []board.Move{
		{From: board.E2, To: board.E4},
		{From: board.E7, To: board.E5},
		{From: board.G1, To: board.F3},
	})
	is.Equal(g.FEN(), "rnbqkbnr/pppp1ppp/8/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 1 2")

	for g.Height() > 0 {
		g.UnplayLastMove()
	}
	is.Equal(g.FEN(), game.StartFEN)
}

func TestIllegalMoves(t *testing.T) {
	is := is.New(t)
	g := game.NewGame()

	err := g.PlaySAN("e5")
	is.True(err != nil)
	err = g.PlaySAN("e2e5")
	is.True(errors.Is(err, board.ErrIllegalMove))
	is.Equal(g.Height(), 0)

	assert.PanicsWithError(t,
		"illegal move: e2e5 in "+game.StartFEN,
		func() { g.PlayMove(board.Move{From: board.E2, To: board.E5}) })
	assert.Panics(t, func() { g.UnplayLastMove() })
}

func TestParseMove(t *testing.T) {
	is := is.New(t)
	g := game.NewGame()

	uci, err := g.ParseMove("g1f3")
	is.NoErr(err)
	san, err := g.ParseMove("Nf3")
	is.NoErr(err)
	is.Equal(uci, san)
	is.Equal(g.SAN(san), "Nf3")

	_, err = g.ParseUCI("g1g3")
	is.True(errors.Is(err, board.ErrIllegalMove))
}

func TestMoveFlags(t *testing.T) {
	is := is.New(t)

	g := testhelpers.MustGame(testhelpers.EnPassantFEN)
	is.Equal(g.EnPassantSquare(), board.D6)
	ep := board.Move{From: board.E5, To: board.D6}
	push := board.Move{From: board.E5, To: board.E6}
	is.True(g.IsCapture(ep))
	is.True(g.IsEnPassant(ep))
	is.True(!g.IsCapture(push))
	is.True(!g.IsEnPassant(push))

	g = testhelpers.MustGame(testhelpers.BackRankMateFEN)
	mate := board.Move{From: board.A1, To: board.A8}
	is.True(g.GivesCheck(mate))
	is.True(!g.GivesCheck(board.Move{From: board.A1, To: board.A2}))
}

func TestStatus(t *testing.T) {
	for _, tc := range []struct {
		name   string
		fen    string
		moves  []string
		status board.Status
	}{
		{"start", testhelpers.StartFEN, nil, board.Ongoing},
		{"white mates", testhelpers.BackRankMateFEN, []string{"a1a8"}, board.Checkmate},
		{"black mates", testhelpers.BlackMatesFEN, []string{"a8a1"}, board.Checkmate},
		{"white stalemated", testhelpers.WhiteStalematedFEN, nil, board.Stalemate},
		{"black stalemated", testhelpers.BlackStalematedFEN, nil, board.Stalemate},
		{"king and bishop", testhelpers.KingBishopKingFEN, nil, board.InsufficientMaterial},
		{"king and knight", "8/8/4k3/8/8/3NK3/8/8 w - - 0 1", nil, board.InsufficientMaterial},
		{"same coloured bishops", "8/8/4k3/5b2/8/3BK3/8/8 w - - 0 1", nil, board.InsufficientMaterial},
		{"opposite coloured bishops", "8/8/3bk3/8/8/3BK3/8/8 w - - 0 1", nil, board.Ongoing},
		{"king and rook", "8/8/4k3/8/8/3RK3/8/8 w - - 0 1", nil, board.Ongoing},
		{"seventy-five moves", "8/8/4k3/8/8/3RK3/8/8 w - - 150 120", nil, board.SeventyFiveMoveRule},
		{"seventy-five moves reached", "8/8/4k3/8/8/3RK3/8/8 w - - 149 120", []string{"Rd1"}, board.SeventyFiveMoveRule},
	} {
		t.Run(tc.name, func(t *testing.T) {
			is := is.New(t)
			g := testhelpers.MustGame(tc.fen)
			for _, m := range tc.moves {
				is.NoErr(g.PlaySAN(m))
			}
			is.Equal(g.Status(), tc.status)
		})
	}
}

func TestFivefoldRepetition(t *testing.T) {
	is := is.New(t)
	g := game.NewGame()
	shuffle := []string{"Nf3", "Nf6", "Ng1", "Ng8"}

	for i := 0; i < 3; i++ {
		for _, m := range shuffle {
			is.NoErr(g.PlaySAN(m))
		}
	}
	// Four occurrences so far.
	is.Equal(g.Status(), board.Ongoing)

	for _, m := range shuffle {
		is.NoErr(g.PlaySAN(m))
	}
	is.Equal(g.Status(), board.FivefoldRepetition)

	g.UnplayLastMove()
	is.Equal(g.Status(), board.Ongoing)
}

func TestSetSideToMove(t *testing.T) {
	is := is.New(t)

	g := game.NewGame()
	g.SetSideToMove(board.Black)
	is.Equal(g.SideToMove(), board.Black)
	is.Equal(len(g.LegalMoves()), 20)
	g.SetSideToMove(board.White)
	is.Equal(g.FEN(), game.StartFEN)

	// The en-passant target comes back with the original side.
	g = testhelpers.MustGame(testhelpers.EnPassantFEN)
	g.SetSideToMove(board.Black)
	is.Equal(g.EnPassantSquare(), board.NoSquare)
	g.SetSideToMove(board.White)
	is.Equal(g.FEN(), testhelpers.EnPassantFEN)

	// Setting the side already to move changes nothing.
	g.SetSideToMove(board.White)
	is.Equal(g.FEN(), testhelpers.EnPassantFEN)
}

func TestCopy(t *testing.T) {
	is := is.New(t)
	g := game.NewGame()
	is.NoErr(g.PlaySAN("d4"))

	c := g.Copy()
	is.Equal(c.FEN(), g.FEN())
	is.Equal(c.Height(), 0)
	is.NoErr(c.PlaySAN("d5"))
	is.Equal(g.SideToMove(), board.Black)
}
