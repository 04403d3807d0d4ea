package search

import (
	"testing"

	"github.com/matryer/is"

	"github.com/corvidchess/corvid/board"
	"github.com/corvidchess/corvid/testhelpers"
)

func TestOrderCapturesFirst(t *testing.T) {
	is := is.New(t)
	g := testhelpers.MustGame(testhelpers.PawnTakesQueenFEN)
	o := NewMoveOrderer()

	exd5 := board.Move{From: board.E4, To: board.D5}
	is.Equal(o.Priority(g, exd5), CaptureOffset+900-100)

	moves := o.Order(g, g.LegalMoves())
	is.Equal(moves[0], exd5)
	for _, m := range moves[1:] {
		is.True(o.Priority(g, m) < o.Priority(g, exd5))
	}
}

func TestOrderPromotions(t *testing.T) {
	is := is.New(t)
	g := testhelpers.MustGame(testhelpers.PromotionFEN)
	o := NewMoveOrderer()

	takeQueen := board.Move{From: board.A7, To: board.B8, Promo: board.Queen}
	pushQueen := board.Move{From: board.A7, To: board.A8, Promo: board.Queen}
	pushRook := board.Move{From: board.A7, To: board.A8, Promo: board.Rook}

	// bxb8=Q captures a knight, promotes and checks along the eighth rank.
	is.Equal(o.Priority(g, takeQueen), CaptureOffset+320-100+PromotionOffset+900+CheckBonus)
	is.Equal(o.Priority(g, pushQueen), PromotionOffset+900)
	is.Equal(o.Priority(g, pushRook), PromotionOffset+500)

	moves := o.Order(g, g.LegalMoves())
	is.Equal(moves[0], takeQueen)
}

func TestOrderEnPassant(t *testing.T) {
	is := is.New(t)
	g := testhelpers.MustGame(testhelpers.EnPassantFEN)
	o := NewMoveOrderer()

	ep := board.Move{From: board.E5, To: board.D6}
	is.Equal(o.Priority(g, ep), CaptureOffset)
	is.Equal(o.Order(g, g.LegalMoves())[0], ep)
}

func TestOrderChecks(t *testing.T) {
	is := is.New(t)
	g := testhelpers.MustGame(testhelpers.BackRankMateFEN)
	o := NewMoveOrderer()

	ra8 := board.Move{From: board.A1, To: board.A8}
	is.Equal(o.Priority(g, ra8), CheckBonus)
	is.Equal(o.Order(g, g.LegalMoves())[0], ra8)
}

func TestOrderIsStable(t *testing.T) {
	is := is.New(t)
	g := testhelpers.MustGame(testhelpers.StartFEN)
	o := NewMoveOrderer()

	moves := g.LegalMoves()
	want := append([]board.Move(nil), moves...)
	for _, m := range moves {
		is.Equal(o.Priority(g, m), 0)
	}
	is.Equal(o.Order(g, moves), want)
}
