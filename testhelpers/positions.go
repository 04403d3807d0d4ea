// Package testhelpers holds positions and helpers shared by tests.
package testhelpers

import (
	"strings"
	"unicode"

	"github.com/corvidchess/corvid/game"
)

// Positions used by more than one package's tests.
const (
	StartFEN = game.StartFEN

	// White to move; exd5 wins the undefended queen.
	PawnTakesQueenFEN = "4k3/8/8/3q4/4P3/8/8/4K3 w - - 0 1"
	// White to move mates with Ra8.
	BackRankMateFEN = "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1"
	// BackRankMateFEN seen from the other side: Black mates with Ra1.
	BlackMatesFEN = "r5k1/5ppp/8/8/8/8/5PPP/6K1 b - - 0 1"
	// White to move is stalemated, a queen and a rook down.
	WhiteStalematedFEN = "2k5/8/8/8/8/1q6/r7/2K5 w - - 0 1"
	// Black to move is stalemated, a queen and a rook down.
	BlackStalematedFEN = "3k4/7R/2Q5/8/8/8/8/3K4 b - - 0 1"
	// King and bishop against king.
	KingBishopKingFEN = "8/8/4k3/8/8/3BK3/8/8 w - - 0 1"
	// Open middlegame with captures for both sides.
	MiddlegameFEN = "r1bqkb1r/pppp1ppp/2n2n2/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4"
	// Both sides castled short with intact pawn shields.
	CastledFEN = "r4rk1/ppp2ppp/2n5/3p4/3P4/2N5/PPP2PPP/R4RK1 w - - 0 12"
	// Rook endgame with pawns.
	RookEndgameFEN = "8/5pk1/6p1/8/3R4/6P1/5PK1/r7 w - - 0 40"
	// White can capture en passant on d6.
	EnPassantFEN = "4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 2"
	// White to move can promote on a8 or capture on b8 while promoting.
	PromotionFEN = "1n2k3/P7/8/8/8/8/8/4K3 w - - 0 1"
)

// MirrorFEN flips a position top to bottom and swaps the colours of every
// piece, the side to move and the castling rights. The result is the same
// position seen from the other side.
func MirrorFEN(fen string) string {
	fields := strings.Fields(fen)
	ranks := strings.Split(fields[0], "/")
	for i, j := 0, len(ranks)-1; i < j; i, j = i+1, j-1 {
		ranks[i], ranks[j] = ranks[j], ranks[i]
	}
	fields[0] = swapCase(strings.Join(ranks, "/"))

	if fields[1] == "w" {
		fields[1] = "b"
	} else {
		fields[1] = "w"
	}

	if fields[2] != "-" {
		castling := []rune(swapCase(fields[2]))
		// Keep the KQkq order.
		var upper, lower []rune
		for _, r := range castling {
			if unicode.IsUpper(r) {
				upper = append(upper, r)
			} else {
				lower = append(lower, r)
			}
		}
		fields[2] = string(upper) + string(lower)
	}

	if ep := fields[3]; ep != "-" {
		rank := '9' - rune(ep[1]) + '0'
		fields[3] = string([]rune{rune(ep[0]), rank})
	}
	return strings.Join(fields, " ")
}

func swapCase(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsUpper(r) {
			return unicode.ToLower(r)
		}
		return unicode.ToUpper(r)
	}, s)
}

// MustGame loads fen or panics.
func MustGame(fen string) *game.Game {
	g, err := game.FromFEN(fen)
	if err != nil {
		panic(err)
	}
	return g
}
