// Package board defines the chess vocabulary shared by the evaluator and the
// search (squares, pieces, moves) and the narrow Position contract that any
// rules engine has to satisfy to be searched.
package board

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

var (
	ErrBadMove          = errors.New("bad move")
	ErrIllegalMove      = errors.New("illegal move")
	ErrUnbalancedUnmake = errors.New("unbalanced make/unmake")
)

// Status is the game-over state of a position.
type Status uint8

const (
	Ongoing Status = iota
	Checkmate
	Stalemate
	InsufficientMaterial
	FivefoldRepetition
	SeventyFiveMoveRule
)

func (s Status) GameOver() bool {
	return s != Ongoing
}

// Draw is true for every game-over status other than checkmate.
func (s Status) Draw() bool {
	return s != Ongoing && s != Checkmate
}

func (s Status) String() string {
	switch s {
	case Ongoing:
		return "ongoing"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case InsufficientMaterial:
		return "insufficient-material"
	case FivefoldRepetition:
		return "fivefold-repetition"
	case SeventyFiveMoveRule:
		return "seventy-five-move-rule"
	}
	return "unknown"
}

// CastlingRights is a bit set of the four castling options.
type CastlingRights uint8

const (
	WhiteKingSide CastlingRights = 1 << iota
	WhiteQueenSide
	BlackKingSide
	BlackQueenSide
)

const AllCastlingRights = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide

func (cr CastlingRights) String() string {
	if cr == 0 {
		return "-"
	}
	s := ""
	for _, r := range []struct {
		bit CastlingRights
		c   string
	}{{WhiteKingSide, "K"}, {WhiteQueenSide, "Q"}, {BlackKingSide, "k"}, {BlackQueenSide, "q"}} {
		if cr&r.bit != 0 {
			s += r.c
		}
	}
	return s
}

// Position is everything the search and the evaluator need from a rules
// engine. Implementations are mutated in place: PlayMove pushes a move and
// UnplayLastMove pops it, in strict LIFO order. A Position is owned by one
// goroutine for the duration of a search.
type Position interface {
	LegalMoves() []Move
	// PlayMove panics with ErrIllegalMove if m is not legal here.
	PlayMove(m Move)
	// UnplayLastMove panics with ErrUnbalancedUnmake if no move was played.
	UnplayLastMove()
	// Height is the number of moves that can currently be unplayed.
	Height() int

	SideToMove() Color
	// SetSideToMove hands the move to c without playing a move. Setting it
	// back to the original side restores the original position exactly.
	SetSideToMove(c Color)
	Status() Status

	PieceAt(sq Square) Piece
	// KingSquare returns NoSquare if c has no king on the board.
	KingSquare(c Color) Square
	CastlingRights() CastlingRights
	// EnPassantSquare returns NoSquare when there is no en-passant target.
	EnPassantSquare() Square

	IsCapture(m Move) bool
	IsEnPassant(m Move) bool
	GivesCheck(m Move) bool
}

// Play makes m on pos and returns the function that takes it back. Callers
// defer the returned function so the move is unmade on every exit path:
//
//	defer board.Play(pos, m)()
//
// The undo panics if the moves made on top of m have not all been unmade.
func Play(pos Position, m Move) (undo func()) {
	pos.PlayMove(m)
	height := pos.Height()
	return func() {
		if h := pos.Height(); h != height {
			err := fmt.Errorf("%w: undoing %s at height %d, expected %d", ErrUnbalancedUnmake, m, h, height)
			log.Error().Err(err).Msg("position-contract-violation")
			panic(err)
		}
		pos.UnplayLastMove()
	}
}
