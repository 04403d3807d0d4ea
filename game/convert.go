package game

import (
	"github.com/notnil/chess"

	"github.com/corvidchess/corvid/board"
)

// Squares share the a1 = 0 numbering, so they convert with a plain cast.

func fromChessColor(c chess.Color) board.Color {
	switch c {
	case chess.White:
		return board.White
	case chess.Black:
		return board.Black
	}
	return board.NoColor
}

func toChessColor(c board.Color) chess.Color {
	switch c {
	case board.White:
		return chess.White
	case board.Black:
		return chess.Black
	}
	return chess.NoColor
}

func fromChessPieceType(pt chess.PieceType) board.PieceType {
	switch pt {
	case chess.Pawn:
		return board.Pawn
	case chess.Knight:
		return board.Knight
	case chess.Bishop:
		return board.Bishop
	case chess.Rook:
		return board.Rook
	case chess.Queen:
		return board.Queen
	case chess.King:
		return board.King
	}
	return board.NoPieceType
}

func toChessPieceType(pt board.PieceType) chess.PieceType {
	switch pt {
	case board.Pawn:
		return chess.Pawn
	case board.Knight:
		return chess.Knight
	case board.Bishop:
		return chess.Bishop
	case board.Rook:
		return chess.Rook
	case board.Queen:
		return chess.Queen
	case board.King:
		return chess.King
	}
	return chess.NoPieceType
}

func fromChessPiece(p chess.Piece) board.Piece {
	if p == chess.NoPiece {
		return board.NoPiece
	}
	return board.NewPiece(fromChessPieceType(p.Type()), fromChessColor(p.Color()))
}

func fromChessMove(cm *chess.Move) board.Move {
	return board.NewMove(board.Square(cm.S1()), board.Square(cm.S2()), fromChessPieceType(cm.Promo()))
}
