package board

// Color is the side a piece belongs to. White is the first-moving side;
// scores are always from White's point of view.
type Color int8

const (
	NoColor Color = iota
	White
	Black
)

func (c Color) Other() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	}
	return NoColor
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return "none"
}

type PieceType int8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// PieceTypes lists the real piece types, in ascending order of value.
var PieceTypes = [...]PieceType{Pawn, Knight, Bishop, Rook, Queen, King}

func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "p"
	case Knight:
		return "n"
	case Bishop:
		return "b"
	case Rook:
		return "r"
	case Queen:
		return "q"
	case King:
		return "k"
	}
	return ""
}

// A Piece is a colored piece type. The zero value is an empty square.
type Piece struct {
	Type  PieceType
	Color Color
}

var NoPiece = Piece{}

func NewPiece(pt PieceType, c Color) Piece {
	return Piece{Type: pt, Color: c}
}

func (p Piece) Empty() bool {
	return p.Type == NoPieceType
}

// String returns the FEN letter of the piece, upper case for White.
func (p Piece) String() string {
	s := p.Type.String()
	if p.Color == White && s != "" {
		return string(s[0] - 'a' + 'A')
	}
	return s
}
