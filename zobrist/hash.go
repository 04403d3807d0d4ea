package zobrist

import (
	"lukechampine.com/frand"

	"github.com/corvidchess/corvid/board"
)

const bignum = 1<<63 - 2

// generate a zobrist hash for a chess position. Only placement, side to move,
// castling rights and the en-passant file take part; move counters do not.
// https://en.wikipedia.org/wiki/Zobrist_hashing
type Zobrist struct {
	blackToMove uint64

	// posTable is indexed by square, then by colour*8 + piece type.
	posTable       [board.NumSquares][24]uint64
	castlingTable  [16]uint64
	enPassantTable [8]uint64
}

// New returns a Zobrist hasher with freshly drawn random keys. Keys differ
// between hashers, so only compare hashes made by the same one.
func New() *Zobrist {
	z := &Zobrist{}
	z.Initialize()
	return z
}

func (z *Zobrist) Initialize() {
	for i := range z.posTable {
		for j := range z.posTable[i] {
			z.posTable[i][j] = frand.Uint64n(bignum) + 1
		}
	}
	for i := range z.castlingTable {
		z.castlingTable[i] = frand.Uint64n(bignum) + 1
	}
	for i := range z.enPassantTable {
		z.enPassantTable[i] = frand.Uint64n(bignum) + 1
	}
	z.blackToMove = frand.Uint64n(bignum) + 1
}

func pieceIndex(p board.Piece) int {
	return int(p.Color)*8 + int(p.Type)
}

// Hash computes the key of pos from scratch.
func (z *Zobrist) Hash(pos board.Position) uint64 {
	key := uint64(0)
	for sq := board.A1; sq <= board.H8; sq++ {
		p := pos.PieceAt(sq)
		if p.Empty() {
			continue
		}
		key ^= z.posTable[sq][pieceIndex(p)]
	}
	key ^= z.castlingTable[pos.CastlingRights()&board.AllCastlingRights]
	if ep := pos.EnPassantSquare(); ep.Valid() {
		key ^= z.enPassantTable[ep.File()]
	}
	if pos.SideToMove() == board.Black {
		key ^= z.blackToMove
	}
	return key
}
