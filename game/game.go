// Package game is the rules engine behind board.Position. It keeps a stack of
// immutable github.com/notnil/chess positions, one per move played, so that
// unplaying a move restores the previous position exactly.
package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/notnil/chess"
	"github.com/rs/zerolog/log"

	"github.com/corvidchess/corvid/board"
)

const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var ErrBadFEN = errors.New("bad fen")

type frame struct {
	pos       *chess.Position
	move      board.Move
	moves     []*chess.Move
	halfMoves int
	key       string
	// unswapped is the frame this one replaced when the side to move was
	// handed over without a move.
	unswapped *frame
}

func (f *frame) validMoves() []*chess.Move {
	if f.moves == nil {
		f.moves = f.pos.ValidMoves()
	}
	return f.moves
}

// canonicalKey is the FEN without the move counters.
func (f *frame) canonicalKey() string {
	if f.key == "" {
		fields := strings.Fields(f.pos.String())
		f.key = strings.Join(fields[:4], " ")
	}
	return f.key
}

func (f *frame) find(m board.Move) *chess.Move {
	for _, cm := range f.validMoves() {
		if cm.S1() == chess.Square(m.From) && cm.S2() == chess.Square(m.To) &&
			cm.Promo() == toChessPieceType(m.Promo) {
			return cm
		}
	}
	return nil
}

// Game is a chess game from some starting position. It implements
// board.Position. A Game is not safe for concurrent use.
type Game struct {
	history []*frame
}

var _ board.Position = (*Game)(nil)

// NewGame returns a game at the standard starting position.
func NewGame() *Game {
	g, err := FromFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return g
}

// FromFEN loads a position. The move counters may be left off.
func FromFEN(fen string) (*Game, error) {
	fields := strings.Fields(fen)
	switch len(fields) {
	case 4:
		fields = append(fields, "0", "1")
	case 6:
	default:
		return nil, fmt.Errorf("%w: %q has %d fields", ErrBadFEN, fen, len(fields))
	}
	halfMoves, err := strconv.Atoi(fields[4])
	if err != nil {
		return nil, fmt.Errorf("%w: half-move clock %q", ErrBadFEN, fields[4])
	}
	opt, err := chess.FEN(strings.Join(fields, " "))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadFEN, err)
	}
	pos := chess.NewGame(opt).Position()
	return &Game{history: []*frame{{pos: pos, halfMoves: halfMoves}}}, nil
}

func (g *Game) top() *frame {
	return g.history[len(g.history)-1]
}

func (g *Game) LegalMoves() []board.Move {
	cms := g.top().validMoves()
	moves := make([]board.Move, len(cms))
	for i, cm := range cms {
		moves[i] = fromChessMove(cm)
	}
	return moves
}

func (g *Game) PlayMove(m board.Move) {
	f := g.top()
	cm := f.find(m)
	if cm == nil {
		err := fmt.Errorf("%w: %s in %s", board.ErrIllegalMove, m, f.pos)
		log.Error().Err(err).Msg("position-contract-violation")
		panic(err)
	}
	halfMoves := f.halfMoves + 1
	if f.pos.Board().Piece(cm.S1()).Type() == chess.Pawn ||
		cm.HasTag(chess.Capture) || cm.HasTag(chess.EnPassant) {
		halfMoves = 0
	}
	g.history = append(g.history, &frame{pos: f.pos.Update(cm), move: m, halfMoves: halfMoves})
}

func (g *Game) UnplayLastMove() {
	if len(g.history) < 2 {
		err := fmt.Errorf("%w: no move to unplay", board.ErrUnbalancedUnmake)
		log.Error().Err(err).Msg("position-contract-violation")
		panic(err)
	}
	g.history[len(g.history)-1] = nil
	g.history = g.history[:len(g.history)-1]
}

func (g *Game) Height() int {
	return len(g.history) - 1
}

func (g *Game) SideToMove() board.Color {
	return fromChessColor(g.top().pos.Turn())
}

func (g *Game) SetSideToMove(c board.Color) {
	f := g.top()
	if fromChessColor(f.pos.Turn()) == c {
		return
	}
	if f.unswapped != nil {
		g.history[len(g.history)-1] = f.unswapped
		return
	}
	g.history[len(g.history)-1] = &frame{pos: swapTurn(f.pos), move: f.move, halfMoves: f.halfMoves, unswapped: f}
}

// swapTurn returns pos with the other side to move and no en-passant target.
func swapTurn(pos *chess.Position) *chess.Position {
	fields := strings.Fields(pos.String())
	if fields[1] == "w" {
		fields[1] = "b"
	} else {
		fields[1] = "w"
	}
	fields[3] = "-"
	opt, err := chess.FEN(strings.Join(fields, " "))
	if err != nil {
		// The fields came out of a valid position.
		panic(fmt.Errorf("%w: %w", ErrBadFEN, err))
	}
	return chess.NewGame(opt).Position()
}

func (g *Game) Status() board.Status {
	f := g.top()
	switch f.pos.Status() {
	case chess.Checkmate:
		return board.Checkmate
	case chess.Stalemate:
		return board.Stalemate
	}
	if insufficientMaterial(g) {
		return board.InsufficientMaterial
	}
	if f.halfMoves >= 150 {
		return board.SeventyFiveMoveRule
	}
	if g.repetitions() >= 5 {
		return board.FivefoldRepetition
	}
	return board.Ongoing
}

// repetitions counts how often the current position occurred since the last
// pawn move or capture, the current occurrence included.
func (g *Game) repetitions() int {
	f := g.top()
	// Five occurrences need at least sixteen reversible plies.
	if f.halfMoves < 16 {
		return 1
	}
	key := f.canonicalKey()
	count := 1
	last := len(g.history) - 1
	for i := last - 2; i >= 0 && last-i <= f.halfMoves; i -= 2 {
		if g.history[i].canonicalKey() == key {
			count++
		}
	}
	return count
}

func (g *Game) PieceAt(sq board.Square) board.Piece {
	return fromChessPiece(g.top().pos.Board().Piece(chess.Square(sq)))
}

func (g *Game) KingSquare(c board.Color) board.Square {
	b := g.top().pos.Board()
	want := chess.NewPiece(chess.King, toChessColor(c))
	for sq := board.A1; sq <= board.H8; sq++ {
		if b.Piece(chess.Square(sq)) == want {
			return sq
		}
	}
	return board.NoSquare
}

func (g *Game) CastlingRights() board.CastlingRights {
	cr := g.top().pos.CastleRights()
	var rights board.CastlingRights
	if cr.CanCastle(chess.White, chess.KingSide) {
		rights |= board.WhiteKingSide
	}
	if cr.CanCastle(chess.White, chess.QueenSide) {
		rights |= board.WhiteQueenSide
	}
	if cr.CanCastle(chess.Black, chess.KingSide) {
		rights |= board.BlackKingSide
	}
	if cr.CanCastle(chess.Black, chess.QueenSide) {
		rights |= board.BlackQueenSide
	}
	return rights
}

func (g *Game) EnPassantSquare() board.Square {
	sq := g.top().pos.EnPassantSquare()
	if sq == chess.NoSquare {
		return board.NoSquare
	}
	return board.Square(sq)
}

func (g *Game) IsCapture(m board.Move) bool {
	cm := g.top().find(m)
	return cm != nil && (cm.HasTag(chess.Capture) || cm.HasTag(chess.EnPassant))
}

func (g *Game) IsEnPassant(m board.Move) bool {
	cm := g.top().find(m)
	return cm != nil && cm.HasTag(chess.EnPassant)
}

func (g *Game) GivesCheck(m board.Move) bool {
	cm := g.top().find(m)
	return cm != nil && cm.HasTag(chess.Check)
}

// FEN returns the current position in Forsyth-Edwards notation.
func (g *Game) FEN() string {
	f := g.top()
	fields := strings.Fields(f.pos.String())
	fields[4] = strconv.Itoa(f.halfMoves)
	return strings.Join(fields, " ")
}

// CanonicalKey identifies the position by placement, side to move, castling
// rights and en-passant target, leaving out the move counters.
func (g *Game) CanonicalKey() string {
	return g.top().canonicalKey()
}

// ParseSAN parses a move in standard algebraic notation in the current
// position.
func (g *Game) ParseSAN(san string) (board.Move, error) {
	cm, err := chess.AlgebraicNotation{}.Decode(g.top().pos, san)
	if err != nil {
		return board.NullMove, fmt.Errorf("%w: %q: %w", board.ErrBadMove, san, err)
	}
	m := fromChessMove(cm)
	if g.top().find(m) == nil {
		return board.NullMove, fmt.Errorf("%w: %q", board.ErrIllegalMove, san)
	}
	return m, nil
}

// ParseUCI parses a move in UCI notation and checks that it is legal.
func (g *Game) ParseUCI(s string) (board.Move, error) {
	m, err := board.ParseUCI(s)
	if err != nil {
		return board.NullMove, err
	}
	if g.top().find(m) == nil {
		return board.NullMove, fmt.Errorf("%w: %q", board.ErrIllegalMove, s)
	}
	return m, nil
}

// ParseMove accepts either UCI or SAN.
func (g *Game) ParseMove(s string) (board.Move, error) {
	if m, err := g.ParseUCI(s); err == nil {
		return m, nil
	}
	return g.ParseSAN(s)
}

// SAN returns m in standard algebraic notation for the current position.
func (g *Game) SAN(m board.Move) string {
	cm := g.top().find(m)
	if cm == nil {
		return m.String()
	}
	return chess.AlgebraicNotation{}.Encode(g.top().pos, cm)
}

// PlaySAN plays a move given in SAN or UCI form, returning an error instead of
// panicking when the move is not legal.
func (g *Game) PlaySAN(s string) error {
	m, err := g.ParseMove(s)
	if err != nil {
		return err
	}
	g.PlayMove(m)
	return nil
}

// MoveHistory returns the moves played since the game was loaded.
func (g *Game) MoveHistory() []board.Move {
	moves := make([]board.Move, 0, len(g.history)-1)
	for _, f := range g.history[1:] {
		moves = append(moves, f.move)
	}
	return moves
}

// Copy returns an independent game at the current position, without the
// move history.
func (g *Game) Copy() *Game {
	f := g.top()
	return &Game{history: []*frame{{pos: f.pos, halfMoves: f.halfMoves}}}
}

// String draws the board.
func (g *Game) String() string {
	return g.top().pos.Board().Draw()
}
