// Package book is the opening book: for a position met in a known opening
// line it proposes the moves played from it, weighted by how many lines
// continue with each.
package book

import (
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"lukechampine.com/frand"

	"github.com/corvidchess/corvid/board"
	"github.com/corvidchess/corvid/game"
)

//go:embed openings.csv
var defaultOpenings string

const movesColumn = "moves"

var (
	ErrNoMovesColumn = errors.New("opening book has no moves column")
	ErrNoBookMove    = errors.New("no book move")
)

type sanCount struct {
	san   string
	count int
}

// Candidate is a book move for a position with its weight.
type Candidate struct {
	Move   board.Move
	SAN    string
	Weight int
}

// Book maps positions to the SAN moves played from them. Positions are
// keyed by placement, side to move, castling rights and en-passant target,
// so move counters never stop a transposed position from matching. A Book
// is read-only once loaded and safe for concurrent use.
type Book struct {
	entries map[uint64][]sanCount
	lines   int
}

func key(g *game.Game) uint64 {
	return xxhash.Sum64String(g.CanonicalKey())
}

// Load builds a book from CSV with a header row. Each value of the moves
// column is a space-separated SAN line from the standard starting position.
// Every move of a line is counted for the position before it; a line stops
// at the first move that cannot be played.
func Load(r io.Reader) (*Book, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading opening book header: %w", err)
	}
	col := lo.IndexOf(lo.Map(header, func(h string, _ int) string {
		return strings.ToLower(strings.TrimSpace(h))
	}), movesColumn)
	if col < 0 {
		return nil, ErrNoMovesColumn
	}

	b := &Book{entries: make(map[uint64][]sanCount)}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading opening book: %w", err)
		}
		if col >= len(record) {
			continue
		}
		b.addLine(strings.Fields(record[col]))
	}
	log.Debug().Int("lines", b.lines).Int("positions", len(b.entries)).Msg("opening-book-loaded")
	return b, nil
}

func (b *Book) addLine(sans []string) {
	if len(sans) == 0 {
		return
	}
	b.lines++
	g := game.NewGame()
	for _, san := range sans {
		k := key(g)
		b.count(k, san)
		if err := g.PlaySAN(san); err != nil {
			log.Debug().Err(err).Str("san", san).Msg("opening-line-stopped")
			return
		}
	}
}

func (b *Book) count(k uint64, san string) {
	moves := b.entries[k]
	for i := range moves {
		if moves[i].san == san {
			moves[i].count++
			return
		}
	}
	b.entries[k] = append(moves, sanCount{san: san, count: 1})
}

// LoadFile loads a book from a CSV file.
func LoadFile(path string) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

var (
	defaultBook     *Book
	defaultBookErr  error
	defaultBookOnce sync.Once
)

// Default returns the built-in book. It is built on first use.
func Default() (*Book, error) {
	defaultBookOnce.Do(func() {
		defaultBook, defaultBookErr = Load(strings.NewReader(defaultOpenings))
	})
	return defaultBook, defaultBookErr
}

// Positions is the number of distinct positions in the book.
func (b *Book) Positions() int {
	return len(b.entries)
}

// Lines is the number of opening lines the book was built from.
func (b *Book) Lines() int {
	return b.lines
}

// Candidates returns the book moves for the current position of g in the
// order they were first seen. Moves that cannot be played here are skipped.
func (b *Book) Candidates(g *game.Game) []Candidate {
	moves := b.entries[key(g)]
	cands := make([]Candidate, 0, len(moves))
	for _, sc := range moves {
		m, err := g.ParseSAN(sc.san)
		if err != nil {
			log.Debug().Err(err).Str("san", sc.san).Msg("skipping-book-move")
			continue
		}
		cands = append(cands, Candidate{Move: m, SAN: sc.san, Weight: sc.count})
	}
	return cands
}

// Pick chooses one of the candidates at random, in proportion to their
// weights.
func (b *Book) Pick(g *game.Game) (board.Move, bool) {
	cands := b.Candidates(g)
	if len(cands) == 0 {
		return board.NullMove, false
	}
	total := lo.SumBy(cands, func(c Candidate) int { return c.Weight })
	r := frand.Intn(total)
	for _, c := range cands {
		if r < c.Weight {
			return c.Move, true
		}
		r -= c.Weight
	}
	return cands[len(cands)-1].Move, true
}
