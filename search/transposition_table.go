package search

import (
	"fmt"
	"math"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
)

// Bound says how a stored value relates to the true value of a node.
type Bound uint8

const (
	BoundNone  Bound = iota // must be the 0 item
	BoundExact              // value is exact
	BoundLower              // from a fail-high; true value >= value
	BoundUpper              // from a fail-low; true value <= value
)

func (b Bound) String() string {
	switch b {
	case BoundExact:
		return "exact"
	case BoundLower:
		return "lower"
	case BoundUpper:
		return "upper"
	}
	return "none"
}

const entrySize = 16

const (
	minSizePowerOf2 = 10
	maxSizePowerOf2 = 26
)

// 16 bytes (entrySize)
type TableEntry struct {
	// The full key is kept so that two positions sharing a slot are never
	// mistaken for each other.
	key        uint64
	value      int32
	depth      int16
	bound      Bound
	generation uint8
}

func (t TableEntry) valid() bool {
	return t.bound != BoundNone
}

func (t TableEntry) Value() int   { return int(t.value) }
func (t TableEntry) Depth() int   { return int(t.depth) }
func (t TableEntry) Bound() Bound { return t.bound }

// classify returns the bound of a node value given the window it was searched
// with.
func classify(value, alpha, beta int) Bound {
	switch {
	case value <= alpha:
		return BoundUpper
	case value >= beta:
		return BoundLower
	}
	return BoundExact
}

// A ReplacementPolicy decides whether an incoming entry may overwrite the
// entry currently occupying its slot.
type ReplacementPolicy interface {
	Replace(existing, incoming TableEntry, generation uint8) bool
	Name() string
}

// AlwaysReplace is latest-write-wins: every store overwrites its slot.
type AlwaysReplace struct{}

func (AlwaysReplace) Replace(existing, incoming TableEntry, generation uint8) bool { return true }
func (AlwaysReplace) Name() string                                                  { return "always" }

// DepthPreferred keeps a deeper entry for a different position, but always
// overwrites an entry for the same position.
type DepthPreferred struct{}

func (DepthPreferred) Replace(existing, incoming TableEntry, generation uint8) bool {
	return !existing.valid() || existing.key == incoming.key || incoming.depth >= existing.depth
}
func (DepthPreferred) Name() string { return "depth" }

// GenerationPreferred is DepthPreferred, except that entries left over from
// an earlier root search can always be replaced.
type GenerationPreferred struct{}

func (GenerationPreferred) Replace(existing, incoming TableEntry, generation uint8) bool {
	return existing.generation != generation || DepthPreferred{}.Replace(existing, incoming, generation)
}
func (GenerationPreferred) Name() string { return "generation" }

// PolicyFromName maps a configuration value to a policy.
func PolicyFromName(name string) (ReplacementPolicy, error) {
	switch name {
	case "", "always":
		return AlwaysReplace{}, nil
	case "depth":
		return DepthPreferred{}, nil
	case "generation":
		return GenerationPreferred{}, nil
	}
	return nil, fmt.Errorf("unknown transposition table replacement policy %q", name)
}

// TableStats are the running counters of a table.
type TableStats struct {
	Created      uint64
	Lookups      uint64
	Hits         uint64
	Rejected     uint64
	T2Collisions uint64
}

// TranspositionTable memoizes search results by position key. It is a fixed
// power-of-two array of slots; the policy decides what happens when a slot
// is taken. It is not safe for concurrent use.
type TranspositionTable struct {
	table        []TableEntry
	sizePowerOf2 int
	sizeMask     uint64
	policy       ReplacementPolicy
	generation   uint8
	stats        TableStats
}

// NewTranspositionTable allocates 2^sizePowerOf2 slots.
func NewTranspositionTable(sizePowerOf2 int, policy ReplacementPolicy) *TranspositionTable {
	if policy == nil {
		policy = AlwaysReplace{}
	}
	t := &TranspositionTable{policy: policy}
	t.Resize(sizePowerOf2)
	return t
}

// Resize reallocates the table with 2^sizePowerOf2 slots, clamped to a sane
// range, and forgets every entry.
func (t *TranspositionTable) Resize(sizePowerOf2 int) {
	sizePowerOf2 = min(max(sizePowerOf2, minSizePowerOf2), maxSizePowerOf2)
	numElems := 1 << sizePowerOf2
	if len(t.table) == numElems {
		clear(t.table)
	} else {
		t.table = make([]TableEntry, numElems)
	}
	t.sizePowerOf2 = sizePowerOf2
	t.sizeMask = uint64(numElems - 1)
	t.generation = 0
	t.stats = TableStats{}
}

// Reset sizes the table to roughly fractionOfMemory of the system memory.
func (t *TranspositionTable) Reset(fractionOfMemory float64) {
	totalMem := memory.TotalMemory()
	desiredNElems := fractionOfMemory * (float64(totalMem) / float64(entrySize))
	// find biggest power of 2 lower than desired.
	power := minSizePowerOf2
	if desiredNElems >= 1 {
		power = int(math.Log2(desiredNElems))
	}
	t.Resize(power)
	log.Info().Int("num-elems", len(t.table)).
		Float64("desired-num-elems", desiredNElems).
		Int("estimated-total-memory-bytes", len(t.table)*entrySize).
		Uint64("total-system-memory-bytes", totalMem).
		Msg("transposition-table-size")
}

// Clear forgets every entry and zeroes the counters.
func (t *TranspositionTable) Clear() {
	clear(t.table)
	t.generation = 0
	t.stats = TableStats{}
}

// NewSearch marks the start of a root search, aging existing entries.
func (t *TranspositionTable) NewSearch() {
	t.generation++
}

func (t *TranspositionTable) SetPolicy(p ReplacementPolicy) {
	t.policy = p
}

func (t *TranspositionTable) Policy() ReplacementPolicy {
	return t.policy
}

func (t *TranspositionTable) Size() int {
	return len(t.table)
}

func (t *TranspositionTable) Stats() TableStats {
	return t.stats
}

func (t *TranspositionTable) lookup(key uint64) (TableEntry, bool) {
	t.stats.Lookups++
	idx := key & t.sizeMask
	entry := t.table[idx]
	if !entry.valid() {
		return TableEntry{}, false
	}
	if entry.key != key {
		// There is another unrelated node at this position.
		t.stats.T2Collisions++
		return TableEntry{}, false
	}
	t.stats.Hits++
	return entry, true
}

func (t *TranspositionTable) store(key uint64, value, depth int, bound Bound) {
	idx := key & t.sizeMask
	incoming := TableEntry{
		key:        key,
		value:      int32(value),
		depth:      int16(depth),
		bound:      bound,
		generation: t.generation,
	}
	if !t.policy.Replace(t.table[idx], incoming, t.generation) {
		t.stats.Rejected++
		return
	}
	t.table[idx] = incoming
	t.stats.Created++
}

// Probe returns the entry stored for key, if any.
func (t *TranspositionTable) Probe(key uint64) (TableEntry, bool) {
	return t.lookup(key)
}
