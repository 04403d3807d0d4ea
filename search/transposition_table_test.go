package search

import (
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	is := is.New(t)
	is.Equal(classify(-5, -5, 5), BoundUpper)
	is.Equal(classify(-50, -5, 5), BoundUpper)
	is.Equal(classify(5, -5, 5), BoundLower)
	is.Equal(classify(50, -5, 5), BoundLower)
	is.Equal(classify(0, -5, 5), BoundExact)
	is.Equal(classify(0, -Infinity, Infinity), BoundExact)
	is.Equal(BoundLower.String(), "lower")
	is.Equal(BoundNone.String(), "none")
}

func TestStoreAndLookup(t *testing.T) {
	is := is.New(t)
	tt := NewTranspositionTable(10, nil)
	is.Equal(tt.Size(), 1<<10)
	is.Equal(tt.Policy().Name(), "always")

	_, ok := tt.lookup(42)
	is.True(!ok)

	tt.store(42, -317, 3, BoundUpper)
	e, ok := tt.Probe(42)
	is.True(ok)
	is.Equal(e.Value(), -317)
	is.Equal(e.Depth(), 3)
	is.Equal(e.Bound(), BoundUpper)

	// Same slot, different position.
	_, ok = tt.lookup(42 + 1<<10)
	is.True(!ok)

	st := tt.Stats()
	is.Equal(st.Created, uint64(1))
	is.Equal(st.Lookups, uint64(3))
	is.Equal(st.Hits, uint64(1))
	is.Equal(st.T2Collisions, uint64(1))

	tt.Clear()
	_, ok = tt.lookup(42)
	is.True(!ok)
	is.Equal(tt.Stats().Created, uint64(0))
}

func TestMateScoresFitEntries(t *testing.T) {
	is := is.New(t)
	tt := NewTranspositionTable(10, nil)
	tt.store(7, -99998, 1, BoundExact)
	e, ok := tt.lookup(7)
	is.True(ok)
	is.Equal(e.Value(), -99998)
}

func TestAlwaysReplace(t *testing.T) {
	is := is.New(t)
	tt := NewTranspositionTable(10, AlwaysReplace{})
	tt.store(5, 100, 6, BoundExact)
	tt.store(5+1<<10, 7, 1, BoundLower)

	_, ok := tt.lookup(5)
	is.True(!ok)
	e, ok := tt.lookup(5 + 1<<10)
	is.True(ok)
	is.Equal(e.Value(), 7)
}

func TestDepthPreferred(t *testing.T) {
	is := is.New(t)
	tt := NewTranspositionTable(10, DepthPreferred{})
	tt.store(5, 100, 6, BoundExact)

	// A shallower entry for another position is turned away.
	tt.store(5+1<<10, 7, 1, BoundLower)
	e, ok := tt.lookup(5)
	is.True(ok)
	is.Equal(e.Value(), 100)
	is.Equal(tt.Stats().Rejected, uint64(1))

	// The same position is always refreshed.
	tt.store(5, 90, 2, BoundUpper)
	e, _ = tt.lookup(5)
	is.Equal(e.Value(), 90)
	is.Equal(e.Depth(), 2)

	// So is an equally deep entry for another position.
	tt.store(5+1<<10, 8, 2, BoundExact)
	e, ok = tt.lookup(5 + 1<<10)
	is.True(ok)
	is.Equal(e.Value(), 8)
}

func TestGenerationPreferred(t *testing.T) {
	is := is.New(t)
	tt := NewTranspositionTable(10, GenerationPreferred{})
	tt.NewSearch()
	tt.store(5, 100, 6, BoundExact)
	tt.store(5+1<<10, 7, 1, BoundLower)
	_, ok := tt.lookup(5)
	is.True(ok)

	tt.NewSearch()
	tt.store(5+1<<10, 7, 1, BoundLower)
	_, ok = tt.lookup(5)
	is.True(!ok)
	e, ok := tt.lookup(5 + 1<<10)
	is.True(ok)
	is.Equal(e.Depth(), 1)
}

func TestPolicyFromName(t *testing.T) {
	for name, want := range map[string]string{
		"":           "always",
		"always":     "always",
		"depth":      "depth",
		"generation": "generation",
	} {
		p, err := PolicyFromName(name)
		assert.NoError(t, err)
		assert.Equal(t, want, p.Name())
	}
	_, err := PolicyFromName("bucket")
	assert.Error(t, err)
}

func TestResizeClamps(t *testing.T) {
	is := is.New(t)
	tt := NewTranspositionTable(2, DepthPreferred{})
	is.Equal(tt.Size(), 1<<minSizePowerOf2)

	tt.store(3, 1, 1, BoundExact)
	tt.Resize(12)
	is.Equal(tt.Size(), 1<<12)
	_, ok := tt.lookup(3)
	is.True(!ok)
	is.Equal(tt.Policy().Name(), "depth")

	tt.Reset(1e-15)
	is.Equal(tt.Size(), 1<<minSizePowerOf2)

	tt.SetPolicy(GenerationPreferred{})
	is.Equal(tt.Policy().Name(), "generation")
}
