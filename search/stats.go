package search

import (
	"github.com/rs/zerolog"
)

// Stats counts the work done by one root search.
type Stats struct {
	Nodes     uint64
	QNodes    uint64
	Cutoffs   uint64
	TTCutoffs uint64
	// Table is the change in the transposition table counters over the
	// search.
	Table TableStats
}

func (s Stats) MarshalZerologObject(e *zerolog.Event) {
	e.Uint64("nodes", s.Nodes).
		Uint64("q-nodes", s.QNodes).
		Uint64("cutoffs", s.Cutoffs).
		Uint64("tt-cutoffs", s.TTCutoffs).
		Uint64("tt-lookups", s.Table.Lookups).
		Uint64("tt-hits", s.Table.Hits).
		Uint64("tt-stores", s.Table.Created).
		Uint64("tt-rejected", s.Table.Rejected).
		Uint64("tt-t2-collisions", s.Table.T2Collisions)
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Nodes += o.Nodes
	s.QNodes += o.QNodes
	s.Cutoffs += o.Cutoffs
	s.TTCutoffs += o.TTCutoffs
	s.Table = s.Table.add(o.Table)
}

func (t TableStats) sub(o TableStats) TableStats {
	return TableStats{
		Created:      t.Created - o.Created,
		Lookups:      t.Lookups - o.Lookups,
		Hits:         t.Hits - o.Hits,
		Rejected:     t.Rejected - o.Rejected,
		T2Collisions: t.T2Collisions - o.T2Collisions,
	}
}

func (t TableStats) add(o TableStats) TableStats {
	return TableStats{
		Created:      t.Created + o.Created,
		Lookups:      t.Lookups + o.Lookups,
		Hits:         t.Hits + o.Hits,
		Rejected:     t.Rejected + o.Rejected,
		T2Collisions: t.T2Collisions + o.T2Collisions,
	}
}
