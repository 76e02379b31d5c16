// Package dataset holds the in-memory view of the most recently scored
// roster. Readers always see a complete, self-consistent snapshot; a
// recompute builds a fresh snapshot off to the side and publishes it with
// a single pointer swap.
package dataset

import (
	"sync/atomic"
	"time"

	"rosterlens.app/engine/internal/model"
)

// Snapshot is one immutable scored view of a roster batch. Nothing in a
// published snapshot is ever mutated.
type Snapshot struct {
	Version    int64
	BatchID    int64
	Records    []model.ProviderRecord
	Issues     []model.Issue
	Scores     []model.ProviderScore
	Summary    model.DatasetSummary
	ComputedAt time.Time

	scoreByProvider map[string]int
}

// ScoreFor looks up a provider's score by ID.
func (s *Snapshot) ScoreFor(providerID string) (model.ProviderScore, bool) {
	i, ok := s.scoreByProvider[providerID]
	if !ok {
		return model.ProviderScore{}, false
	}
	return s.Scores[i], true
}

// Store publishes snapshots atomically. The zero Store holds no snapshot;
// Current returns nil until the first Publish.
type Store struct {
	current atomic.Pointer[Snapshot]
	version atomic.Int64
}

func NewStore() *Store {
	return &Store{}
}

// Current returns the latest published snapshot, or nil before the first
// roster load.
func (st *Store) Current() *Snapshot {
	return st.current.Load()
}

// Publish assigns the next version, indexes the scores, and swaps the
// snapshot in. The previous snapshot stays valid for readers still
// holding it.
func (st *Store) Publish(snap *Snapshot) *Snapshot {
	snap.Version = st.version.Add(1)
	snap.ComputedAt = time.Now().UTC()
	snap.scoreByProvider = make(map[string]int, len(snap.Scores))
	for i, sc := range snap.Scores {
		snap.scoreByProvider[sc.ProviderID] = i
	}
	st.current.Store(snap)
	return snap
}
