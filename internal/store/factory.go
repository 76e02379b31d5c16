// Package store persists roster batches, records, findings and scores.
// Conversation turns are deliberately absent: session state is in-memory
// only.
package store

import (
	"rosterlens.app/engine/core/db"
)

type Stores struct {
	db *db.DB
}

func NewStores(database *db.DB) *Stores {
	return &Stores{db: database}
}

func (s *Stores) Batches() BatchStore {
	return newBatchStore(s.db)
}

func (s *Stores) Providers() ProviderStore {
	return newProviderStore(s.db)
}

func (s *Stores) Issues() IssueStore {
	return newIssueStore(s.db)
}

func (s *Stores) Scores() ScoreStore {
	return newScoreStore(s.db)
}
