// Package pipeline wires classification, querying, and composition into
// the ask flow.
package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"rosterlens.app/engine/common/id"
	"rosterlens.app/engine/common/logger"
	"rosterlens.app/engine/internal/compose"
	"rosterlens.app/engine/internal/dataset"
	"rosterlens.app/engine/internal/model"
	"rosterlens.app/engine/internal/nlu"
)

// Answer is the full outcome of one ask.
type Answer struct {
	Text       string
	Intent     model.Intent
	Confidence float64
	Method     model.Method
	Generated  bool
	Followups  []string
}

// Pipeline answers natural-language questions about the current roster
// snapshot. Every query produces an answer and a recorded turn; model
// outages degrade quality, never availability.
type Pipeline struct {
	classifier *nlu.Classifier
	composer   *compose.Composer
	snapshots  *dataset.Store
	session    *SessionLog
	now        func() time.Time
}

func New(classifier *nlu.Classifier, composer *compose.Composer, snapshots *dataset.Store) *Pipeline {
	return &Pipeline{
		classifier: classifier,
		composer:   composer,
		snapshots:  snapshots,
		session:    NewSessionLog(),
		now:        time.Now,
	}
}

// Ask classifies the query, runs the mapped query against the current
// snapshot, composes the answer, and appends the turn to the session log.
func (p *Pipeline) Ask(ctx context.Context, query string) (Answer, model.ConversationTurn) {
	query = strings.TrimSpace(query)
	turnID := id.New()
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		TurnID:    &turnID,
		Component: "pipeline",
	})

	res := p.classifier.Classify(ctx, query)
	ctx = logger.WithLogFields(ctx, logger.LogFields{Intent: logger.Ptr(string(res.Intent))})

	result := compose.Execute(p.snapshots.Current(), res, p.now())
	text, generated := p.composer.Compose(ctx, query, result)

	turn := model.ConversationTurn{
		ID:         turnID,
		Query:      query,
		Intent:     res.Intent,
		Confidence: res.Confidence,
		Method:     res.Method,
		Response:   text,
		Timestamp:  p.now().UTC(),
	}
	p.session.Append(turn)

	slog.InfoContext(ctx, "query answered",
		"method", string(res.Method),
		"generated", generated,
		"query", logger.Truncate(query, 200))

	return Answer{
		Text:       text,
		Intent:     res.Intent,
		Confidence: res.Confidence,
		Method:     res.Method,
		Generated:  generated,
		Followups:  compose.Followups(res.Intent),
	}, turn
}

// Session exposes the conversation log.
func (p *Pipeline) Session() *SessionLog {
	return p.session
}

// SessionLog is the in-memory, append-only conversation history. It is
// process-local and cleared by Reset; nothing here is persisted.
type SessionLog struct {
	mu    sync.RWMutex
	turns []model.ConversationTurn
}

func NewSessionLog() *SessionLog {
	return &SessionLog{}
}

func (s *SessionLog) Append(turn model.ConversationTurn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, turn)
}

// Turns returns a copy of the history in arrival order.
func (s *SessionLog) Turns() []model.ConversationTurn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ConversationTurn, len(s.turns))
	copy(out, s.turns)
	return out
}

func (s *SessionLog) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns)
}

// Reset clears the history. Dataset state is untouched.
func (s *SessionLog) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
}
