package model

import "time"

// ConversationTurn is one question/answer exchange in a session. Turns are
// append-only: created once, never mutated, cleared on session reset.
// Session state lives in memory only.
type ConversationTurn struct {
	ID         int64
	Query      string
	Intent     Intent
	Confidence float64
	Method     Method
	Response   string
	Timestamp  time.Time
}
