package dto

import "time"

type AskRequest struct {
	Query string `json:"query" binding:"required"`
}

type AskResponse struct {
	Answer     string   `json:"answer"`
	Intent     string   `json:"intent"`
	Confidence float64  `json:"confidence"`
	Method     string   `json:"method"`
	Generated  bool     `json:"generated"`
	TurnID     int64    `json:"turn_id"`
	Followups  []string `json:"followups"`
}

type TurnResponse struct {
	ID        int64     `json:"id"`
	Query     string    `json:"query"`
	Intent    string    `json:"intent"`
	Method    string    `json:"method"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

type SessionResponse struct {
	Turns []TurnResponse `json:"turns"`
}
