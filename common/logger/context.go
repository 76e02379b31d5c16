package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs
// within a context. Business context (batch, provider, intent) flows
// through context enrichment so individual log statements stay terse.
type LogFields struct {
	BatchID    *int64  // ingestion batch being validated or queried
	ProviderID *string // provider record in scope
	TurnID     *int64  // conversation turn being answered
	Intent     *string // resolved query intent
	TaskID     *string // redis stream message ID
	Component  string  // component name, e.g. "engine.pipeline"
}

// WithLogFields enriches context with structured log fields. Multiple
// calls merge, newer non-nil/non-empty values winning.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	merged := mergeFields(GetLogFields(ctx), fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context, empty if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, next LogFields) LogFields {
	result := existing

	if next.BatchID != nil {
		result.BatchID = next.BatchID
	}
	if next.ProviderID != nil {
		result.ProviderID = next.ProviderID
	}
	if next.TurnID != nil {
		result.TurnID = next.TurnID
	}
	if next.Intent != nil {
		result.Intent = next.Intent
	}
	if next.TaskID != nil {
		result.TaskID = next.TaskID
	}
	if next.Component != "" {
		result.Component = next.Component
	}

	return result
}

// Ptr creates a pointer from a value, for setting LogFields inline.
func Ptr[T any](v T) *T {
	return &v
}

// Truncate shortens a string to maxLen characters, appending "..." when
// truncated. Useful for logging user queries and generated responses.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
