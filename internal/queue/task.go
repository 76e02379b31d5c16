package queue

type TaskType string

const (
	// TaskTypeRevalidate re-runs validation and scoring for a stored batch
	// against the current clock.
	TaskTypeRevalidate TaskType = "revalidate"
)
