package task

import (
	"context"

	"github.com/google/uuid"
)

// TaskStatus represents the current state of a task
type TaskStatus string

// Possible task status values. These are also the wire values returned by
// the status endpoint, so they stay lowercase.
const (
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"

	// TaskStatusNotFound is the sentinel state reported for unknown task
	// IDs. It is never stored in the registry.
	TaskStatusNotFound TaskStatus = "not_found"
)

// Task type constants
const (
	// TaskTypeBrochureGeneration represents the task type for the brochure
	// generation pipeline
	TaskTypeBrochureGeneration = "brochure_generation"
)

// Task represents a unit of background work to be processed
type Task interface {
	// ID returns the task's unique identifier
	ID() uuid.UUID

	// Type returns the task type identifier
	Type() string

	// Payload returns the task data as a byte slice
	Payload() []byte

	// Status returns the current task status
	Status() TaskStatus

	// Execute runs the task logic
	Execute(ctx context.Context) error
}

// IsTerminal reports whether s is a state a task never leaves.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}
