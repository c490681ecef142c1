package task

import (
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status is one task's progress record as reported to pollers. Data carries
// the result payload and is set only when the task completes.
type Status struct {
	TaskID    uuid.UUID      `json:"task_id"`
	State     TaskStatus     `json:"status"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
	UpdatedAt time.Time      `json:"-"`
}

// Registry is the concurrency-safe store of task statuses. It is owned by
// the application, constructed at startup, and injected into both the
// submission path (which seeds entries) and the pipeline (which advances
// them). Entries are never removed while the process runs.
//
// Writes for a single task come from one pipeline instance at a time, so the
// registry only needs safe concurrent map access, not per-key locking.
type Registry struct {
	mu       sync.RWMutex
	statuses map[uuid.UUID]Status
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		statuses: make(map[uuid.UUID]Status),
	}
}

// Create seeds a new processing entry for taskID. Calling Create for an
// existing task is a no-op so a submitted task's history cannot be reset.
func (r *Registry) Create(taskID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.statuses[taskID]; ok {
		return
	}
	r.statuses[taskID] = Status{
		TaskID:    taskID,
		State:     TaskStatusProcessing,
		Message:   "Started brochure generation",
		UpdatedAt: time.Now().UTC(),
	}
}

// Update advances the task's state and message, optionally attaching a
// result payload. Updates to unknown tasks and updates after a terminal
// state are ignored: once completed or failed, a status is frozen.
func (r *Registry) Update(taskID uuid.UUID, state TaskStatus, message string, data map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.statuses[taskID]
	if !ok || current.State.IsTerminal() {
		return
	}
	r.statuses[taskID] = Status{
		TaskID:    taskID,
		State:     state,
		Message:   message,
		Data:      maps.Clone(data),
		UpdatedAt: time.Now().UTC(),
	}
}

// Get returns a copy of the task's status. Unknown IDs yield a stable
// not_found status rather than an error, so polling code has no
// special-case path.
func (r *Registry) Get(taskID uuid.UUID) Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if status, ok := r.statuses[taskID]; ok {
		status.Data = maps.Clone(status.Data)
		return status
	}
	return Status{
		TaskID:  taskID,
		State:   TaskStatusNotFound,
		Message: "Task not found",
	}
}
