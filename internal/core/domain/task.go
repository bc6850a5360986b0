package domain

import (
	"errors"
	"time"
)

// TaskStatus represents the lifecycle state of a task. Any status may follow
// any other; status writes are applied verbatim without a transition guard.
type TaskStatus string

const (
	StatusPending TaskStatus = "PENDING"
	StatusDoing   TaskStatus = "DOING"
	StatusDone    TaskStatus = "DONE"
)

// ParseTaskStatus maps an external status string onto the known set.
func ParseTaskStatus(s string) (TaskStatus, bool) {
	switch TaskStatus(s) {
	case StatusPending:
		return StatusPending, true
	case StatusDoing:
		return StatusDoing, true
	case StatusDone:
		return StatusDone, true
	}
	return "", false
}

var ErrTaskNotFound = errors.New("task not found")

// Task is the core aggregate: a unit of work assigned to one or more
// responsible users.
type Task struct {
	ID           string     `json:"id" bson:"_id,omitempty"`
	Title        string     `json:"title" bson:"title"`
	Description  string     `json:"description" bson:"description"`
	Status       TaskStatus `json:"status" bson:"status"`
	CreatedAt    time.Time  `json:"created_at" bson:"created_at"`
	EndDate      time.Time  `json:"end_date,omitempty" bson:"end_date,omitempty"`
	DaysToFinish int        `json:"days_to_finish,omitempty" bson:"days_to_finish,omitempty"`
	// Responsibles holds the ids of the users in the many-to-many membership
	// set. Unordered, no duplicates.
	Responsibles []string `json:"responsibles" bson:"responsibles"`
	// CreatedBy references the creating user. Empty for admin batch-created
	// tasks where no creator is recorded.
	CreatedBy string `json:"created_by,omitempty" bson:"created_by,omitempty"`
}

// IsResponsible reports whether userID is in the responsibles set.
func (t *Task) IsResponsible(userID string) bool {
	for _, id := range t.Responsibles {
		if id == userID {
			return true
		}
	}
	return false
}

// AddResponsible adds userID to the responsibles set if not already present.
// Returns true when the membership actually changed.
func (t *Task) AddResponsible(userID string) bool {
	if t.IsResponsible(userID) {
		return false
	}
	t.Responsibles = append(t.Responsibles, userID)
	return true
}

// RemoveResponsible removes userID from the responsibles set. No-op when the
// user is not a member.
func (t *Task) RemoveResponsible(userID string) {
	for i, id := range t.Responsibles {
		if id == userID {
			t.Responsibles = append(t.Responsibles[:i], t.Responsibles[i+1:]...)
			return
		}
	}
}
