package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type TaskStatus string

const (
	StatusToDo       TaskStatus = "to-do"
	StatusInProgress TaskStatus = "in-progress"
	StatusBlocked    TaskStatus = "blocked"
	StatusDone       TaskStatus = "done"
)

var TaskStatuses = []TaskStatus{StatusToDo, StatusInProgress, StatusBlocked, StatusDone}

func (s TaskStatus) Valid() bool {
	for _, st := range TaskStatuses {
		if s == st {
			return true
		}
	}
	return false
}

type Task struct {
	ID          string       `json:"_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	AssignedTo  AssigneeList `json:"assignedTo"`
	FinishedAt  *time.Time   `json:"finishedAt"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// AssigneeList decodes from either a single JSON string or an array of strings.
type AssigneeList []string

func (a *AssigneeList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var one string
		if err := json.Unmarshal(b, &one); err != nil {
			return err
		}
		if one == "" {
			*a = AssigneeList{}
			return nil
		}
		*a = AssigneeList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return fmt.Errorf("assignedTo must be a string or an array of strings")
	}
	*a = AssigneeList(many)
	return nil
}

func (a AssigneeList) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(a))
}

func (a AssigneeList) valid() bool {
	if len(a) == 0 {
		return false
	}
	for _, id := range a {
		if strings.TrimSpace(id) == "" {
			return false
		}
	}
	return true
}

// OptionalTime decodes a timestamp that may also be null, "" or "null".
type OptionalTime struct {
	Time *time.Time
}

func (o *OptionalTime) UnmarshalJSON(b []byte) error {
	switch strings.TrimSpace(string(b)) {
	case "null", `""`, `"null"`:
		o.Time = nil
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(b, &t); err != nil {
		return fmt.Errorf("finishedAt must be an RFC 3339 timestamp")
	}
	o.Time = &t
	return nil
}

// NewTaskInput is the decoded body of a task creation request.
type NewTaskInput struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	AssignedTo  AssigneeList `json:"assignedTo"`
	FinishedAt  OptionalTime `json:"finishedAt"`
}

// Build validates the input and returns a task ready to persist.
func (in NewTaskInput) Build(id string, now time.Time) (*Task, error) {
	v := NewValidator()
	v.CheckRequired(in.Title, "title")
	v.Check(in.Status != "", "status", "must be provided")
	v.Check(in.Status.Valid(), "status", statusMessage())
	v.Check(len(in.AssignedTo) > 0, "assignedTo", "must be provided")
	v.Check(in.AssignedTo.valid(), "assignedTo", "must not contain empty ids")
	if err := v.Err(); err != nil {
		return nil, err
	}

	return &Task{
		ID:          id,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Status:      in.Status,
		AssignedTo:  in.AssignedTo,
		FinishedAt:  finishedAtFor(in.Status, in.FinishedAt.Time, now),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// TaskPatch is the decoded body of a partial task update. Nil fields are left alone.
type TaskPatch struct {
	Title       *string       `json:"title"`
	Description *string       `json:"description"`
	Status      *TaskStatus   `json:"status"`
	AssignedTo  *AssigneeList `json:"assignedTo"`
	FinishedAt  OptionalTime  `json:"finishedAt"`
}

// TaskUpdate is a resolved patch. FinishedAt is only written when SetFinishedAt is true.
type TaskUpdate struct {
	Title         *string
	Description   *string
	Status        *TaskStatus
	AssignedTo    AssigneeList
	SetFinishedAt bool
	FinishedAt    *time.Time
	UpdatedAt     time.Time
}

// Resolve validates the patch and computes finishedAt from status.
// A non-null finishedAt without a status is rejected: it could only be
// checked against the stored status, and updates are applied blind.
func (p TaskPatch) Resolve(now time.Time) (TaskUpdate, error) {
	v := NewValidator()
	if p.Title != nil {
		v.CheckRequired(*p.Title, "title")
	}
	if p.Status != nil {
		v.Check(p.Status.Valid(), "status", statusMessage())
	}
	if p.AssignedTo != nil {
		v.Check(p.AssignedTo.valid(), "assignedTo", "must be a non-empty list of ids")
	}
	v.Check(p.Status != nil || p.FinishedAt.Time == nil, "finishedAt", "can only be set together with status")
	if err := v.Err(); err != nil {
		return TaskUpdate{}, err
	}

	u := TaskUpdate{
		Description: p.Description,
		Status:      p.Status,
		UpdatedAt:   now,
	}
	if p.Title != nil {
		t := strings.TrimSpace(*p.Title)
		u.Title = &t
	}
	if p.AssignedTo != nil {
		u.AssignedTo = *p.AssignedTo
	}
	if p.Status != nil {
		u.SetFinishedAt = true
		u.FinishedAt = finishedAtFor(*p.Status, p.FinishedAt.Time, now)
	}
	return u, nil
}

// Apply merges the update into t. Stores without native partial updates use it.
func (u TaskUpdate) Apply(t *Task) {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	if u.AssignedTo != nil {
		t.AssignedTo = u.AssignedTo
	}
	if u.SetFinishedAt {
		t.FinishedAt = u.FinishedAt
	}
	t.UpdatedAt = u.UpdatedAt
}

// finishedAtFor is set iff status is done.
func finishedAtFor(status TaskStatus, supplied *time.Time, now time.Time) *time.Time {
	if status != StatusDone {
		return nil
	}
	if supplied != nil {
		t := *supplied
		return &t
	}
	t := now
	return &t
}

func statusMessage() string {
	names := make([]string, len(TaskStatuses))
	for i, s := range TaskStatuses {
		names[i] = string(s)
	}
	return "must be one of " + strings.Join(names, ", ")
}
