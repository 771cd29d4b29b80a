package task

import (
	"encoding/json"
	"strings"
	"time"
)

// Status represents the state of a task.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Toggle returns the opposite status. Both transitions are always allowed.
func (s Status) Toggle() Status {
	if s == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}

// Field length limits, counted in characters after trimming.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
)

// Task is the core domain entity representing a todo item.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Optional is a string field of a JSON request body that remembers whether
// the key was present. An explicit null counts as present and empty, so a
// null title is rejected like a blank one instead of being skipped.
type Optional struct {
	Set   bool
	Value string
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Optional) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = ""
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// Ptr returns the value as an Input field: nil when the key was absent.
func (o Optional) Ptr() *string {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}

// Input carries candidate field values for a create or update request.
// A nil field was not supplied by the caller.
type Input struct {
	Title       *string
	Description *string
	Status      *string
}

// New builds a task draft from raw create input. Defaults are applied
// (empty description, Pending status) and every violated field is reported in
// a single *ValidationError. The draft has no ID or timestamps; those are
// assigned by the repository.
func New(in Input) (Task, error) {
	if err := Validate(in, ModeCreate); err != nil {
		return Task{}, err
	}

	t := Task{Status: StatusPending}
	return t.Apply(in), nil
}

// Apply returns a copy of t with every supplied field of in merged in.
// Supplied strings are trimmed; unsupplied fields keep their current value.
func (t Task) Apply(in Input) Task {
	if in.Title != nil {
		t.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		t.Description = strings.TrimSpace(*in.Description)
	}
	if in.Status != nil {
		t.Status = Status(*in.Status)
	}
	return t
}

// Normalize trims the text fields and defaults an empty status to Pending.
func (t Task) Normalize() Task {
	t.Title = strings.TrimSpace(t.Title)
	t.Description = strings.TrimSpace(t.Description)
	if t.Status == "" {
		t.Status = StatusPending
	}
	return t
}

// Validate checks the stored-record invariants: title and description within
// bounds and a known status. It reports the same violation kinds as the
// request rules so callers see one error shape.
func (t Task) Validate() error {
	title := t.Title
	description := t.Description
	status := string(t.Status)
	return Validate(Input{Title: &title, Description: &description, Status: &status}, ModeCreate)
}

// Input returns the task's mutable fields as a fully supplied Input.
func (t Task) Input() Input {
	title := t.Title
	description := t.Description
	status := string(t.Status)
	return Input{Title: &title, Description: &description, Status: &status}
}
