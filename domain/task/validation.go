package task

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Mode selects how the rules treat missing fields.
type Mode int

const (
	// ModeCreate evaluates every field; title is required.
	ModeCreate Mode = iota
	// ModeUpdate evaluates supplied fields only; a supplied title may not be blank.
	ModeUpdate
)

// Rule inspects one aspect of an input and returns at most one finding.
type Rule func(in Input, mode Mode) *Violation

// Rules is the ordered rule set. The order fixes the order of reported
// violations: title, description, status.
var Rules = []Rule{
	TitlePresence,
	TitleLength,
	DescriptionLength,
	StatusMembership,
}

// Check runs every rule and returns all findings.
func Check(in Input, mode Mode) []Violation {
	var found []Violation
	for _, rule := range Rules {
		if v := rule(in, mode); v != nil {
			found = append(found, *v)
		}
	}
	return found
}

// Validate runs Check and wraps any findings in a *ValidationError.
func Validate(in Input, mode Mode) error {
	if violations := Check(in, mode); len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

// TitlePresence fails when the title is missing or blank on create, or
// supplied but blank on update.
func TitlePresence(in Input, mode Mode) *Violation {
	switch {
	case mode == ModeCreate && (in.Title == nil || strings.TrimSpace(*in.Title) == ""):
		return &Violation{Field: "title", Kind: KindRequiredField, Message: "Title is required"}
	case mode == ModeUpdate && in.Title != nil && strings.TrimSpace(*in.Title) == "":
		return &Violation{Field: "title", Kind: KindRequiredField, Message: "Title cannot be empty"}
	}
	return nil
}

// TitleLength fails when the trimmed title is longer than MaxTitleLength.
func TitleLength(in Input, _ Mode) *Violation {
	if in.Title == nil {
		return nil
	}
	if utf8.RuneCountInString(strings.TrimSpace(*in.Title)) > MaxTitleLength {
		return &Violation{Field: "title", Kind: KindLengthExceeded, Message: "Title must be between 1 and 100 characters"}
	}
	return nil
}

// DescriptionLength fails when the trimmed description is longer than
// MaxDescriptionLength.
func DescriptionLength(in Input, _ Mode) *Violation {
	if in.Description == nil {
		return nil
	}
	if utf8.RuneCountInString(strings.TrimSpace(*in.Description)) > MaxDescriptionLength {
		return &Violation{Field: "description", Kind: KindLengthExceeded, Message: "Description cannot exceed 500 characters"}
	}
	return nil
}

// StatusMembership fails when a supplied status is not Pending or Completed.
func StatusMembership(in Input, _ Mode) *Violation {
	if in.Status == nil {
		return nil
	}
	if !Status(*in.Status).Valid() {
		return &Violation{Field: "status", Kind: KindInvalidEnum, Message: "Status must be either Pending or Completed"}
	}
	return nil
}

// ParseID checks that raw is a canonical UUID and returns it in lowercase
// form. Malformed ids yield ErrInvalidID.
func ParseID(raw string) (string, error) {
	if len(raw) != 36 {
		return "", ErrInvalidID
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", ErrInvalidID
	}
	return id.String(), nil
}

// NewID returns a fresh task identifier.
func NewID() string {
	return uuid.NewString()
}
