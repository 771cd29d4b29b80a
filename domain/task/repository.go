package task

import "context"

// Repository is the storage port for tasks. Implementations must:
//   - return ListAll newest CreatedAt first (an empty result is not an error)
//   - report ErrInvalidID for malformed ids before any lookup, ErrNotFound for
//     well-formed ids that match nothing
//   - re-validate every record before writing it and return *ValidationError
//     on violation
//   - wrap any other failure with ErrStorage
type Repository interface {
	ListAll(ctx context.Context) ([]Task, error)
	Create(ctx context.Context, draft Task) (Task, error)
	UpdateByID(ctx context.Context, id string, in Input) (Task, error)
	DeleteByID(ctx context.Context, id string) (Task, error)
}

// Materialize turns a draft into a storable record: it normalizes and
// re-validates the fields, then assigns a new ID and equal creation and update
// timestamps from clock.
func Materialize(draft Task, clock *Clock) (Task, error) {
	t := draft.Normalize()
	if err := t.Validate(); err != nil {
		return Task{}, err
	}

	now := clock.Now()
	t.ID = NewID()
	t.CreatedAt = now
	t.UpdatedAt = now
	return t, nil
}

// Merge applies the supplied fields of in to current, re-validates the merged
// record and advances UpdatedAt past its previous value.
func Merge(current Task, in Input, clock *Clock) (Task, error) {
	if err := Validate(in, ModeUpdate); err != nil {
		return Task{}, err
	}

	next := current.Apply(in)
	if err := next.Validate(); err != nil {
		return Task{}, err
	}

	next.UpdatedAt = clock.After(current.UpdatedAt)
	return next, nil
}
