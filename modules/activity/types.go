package activity

import "context"

// ListActivityRequest is the request for reading the feed. A Limit <= 0
// returns every held entry.
type ListActivityRequest struct {
	Limit int `json:"limit"`
}

// ListActivityResponse is the response for reading the feed.
type ListActivityResponse struct {
	Entries []Entry `json:"entries"`
	Count   int     `json:"count"`
}

// ActivityPort is the read side of the activity feed used by other modules.
type ActivityPort interface {
	ListActivity(ctx context.Context, limit int) ([]Entry, error)
}
