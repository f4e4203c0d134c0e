package domain

import "time"

// Category groups events. Names are unique case-insensitively.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`

	// EventCount is populated by the with-event-counts listing only.
	EventCount int64 `json:"event_count,omitempty"`
}
