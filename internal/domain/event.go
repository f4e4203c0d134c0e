package domain

import "time"

// Event is organized by a user holding the organizer (or administrator) role.
// The event date must be in the future at creation time; the registration
// lifecycle re-checks it at registration and cancellation time.
type Event struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	EventDate   time.Time `json:"event_date"`
	OrganizerID int64     `json:"organizer_id"`
	CategoryID  *int64    `json:"category_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	// Joined columns populated by list/get queries.
	OrganizerName string  `json:"organizer_name,omitempty"`
	CategoryName  *string `json:"category_name,omitempty"`

	// RegistrationCount is populated by the with-registration-counts listing.
	RegistrationCount int64 `json:"registration_count,omitempty"`
}

// IsUpcoming reports whether the event date is still in the future.
func (e *Event) IsUpcoming(now time.Time) bool {
	return e.EventDate.After(now)
}
