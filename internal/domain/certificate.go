package domain

import "time"

// Certificate is a proof-of-participation record tied 1:1 to a registration.
// The unique constraint on registration_id is the authoritative guard against
// double issuance; the service-level check only produces a friendlier error.
type Certificate struct {
	ID             int64     `json:"id"`
	RegistrationID int64     `json:"registration_id"`
	IssuedAt       time.Time `json:"issued_at"`

	// Joined columns populated by read queries via the registration.
	UserID     int64      `json:"user_id,omitempty"`
	EventID    int64      `json:"event_id,omitempty"`
	UserName   string     `json:"user_name,omitempty"`
	EventTitle string     `json:"event_title,omitempty"`
	EventDate  *time.Time `json:"event_date,omitempty"`
}
