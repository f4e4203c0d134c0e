package domain

import "time"

// Registration statuses. pending is the only non-terminal state; approve and
// reject are performed by the event's organizer or an administrator.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Registration is a participant's request to attend an event. At most one
// registration exists per (user, event) pair, enforced by a unique constraint.
type Registration struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	EventID   int64     `json:"event_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`

	// Joined columns populated by list queries.
	UserName   string     `json:"user_name,omitempty"`
	UserEmail  string     `json:"user_email,omitempty"`
	EventTitle string     `json:"event_title,omitempty"`
	EventDate  *time.Time `json:"event_date,omitempty"`

	// Certificate columns populated by the with-certificates listing.
	CertificateID       *int64     `json:"certificate_id,omitempty"`
	CertificateIssuedAt *time.Time `json:"certificate_issued_at,omitempty"`
}
