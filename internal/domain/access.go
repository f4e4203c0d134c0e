package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Access types recorded in the access log.
const (
	AccessTypeRegistration = "registration"
	AccessTypeCertificate  = "certificate"
)

// SentinelEventID marks access entries that are not scoped to an event,
// such as login and logout.
const SentinelEventID int64 = 0

// AccessDetails carries request metadata attached to an access entry.
type AccessDetails struct {
	IP     string `bson:"ip" json:"ip"`
	Device string `bson:"device" json:"device"`
	Status string `bson:"status" json:"status"`
}

// AccessEntry is an append-only audit document in the document store. It has
// no referential integrity against the relational store and may outlive the
// user or event it references.
type AccessEntry struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID     int64              `bson:"user_id" json:"user_id"`
	EventID    int64              `bson:"event_id" json:"event_id"`
	AccessType string             `bson:"access_type" json:"access_type"`
	Timestamp  time.Time          `bson:"timestamp" json:"timestamp"`
	Details    AccessDetails      `bson:"details" json:"details"`
}

// UserRef is the user half of an enriched access entry join.
type UserRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// EventRef is the event half of an enriched access entry join.
type EventRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// EnrichedAccessEntry is an access entry joined against the relational store.
// User and Event are nil when the referenced row no longer exists.
type EnrichedAccessEntry struct {
	AccessEntry
	User  *UserRef  `json:"user"`
	Event *EventRef `json:"event"`
}

// AccessStats summarizes the access log.
type AccessStats struct {
	Total         int64 `json:"total"`
	Registrations int64 `json:"registrations"`
	Certificates  int64 `json:"certificates"`
	Today         int64 `json:"today"`
	LastWeek      int64 `json:"last_week"`
}
