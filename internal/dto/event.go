package dto

import "time"

// CreateEventRequest creates an event. The date must be in the future,
// which the service enforces since binding cannot compare against now.
type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required,min=3,max=200"`
	Description string    `json:"description" binding:"required"`
	EventDate   time.Time `json:"event_date" binding:"required"`
	CategoryID  *int64    `json:"category_id" binding:"omitempty,gt=0"`
}

// UpdateEventRequest updates an event; all fields optional.
type UpdateEventRequest struct {
	Title       string     `json:"title" binding:"omitempty,min=3,max=200"`
	Description string     `json:"description" binding:"omitempty"`
	EventDate   *time.Time `json:"event_date" binding:"omitempty"`
	CategoryID  *int64     `json:"category_id" binding:"omitempty,gt=0"`
}

// EventFilter narrows event listings.
type EventFilter struct {
	Search     string     `form:"search"`
	CategoryID *int64     `form:"category_id" binding:"omitempty,gt=0"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Upcoming   bool       `form:"upcoming"`
}
