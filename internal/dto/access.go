package dto

import "time"

// AccessMeta carries the request metadata forwarded to the access recorder.
type AccessMeta struct {
	IP     string
	Device string
}

// AccessLogFilter narrows access log listings.
type AccessLogFilter struct {
	UserID     *int64     `form:"user_id" binding:"omitempty,gt=0"`
	EventID    *int64     `form:"event_id" binding:"omitempty,gt=0"`
	AccessType string     `form:"access_type" binding:"omitempty,oneof=registration certificate"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
}

// UpdateAccessLogRequest corrects the details of an existing entry.
type UpdateAccessLogRequest struct {
	Status string `json:"status" binding:"omitempty,max=50"`
	Device string `json:"device" binding:"omitempty,max=200"`
}
