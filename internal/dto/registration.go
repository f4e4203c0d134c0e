package dto

// CreateRegistrationRequest registers the caller for an event. user_id is
// only honored for administrators registering on another user's behalf.
type CreateRegistrationRequest struct {
	EventID int64 `json:"event_id" binding:"required,gt=0"`
	UserID  int64 `json:"user_id" binding:"omitempty,gt=0"`
}
