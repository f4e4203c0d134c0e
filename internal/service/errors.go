package service

import "errors"

// Sentinel errors returned by the service layer. Handlers map these onto
// HTTP statuses; anything else is treated as an internal error.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("access denied")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidRole        = errors.New("invalid role")
	ErrSelfDelete         = errors.New("cannot delete own account")
	ErrSelfRoleChange     = errors.New("cannot change own role")
	ErrCategoryNameTaken  = errors.New("category name already exists")
	ErrCategoryNotFound   = errors.New("category does not exist")
	ErrEventInPast        = errors.New("event date must be in the future")
	ErrEventStarted       = errors.New("event has already taken place")
	ErrAlreadyRegistered  = errors.New("already registered for this event")
	ErrNotPending         = errors.New("registration is not pending")
	ErrCertificateExists  = errors.New("certificate already issued for this registration")
	ErrAuditUnavailable   = errors.New("access log store unavailable")
)
