package dto

// CreateUserRequest is the administrator-only user creation payload.
// Unlike public registration, the role is required.
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=120"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
	Role     string `json:"role" binding:"required,oneof=administrator organizer participant"`
}

// UpdateUserRequest updates name and email; all fields optional.
type UpdateUserRequest struct {
	Name  string `json:"name" binding:"omitempty,min=2,max=120"`
	Email string `json:"email" binding:"omitempty,email"`
}

// UpdateUserRoleRequest changes another user's role.
type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=administrator organizer participant"`
}

// UpdateProfileRequest updates the caller's own name and email.
type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"omitempty,min=2,max=120"`
	Email string `json:"email" binding:"omitempty,email"`
}
