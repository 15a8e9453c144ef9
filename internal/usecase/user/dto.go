package user

// CreateUserRequest represents the request payload for creating a new user.
// Only presence is validated.
type CreateUserRequest struct {
	Name  string `validate:"required"`
	Email string `validate:"required"`
	Role  string
}

// UpdateUserRequest represents the request payload for a partial update.
// Nil fields are left untouched.
type UpdateUserRequest struct {
	ID    int64
	Name  *string
	Email *string
	Role  *string
}

// DeleteUserRequest represents the request payload for deleting a user.
type DeleteUserRequest struct {
	ID int64
}

// DeleteUserResponse represents the response payload after deleting a user.
type DeleteUserResponse struct {
	Message string
	User    User
}

// GetUserRequest represents the request payload for retrieving a user.
type GetUserRequest struct {
	ID int64
}

// ListUsersResponse represents the response payload for user listing.
type ListUsersResponse struct {
	Users []User
}

// User represents a user DTO (Data Transfer Object) for API responses.
type User struct {
	ID    int64
	Name  string
	Email string
	Role  string
}
