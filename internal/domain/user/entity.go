package user

// DefaultRole is assigned when a user is created without a role.
const DefaultRole = "viewer"

// User represents a user entity in the system.
type User struct {
	ID    int64  `json:"id"`    // ID is assigned on creation and never changes
	Name  string `json:"name"`  // Name is the full name of the user
	Email string `json:"email"` // Email is the contact address of the user
	Role  string `json:"role"`  // Role is a free-form role label, "viewer" by default
}

// Patch carries the fields of a partial update. Nil fields are left untouched.
type Patch struct {
	Name  *string
	Email *string
	Role  *string
}

// IsEmpty reports whether the patch would change nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Role == nil
}

// Apply copies the present, non-empty fields of the patch onto the user.
func (u *User) Apply(p Patch) {
	if p.Name != nil && *p.Name != "" {
		u.Name = *p.Name
	}
	if p.Email != nil && *p.Email != "" {
		u.Email = *p.Email
	}
	if p.Role != nil && *p.Role != "" {
		u.Role = *p.Role
	}
}

// NextID returns max(existing ids) + 1, or 1 for an empty collection.
func NextID(users []User) int64 {
	var maxID int64
	for _, u := range users {
		if u.ID > maxID {
			maxID = u.ID
		}
	}
	return maxID + 1
}
