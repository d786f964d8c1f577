package model

import "time"

// RoleUser is the role assigned to every account at signup.
const RoleUser = "user"

// User represents a registered account.
// Password holds the bcrypt hash and is never serialized in HTTP responses.
// Documents is the ordered list of document IDs owned by the user; it is
// mutated only by the document service (append on upload, remove on delete).
type User struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Token     string    `json:"token,omitempty"`
	Role      string    `json:"role"`
	Documents []string  `json:"documents"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
