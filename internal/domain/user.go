package domain

import "time"

// User is a support agent in the administration directory. Credentials and
// sessions are out of scope; users exist to be grouped under roles.
type User struct {
	ID        string
	Name      string
	Email     string
	RoleID    *string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
