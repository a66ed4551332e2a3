package domain

import "time"

// Role is an assignee grouping (e.g. "Support Agent") referenced by tiers and
// by user administration.
type Role struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
