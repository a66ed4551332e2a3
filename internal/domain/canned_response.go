package domain

import "time"

// CannedResponse is a reusable reply template for agents.
type CannedResponse struct {
	ID        string
	Title     string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
