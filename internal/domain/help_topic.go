package domain

import "time"

// HelpTopic categorizes incoming tickets.
type HelpTopic struct {
	ID          string
	Name        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
