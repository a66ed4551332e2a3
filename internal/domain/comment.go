package domain

import "time"

// CommentVisibility differentiates customer-visible comments from internal notes.
type CommentVisibility string

const (
	CommentPublic   CommentVisibility = "public"
	CommentInternal CommentVisibility = "internal"
)

// Comment captures one entry of a ticket's conversation thread.
type Comment struct {
	ID         string
	TicketID   string
	AuthorName string
	Visibility CommentVisibility
	Body       string
	CreatedAt  time.Time
}
