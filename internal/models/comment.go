package models

import (
	"time"
)

// Comment is free text attached to a post by a user. Comments are created
// and deleted, never edited.
type Comment struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	PostID    int64     `json:"post_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
