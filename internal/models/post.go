package models

import (
	"time"
)

// Post is a question with selectable choices, authored by a user.
// Choices and CategoryIDs are joined in per use case; entities reference
// each other by id only, never through embedded navigation structs.
type Post struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`

	Choices     []Choice `json:"choices,omitempty"`
	CategoryIDs []int64  `json:"category_ids,omitempty"`
}

// Choice is one selectable option belonging to exactly one post.
// ChoiceNumber is 1-based and unique within the post.
type Choice struct {
	ID           int64  `json:"id"`
	PostID       int64  `json:"post_id"`
	ChoiceNumber int    `json:"choice_number"`
	TextContent  string `json:"text_content"`
	ImageURL     string `json:"image_url,omitempty"`
}
