package models

import (
	"time"
)

// Vote is a user's single current selection of a choice within a post.
// At most one row exists per (user, post); re-voting overwrites the choice
// and refreshes the timestamp.
type Vote struct {
	ID       int64     `json:"id"`
	UserID   int64     `json:"user_id"`
	PostID   int64     `json:"post_id"`
	ChoiceID int64     `json:"choice_id"`
	VotedAt  time.Time `json:"voted_at"`
}

// UserVote is a vote joined with the referenced post's title, for listing a
// user's voting history.
type UserVote struct {
	Vote
	PostTitle string `json:"post_title"`
}

// ChoiceTally is the vote count for one choice of a post. Tally results
// include every choice of the post, zero-count ones too, in choice number order.
type ChoiceTally struct {
	ChoiceID     int64  `json:"choice_id"`
	ChoiceNumber int    `json:"choice_number"`
	TextContent  string `json:"text_content"`
	Votes        int64  `json:"votes"`
}
