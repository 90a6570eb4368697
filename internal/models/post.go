package models

import "time"

// Post is the stored post record. CreatorID is fixed at creation and
// never reassigned.
type Post struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imageUrl"`
	CreatorID string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PostView is a post with its creator expanded inline, the shape the
// feed and single-post queries return. Timestamps are serialized as
// ISO-8601 by the gateway.
type PostView struct {
	Post
	Creator PublicUser `json:"creator"`
}

// PostsPage is one page of the feed together with the total post count.
type PostsPage struct {
	Posts      []PostView `json:"posts"`
	TotalItems int        `json:"totalItems"`
}
