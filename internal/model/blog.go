package model

import "time"

// Blog entities exist here as authorization subjects only; content
// management lives outside this service. The snapshots carry exactly the
// state the permission checks in internal/authz need.

// Category mirrors the 'blog_categories' table.
type Category struct {
	ID        uint64
	Title     string
	IsActive  bool
	CreatedAt time.Time
}

// Post mirrors the 'blog_posts' table. AuthorID is zero when the author was
// deleted and the column went NULL.
type Post struct {
	ID          uint64
	CategoryID  uint64
	AuthorID    uint64
	Title       string
	IsPublished bool
	IsRemoved   bool
	CreatedAt   time.Time
	RemovedAt   *time.Time
}

// Comment mirrors the 'blog_comments' table.
type Comment struct {
	ID        uint64
	PostID    uint64
	AuthorID  uint64
	IsRemoved bool
	CreatedAt time.Time
	RemovedAt *time.Time
}
