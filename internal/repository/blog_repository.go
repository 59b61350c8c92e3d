package repository

import (
	"context"
	"database/sql"

	"github.com/mkoval/cms-auth/internal/model"
)

// BlogRepo offers read-only lookups of blog subjects. Content management is
// out of scope here; these snapshots only feed the authorization checks and
// the public read endpoints.
type BlogRepo struct{ DB *sql.DB }

func NewBlogRepo(db *sql.DB) *BlogRepo { return &BlogRepo{DB: db} }

// CategoryByID fetches a category snapshot.
func (r *BlogRepo) CategoryByID(ctx context.Context, id uint64) (*model.Category, error) {
	var c model.Category
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,title,is_active,created_at FROM blog_categories WHERE id=? LIMIT 1",
		id).Scan(&c.ID, &c.Title, &c.IsActive, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// PostByID fetches a post snapshot. A deleted author scans as zero.
func (r *BlogRepo) PostByID(ctx context.Context, id uint64) (*model.Post, error) {
	var (
		p        model.Post
		authorID sql.NullInt64
		removed  sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,category_id,author_id,title,is_published,is_removed,created_at,removed_at FROM blog_posts WHERE id=? LIMIT 1",
		id).Scan(&p.ID, &p.CategoryID, &authorID, &p.Title, &p.IsPublished, &p.IsRemoved, &p.CreatedAt, &removed)
	if err != nil {
		return nil, err
	}
	if authorID.Valid {
		p.AuthorID = uint64(authorID.Int64)
	}
	p.RemovedAt = nullTime(removed)
	return &p, nil
}

// CommentByID fetches a comment snapshot.
func (r *BlogRepo) CommentByID(ctx context.Context, id uint64) (*model.Comment, error) {
	var (
		c        model.Comment
		authorID sql.NullInt64
		removed  sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,post_id,author_id,is_removed,created_at,removed_at FROM blog_comments WHERE id=? LIMIT 1",
		id).Scan(&c.ID, &c.PostID, &authorID, &c.IsRemoved, &c.CreatedAt, &removed)
	if err != nil {
		return nil, err
	}
	if authorID.Valid {
		c.AuthorID = uint64(authorID.Int64)
	}
	c.RemovedAt = nullTime(removed)
	return &c, nil
}
