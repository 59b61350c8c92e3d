package handler

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mkoval/cms-auth/internal/authz"
	"github.com/mkoval/cms-auth/internal/middleware"
	"github.com/mkoval/cms-auth/internal/model"
	"github.com/mkoval/cms-auth/internal/response"
)

// BlogStore looks up blog subject snapshots. Implemented by
// repository.BlogRepo.
type BlogStore interface {
	CategoryByID(ctx context.Context, id uint64) (*model.Category, error)
	PostByID(ctx context.Context, id uint64) (*model.Post, error)
	CommentByID(ctx context.Context, id uint64) (*model.Comment, error)
}

// BlogHandler exposes read-only blog subject endpoints. They exist to apply
// the blog permission checks against live snapshots; content management is
// handled elsewhere.
type BlogHandler struct {
	Blog BlogStore
}

func NewBlogHandler(blog BlogStore) *BlogHandler {
	return &BlogHandler{Blog: blog}
}

// GetPost handles GET /blog/posts/:id. A post that exists but is removed
// answers 410 for viewers without bypass rights; an unpublished post answers
// 403 (or 401 for anonymous viewers who might own it after logging in).
func (h *BlogHandler) GetPost(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return response.NotFound(c, "blog.messages.post.not_found")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	post, err := h.Blog.PostByID(ctx, id)
	if err != nil {
		return h.missing(c, err, "blog.messages.post.not_found")
	}

	principal := middleware.CurrentUser(c)
	if !authz.CanPost(authz.PostView, post, principal) {
		if post.IsRemoved {
			return response.Gone(c, "blog.messages.post.removed")
		}
		return response.AccessDenied(c, "blog.messages.post.access_denied", principal == nil)
	}

	return response.Success(c, "", echo.Map{
		"post": echo.Map{
			"id":           post.ID,
			"category_id":  post.CategoryID,
			"author_id":    post.AuthorID,
			"title":        post.Title,
			"is_published": post.IsPublished,
			"created_at":   post.CreatedAt,
		},
	})
}

// GetCategory handles GET /blog/categories/:id.
func (h *BlogHandler) GetCategory(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return response.NotFound(c, "blog.messages.category.not_found")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	category, err := h.Blog.CategoryByID(ctx, id)
	if err != nil {
		return h.missing(c, err, "blog.messages.category.not_found")
	}

	principal := middleware.CurrentUser(c)
	if !authz.CanCategory(authz.CategoryView, category, principal) {
		return response.AccessDenied(c, "blog.messages.category.access_denied", principal == nil)
	}

	return response.Success(c, "", echo.Map{
		"category": echo.Map{
			"id":        category.ID,
			"title":     category.Title,
			"is_active": category.IsActive,
		},
	})
}

// GetComment handles GET /blog/comments/:id.
func (h *BlogHandler) GetComment(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return response.NotFound(c, "blog.messages.comment.not_found")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	comment, err := h.Blog.CommentByID(ctx, id)
	if err != nil {
		return h.missing(c, err, "blog.messages.comment.not_found")
	}

	principal := middleware.CurrentUser(c)
	if !authz.CanComment(authz.CommentView, comment, principal) {
		return response.Gone(c, "blog.messages.comment.removed")
	}

	return response.Success(c, "", echo.Map{
		"comment": echo.Map{
			"id":        comment.ID,
			"post_id":   comment.PostID,
			"author_id": comment.AuthorID,
		},
	})
}

func (h *BlogHandler) missing(c echo.Context, err error, key string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return response.NotFound(c, key)
	}
	c.Logger().Errorf("blog lookup: %v", err)
	return response.Failure(c, response.MsgFailed, nil)
}

func pathID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}
