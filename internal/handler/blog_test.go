package handler

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkoval/cms-auth/internal/middleware"
	"github.com/mkoval/cms-auth/internal/model"
	"github.com/mkoval/cms-auth/internal/security"
)

type fakeBlogStore struct {
	categories map[uint64]*model.Category
	posts      map[uint64]*model.Post
	comments   map[uint64]*model.Comment
}

func (s *fakeBlogStore) CategoryByID(ctx context.Context, id uint64) (*model.Category, error) {
	if c, ok := s.categories[id]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

func (s *fakeBlogStore) PostByID(ctx context.Context, id uint64) (*model.Post, error) {
	if p, ok := s.posts[id]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

func (s *fakeBlogStore) CommentByID(ctx context.Context, id uint64) (*model.Comment, error) {
	if c, ok := s.comments[id]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

func blogTestApp(t *testing.T, store *fakeBlogStore, users ...*model.User) (*echo.Echo, func(uint64) string) {
	t.Helper()
	codec := testCodec(t)
	h := NewBlogHandler(store)

	e := echo.New()
	e.Use(middleware.Principal(security.NewBearerStrategy(codec, newMemUsers(users...))))
	e.GET("/blog/posts/:id", h.GetPost)
	e.GET("/blog/categories/:id", h.GetCategory)
	e.GET("/blog/comments/:id", h.GetComment)

	bearer := func(id uint64) string {
		raw, err := codec.Issue(id, time.Hour)
		require.NoError(t, err)
		return raw
	}
	return e, bearer
}

func TestGetPostVisibilityTaxonomy(t *testing.T) {
	author := plainUser(2, "author")
	author.SetRoles([]string{model.RoleBlogAuthor})
	reader := plainUser(3, "reader")

	store := &fakeBlogStore{posts: map[uint64]*model.Post{
		10: {ID: 10, CategoryID: 1, AuthorID: 2, Title: "live", IsPublished: true},
		11: {ID: 11, CategoryID: 1, AuthorID: 2, Title: "dead", IsPublished: true, IsRemoved: true},
		12: {ID: 12, CategoryID: 1, AuthorID: 2, Title: "draft"},
	}}
	e, bearer := blogTestApp(t, store, author, reader)

	cases := []struct {
		name       string
		id         string
		token      string
		wantStatus int
		wantKey    string
	}{
		{"published post visible anonymously", "10", "", http.StatusOK, ""},
		{"unknown post is 404", "99", "", http.StatusNotFound, "blog.messages.post.not_found"},
		{"removed post is gone, not forbidden", "11", "", http.StatusGone, "blog.messages.post.removed"},
		{"removed post gone for plain reader too", "11", bearer(3), http.StatusGone, "blog.messages.post.removed"},
		{"draft answers 401 to anonymous", "12", "", http.StatusUnauthorized, "blog.messages.post.access_denied"},
		{"draft answers 403 to plain reader", "12", bearer(3), http.StatusForbidden, "blog.messages.post.access_denied"},
		{"draft visible to its author", "12", bearer(2), http.StatusOK, ""},
		{"removed post visible to its author", "11", bearer(2), http.StatusOK, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(e, http.MethodGet, "/blog/posts/"+tc.id, "", tc.token)
			require.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantKey != "" {
				assert.Equal(t, tc.wantKey, decode(t, rec).Message)
			}
		})
	}
}

func TestGetCategoryVisibility(t *testing.T) {
	staff := plainUser(2, "staff")
	staff.SetRoles([]string{model.RoleBlogManager})
	reader := plainUser(3, "reader")

	store := &fakeBlogStore{categories: map[uint64]*model.Category{
		1: {ID: 1, Title: "news", IsActive: true},
		2: {ID: 2, Title: "drafts"},
	}}
	e, bearer := blogTestApp(t, store, staff, reader)

	rec := doJSON(e, http.MethodGet, "/blog/categories/1", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/blog/categories/2", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(e, http.MethodGet, "/blog/categories/2", "", bearer(3))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(e, http.MethodGet, "/blog/categories/2", "", bearer(2))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetCommentVisibility(t *testing.T) {
	manager := plainUser(2, "manager")
	manager.SetRoles([]string{model.RoleBlogManager})

	store := &fakeBlogStore{comments: map[uint64]*model.Comment{
		20: {ID: 20, PostID: 10, AuthorID: 3},
		21: {ID: 21, PostID: 10, AuthorID: 3, IsRemoved: true},
	}}
	e, bearer := blogTestApp(t, store, manager)

	rec := doJSON(e, http.MethodGet, "/blog/comments/20", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/blog/comments/21", "", "")
	require.Equal(t, http.StatusGone, rec.Code)
	assert.Equal(t, "blog.messages.comment.removed", decode(t, rec).Message)

	rec = doJSON(e, http.MethodGet, "/blog/comments/21", "", bearer(2))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/blog/comments/99", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
