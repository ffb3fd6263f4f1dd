package services

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EmySim/mdd/internal/client/api"
)

func TestFeed(t *testing.T) {
	f := newSvcFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/articles", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []Article{
				{ID: 1, Title: "Generics in practice", Author: "dev", ThemeName: "Go"},
				{ID: 2, Title: "Streams vs loops", Author: "mina", ThemeName: "Java"},
			},
		})
	}))
	s := NewArticleService(f.api)

	got, err := s.Feed(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Generics in practice", got[0].Title)
}

func TestGetArticle(t *testing.T) {
	f := newSvcFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/articles/7", r.URL.Path)
		_ = json.NewEncoder(w).Encode(Article{ID: 7, Title: "Error wrapping", Content: "..."})
	}))
	s := NewArticleService(f.api)

	a, err := s.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Error wrapping", a.Title)
}

func TestGetArticle_NotFound(t *testing.T) {
	f := newSvcFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	s := NewArticleService(f.api)

	_, err := s.Get(context.Background(), 999)
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrNotFound)

	// The interceptor already told the user.
	cur := f.bus.Current()
	require.NotNil(t, cur)
	assert.Equal(t, "Not found", cur.Title)
}

func TestCreateArticle(t *testing.T) {
	var got CreateArticleRequest
	f := newSvcFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/articles", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Article{ID: 11, Title: got.Title, Content: got.Content})
	}))
	s := NewArticleService(f.api)

	a, err := s.Create(context.Background(), CreateArticleRequest{Title: "New post", Content: "body", ThemeID: 3})
	require.NoError(t, err)

	assert.EqualValues(t, 3, got.ThemeID)
	assert.EqualValues(t, 11, a.ID)
}

func TestComments(t *testing.T) {
	f := newSvcFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/articles/7/comments", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []Comment{{ID: 1, Content: "nice", Author: "mina"}},
		})
	}))
	s := NewArticleService(f.api)

	got, err := s.Comments(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "nice", got[0].Content)
}

func TestAddComment(t *testing.T) {
	var got map[string]string
	f := newSvcFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/articles/7/comments", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Comment{ID: 4, Content: got["content"], Author: "dev"})
	}))
	s := NewArticleService(f.api)

	c, err := s.AddComment(context.Background(), 7, "well put")
	require.NoError(t, err)
	assert.Equal(t, "well put", got["content"])
	assert.Equal(t, "well put", c.Content)
}
