package services

import (
	"context"
	"fmt"
	"time"

	"github.com/EmySim/mdd/internal/client/api"
)

type Article struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Author    string     `json:"author"`
	ThemeName string     `json:"themeName"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

type Comment struct {
	ID        int64      `json:"id"`
	Content   string     `json:"content"`
	Author    string     `json:"author"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

type articlesPage struct {
	Content       []Article `json:"content"`
	TotalElements int64     `json:"totalElements"`
	TotalPages    int       `json:"totalPages"`
	Size          int       `json:"size"`
	Number        int       `json:"number"`
}

type commentsPage struct {
	Content []Comment `json:"content"`
}

type CreateArticleRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	ThemeID int64  `json:"subjectId"`
}

// ArticleService is the feed: articles from subscribed themes plus their
// comments. Pure pass-through; the interceptor owns failure handling.
type ArticleService struct {
	api *api.Client
}

func NewArticleService(c *api.Client) *ArticleService {
	return &ArticleService{api: c}
}

func (s *ArticleService) Feed(ctx context.Context) ([]Article, error) {
	var page articlesPage
	if err := s.api.Get(ctx, "/api/articles?page=0&size=50", &page); err != nil {
		return nil, err
	}
	return page.Content, nil
}

func (s *ArticleService) Get(ctx context.Context, id int64) (Article, error) {
	var a Article
	err := s.api.Get(ctx, fmt.Sprintf("/api/articles/%d", id), &a)
	return a, err
}

func (s *ArticleService) Create(ctx context.Context, req CreateArticleRequest) (Article, error) {
	var a Article
	err := s.api.Post(ctx, "/api/articles", req, &a)
	return a, err
}

func (s *ArticleService) Comments(ctx context.Context, articleID int64) ([]Comment, error) {
	var page commentsPage
	if err := s.api.Get(ctx, fmt.Sprintf("/api/articles/%d/comments", articleID), &page); err != nil {
		return nil, err
	}
	return page.Content, nil
}

func (s *ArticleService) AddComment(ctx context.Context, articleID int64, content string) (Comment, error) {
	var c Comment
	in := map[string]string{"content": content}
	err := s.api.Post(ctx, fmt.Sprintf("/api/articles/%d/comments", articleID), in, &c)
	return c, err
}
