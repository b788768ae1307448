package domain

import (
	"context"
	"time"
)

// Topic and Post carry just enough for the profile listing pages.

type Topic struct {
	ID        int64
	AuthorID  int64
	Title     string
	CreatedAt time.Time
}

type Post struct {
	ID        int64
	TopicID   int64
	AuthorID  int64
	Content   string
	CreatedAt time.Time
}

// Page describes a 1-based page request, clamped by the repositories.
type Page struct {
	Number  int
	PerPage int
}

func (p Page) Offset() int {
	n := p.Number
	if n < 1 {
		n = 1
	}
	return (n - 1) * p.PerPage
}

type TopicPage struct {
	Items   []Topic
	Number  int
	PerPage int
	Total   int64
}

type PostPage struct {
	Items   []Post
	Number  int
	PerPage int
	Total   int64
}

type ForumRepository interface {
	ListTopicsByAuthor(ctx context.Context, authorID int64, page Page) (*TopicPage, error)
	ListPostsByAuthor(ctx context.Context, authorID int64, page Page) (*PostPage, error)
}
