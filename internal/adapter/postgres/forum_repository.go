package postgres

import (
	"context"
	"fmt"

	"github.com/Zert0X/OnyxForum/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ForumRepo implements domain.ForumRepository backed by PostgreSQL.
type ForumRepo struct {
	pool *pgxpool.Pool
}

func NewForumRepo(pool *pgxpool.Pool) *ForumRepo {
	return &ForumRepo{pool: pool}
}

func (r *ForumRepo) ListTopicsByAuthor(ctx context.Context, authorID int64, page domain.Page) (*domain.TopicPage, error) {
	result := &domain.TopicPage{Number: page.Number, PerPage: page.PerPage}

	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM topics WHERE author_id = $1`, authorID).Scan(&result.Total)
	if err != nil {
		return nil, fmt.Errorf("failed to count topics: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, author_id, title, created_at
		FROM topics
		WHERE author_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, authorID, page.PerPage, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var topic domain.Topic
		if err := rows.Scan(&topic.ID, &topic.AuthorID, &topic.Title, &topic.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan topic: %w", err)
		}
		result.Items = append(result.Items, topic)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read topics: %w", err)
	}
	return result, nil
}

func (r *ForumRepo) ListPostsByAuthor(ctx context.Context, authorID int64, page domain.Page) (*domain.PostPage, error) {
	result := &domain.PostPage{Number: page.Number, PerPage: page.PerPage}

	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM posts WHERE author_id = $1`, authorID).Scan(&result.Total)
	if err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, topic_id, author_id, content, created_at
		FROM posts
		WHERE author_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, authorID, page.PerPage, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var post domain.Post
		if err := rows.Scan(&post.ID, &post.TopicID, &post.AuthorID, &post.Content, &post.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		result.Items = append(result.Items, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read posts: %w", err)
	}
	return result, nil
}
