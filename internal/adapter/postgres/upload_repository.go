package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Zert0X/OnyxForum/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uploadColumns = `id, user_id, original_name, stored_name, size, content_type, created_at`

// UploadRepo implements domain.UploadedFileRepository backed by PostgreSQL.
type UploadRepo struct {
	pool *pgxpool.Pool
}

func NewUploadRepo(pool *pgxpool.Pool) *UploadRepo {
	return &UploadRepo{pool: pool}
}

func scanUpload(row pgx.Row) (*domain.UploadedFile, error) {
	var file domain.UploadedFile
	err := row.Scan(
		&file.ID, &file.UserID, &file.OriginalName, &file.StoredName,
		&file.Size, &file.ContentType, &file.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrFileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan uploaded file: %w", err)
	}
	return &file, nil
}

func (r *UploadRepo) GetByID(ctx context.Context, fileID int64) (*domain.UploadedFile, error) {
	return scanUpload(r.pool.QueryRow(ctx,
		`SELECT `+uploadColumns+` FROM uploaded_files WHERE id = $1`, fileID))
}

func (r *UploadRepo) ListByOwner(ctx context.Context, userID int64) ([]domain.UploadedFile, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+uploadColumns+` FROM uploaded_files WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list uploads: %w", err)
	}
	defer rows.Close()

	var files []domain.UploadedFile
	for rows.Next() {
		var file domain.UploadedFile
		if err := rows.Scan(
			&file.ID, &file.UserID, &file.OriginalName, &file.StoredName,
			&file.Size, &file.ContentType, &file.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan uploaded file: %w", err)
		}
		files = append(files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read uploads: %w", err)
	}
	return files, nil
}

func (r *UploadRepo) Insert(ctx context.Context, file *domain.UploadedFile) (*domain.UploadedFile, error) {
	return scanUpload(r.pool.QueryRow(ctx, `
		INSERT INTO uploaded_files (user_id, original_name, stored_name, size, content_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+uploadColumns+`
	`, file.UserID, file.OriginalName, file.StoredName, file.Size, file.ContentType, file.CreatedAt))
}

func (r *UploadRepo) Delete(ctx context.Context, fileID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM uploaded_files WHERE id = $1`, fileID)
	if err != nil {
		return fmt.Errorf("failed to delete uploaded file: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFileNotFound
	}
	return nil
}
