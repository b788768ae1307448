package domain

import (
	"context"
	"time"
)

// UploadedFile is a file record owned by a user. The backing bytes live in an
// upload store under the key "<owner discord id>/<stored name>".
type UploadedFile struct {
	ID           int64
	UserID       int64
	OriginalName string
	StoredName   string
	Size         int64
	ContentType  string
	CreatedAt    time.Time
}

type UploadedFileRepository interface {
	GetByID(ctx context.Context, fileID int64) (*UploadedFile, error)
	ListByOwner(ctx context.Context, userID int64) ([]UploadedFile, error)
	Insert(ctx context.Context, file *UploadedFile) (*UploadedFile, error)
	Delete(ctx context.Context, fileID int64) error
}
