package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/Zert0X/OnyxForum/internal/domain"
	"github.com/google/uuid"
)

// ErrUploadForbidden is returned when the actor is neither the file owner nor
// an admin. The denial is audit-logged before it is returned; callers redirect
// without surfacing an error page.
var ErrUploadForbidden = errors.New("not allowed to delete this file")

// IncomingUpload describes one file from a multipart form.
type IncomingUpload struct {
	OriginalName string
	ContentType  string
	Size         int64
	Content      io.Reader
}

var allowedExtensions = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".webp": {},
	".txt": {}, ".log": {}, ".pdf": {}, ".zip": {},
	".dmi": {}, ".dm": {},
}

// ListUploads returns every file record owned by the user.
func (s *Service) ListUploads(ctx context.Context, userID int64) ([]domain.UploadedFile, error) {
	return s.files.ListByOwner(ctx, userID)
}

// SaveUpload validates the incoming file, stores its bytes under a fresh
// uuid-derived name, and inserts the record.
func (s *Service) SaveUpload(ctx context.Context, owner *domain.User, upload IncomingUpload) (*domain.UploadedFile, error) {
	rejection := newRejection()

	if owner.DiscordID == "" {
		rejection.Add("file", "link a Discord account before uploading files")
	}
	ext := strings.ToLower(filepath.Ext(upload.OriginalName))
	if _, ok := allowedExtensions[ext]; !ok {
		rejection.Add("file", fmt.Sprintf("file type %q is not allowed", ext))
	}
	if upload.Size <= 0 || upload.Size > s.maxUploadSize {
		rejection.Add("file", fmt.Sprintf("file must be between 1 byte and %d bytes", s.maxUploadSize))
	}
	if !rejection.isEmpty() {
		return nil, rejection
	}

	storedName := uuid.NewString() + ext
	key := uploadKey(owner.DiscordID, storedName)

	if err := s.store.Put(ctx, key, upload.Content, upload.Size, upload.ContentType); err != nil {
		return nil, fmt.Errorf("failed to store upload %q: %w", key, err)
	}

	record, err := s.files.Insert(ctx, &domain.UploadedFile{
		UserID:       owner.ID,
		OriginalName: upload.OriginalName,
		StoredName:   storedName,
		Size:         upload.Size,
		ContentType:  upload.ContentType,
		CreatedAt:    s.clock.Now(),
	})
	if err != nil {
		if rmErr := s.store.Remove(ctx, key); rmErr != nil && !errors.Is(rmErr, domain.ErrObjectNotFound) {
			s.audit.Warn("Orphaned upload bytes after failed record insert", "key", key, "error", rmErr)
		}
		return nil, fmt.Errorf("failed to insert upload record: %w", err)
	}

	return record, nil
}

// DeleteUpload removes a file's bytes and record on behalf of the actor.
//
// Resolution failures map to domain.ErrFileNotFound / domain.ErrUserNotFound.
// An actor who is neither owner nor admin gets ErrUploadForbidden and an audit
// entry; nothing is deleted. A missing stored object is tolerated (the record
// is still deleted); any other storage failure aborts before the record is
// touched.
func (s *Service) DeleteUpload(ctx context.Context, actor *domain.User, fileID int64) error {
	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return err
	}

	owner, err := s.users.GetByID(ctx, file.UserID)
	if err != nil {
		return err
	}

	if owner.ID != actor.ID && !actor.IsAdmin {
		s.audit.Warn("Denied file deletion",
			"file_id", file.ID,
			"file_name", file.OriginalName,
			"owner", owner.Username,
			"owner_discord", owner.DiscordID,
			"actor", actor.Username,
			"actor_discord", actor.DiscordID,
		)
		return ErrUploadForbidden
	}

	key := uploadKey(owner.DiscordID, file.StoredName)
	if err := s.store.Remove(ctx, key); err != nil && !errors.Is(err, domain.ErrObjectNotFound) {
		return fmt.Errorf("failed to remove stored bytes %q: %w", key, err)
	}

	if err := s.files.Delete(ctx, file.ID); err != nil {
		return fmt.Errorf("failed to delete upload record %d: %w", file.ID, err)
	}

	s.audit.Info("File deleted",
		"file_id", file.ID,
		"file_name", file.OriginalName,
		"owner", owner.Username,
		"owner_discord", owner.DiscordID,
		"actor", actor.Username,
		"actor_discord", actor.DiscordID,
	)

	return nil
}

func uploadKey(discordID, storedName string) string {
	return path.Join(discordID, storedName)
}
