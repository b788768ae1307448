package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/Zert0X/OnyxForum/internal/domain"
	"github.com/Zert0X/OnyxForum/internal/platform/crypto"
	"github.com/jonboulle/clockwork"
)

// UploadStore holds the bytes behind UploadedFile records, keyed by
// "<owner discord id>/<stored name>". Implemented by the local-disk and S3
// adapters.
type UploadStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Remove deletes the object, returning domain.ErrObjectNotFound when the
	// key does not exist.
	Remove(ctx context.Context, key string) error
}

// Mailer sends user-facing notification mail. May be nil (mail disabled).
type Mailer interface {
	SendEmailChanged(ctx context.Context, to, username, newEmail string) error
}

// Service is the application layer. It owns the settings-update protocol and
// the upload and link-token use cases; one instance serves all requests.
type Service struct {
	users  domain.UserRepository
	files  domain.UploadedFileRepository
	tokens domain.LinkTokenRepository
	links  domain.GameLinkRepository
	forum  domain.ForumRepository

	store       UploadStore
	mailer      Mailer
	tokenCrypto crypto.Service
	clock       clockwork.Clock
	audit       *slog.Logger

	maxUploadSize int64
}

// Options carries the collaborators for NewService. Mailer may be nil;
// TokenCrypto and Clock default to no-op crypto and the real clock.
type Options struct {
	Users  domain.UserRepository
	Files  domain.UploadedFileRepository
	Tokens domain.LinkTokenRepository
	Links  domain.GameLinkRepository
	Forum  domain.ForumRepository

	Store       UploadStore
	Mailer      Mailer
	TokenCrypto crypto.Service
	Clock       clockwork.Clock
	Audit       *slog.Logger

	MaxUploadSize int64
}

func NewService(opts Options) *Service {
	if opts.TokenCrypto == nil {
		opts.TokenCrypto = crypto.NoopService{}
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Audit == nil {
		opts.Audit = slog.Default()
	}
	if opts.MaxUploadSize <= 0 {
		opts.MaxUploadSize = 10 << 20
	}

	return &Service{
		users:         opts.Users,
		files:         opts.Files,
		tokens:        opts.Tokens,
		links:         opts.Links,
		forum:         opts.Forum,
		store:         opts.Store,
		mailer:        opts.Mailer,
		tokenCrypto:   opts.TokenCrypto,
		clock:         opts.Clock,
		audit:         opts.Audit,
		maxUploadSize: opts.MaxUploadSize,
	}
}

// GetUserByID retrieves a user by internal ID.
func (s *Service) GetUserByID(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// ListTopicsByAuthor returns one page of the user's topics.
func (s *Service) ListTopicsByAuthor(ctx context.Context, authorID int64, page domain.Page) (*domain.TopicPage, error) {
	return s.forum.ListTopicsByAuthor(ctx, authorID, page)
}

// ListPostsByAuthor returns one page of the user's posts.
func (s *Service) ListPostsByAuthor(ctx context.Context, authorID int64, page domain.Page) (*domain.PostPage, error) {
	return s.forum.ListPostsByAuthor(ctx, authorID, page)
}
