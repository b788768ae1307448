package app

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/Zert0X/OnyxForum/internal/domain"
	"github.com/jonboulle/clockwork"
)

// --- Mock implementations ---

type mockUserRepo struct {
	getByIDFn        func(ctx context.Context, userID int64) (*domain.User, error)
	getByEmailFn     func(ctx context.Context, email string) (*domain.User, error)
	updateSettingsFn func(ctx context.Context, userID int64, settings domain.UserSettings) error
	updatePasswordFn func(ctx context.Context, userID int64, passwordHash string) error
	updateEmailFn    func(ctx context.Context, userID int64, email string) error
	updateDetailsFn  func(ctx context.Context, userID int64, details domain.UserDetails) error

	updateCalls int
}

func (m *mockUserRepo) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, userID)
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserRepo) UpdateSettings(ctx context.Context, userID int64, settings domain.UserSettings) error {
	m.updateCalls++
	if m.updateSettingsFn != nil {
		return m.updateSettingsFn(ctx, userID, settings)
	}
	return nil
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	m.updateCalls++
	if m.updatePasswordFn != nil {
		return m.updatePasswordFn(ctx, userID, passwordHash)
	}
	return nil
}

func (m *mockUserRepo) UpdateEmail(ctx context.Context, userID int64, email string) error {
	m.updateCalls++
	if m.updateEmailFn != nil {
		return m.updateEmailFn(ctx, userID, email)
	}
	return nil
}

func (m *mockUserRepo) UpdateDetails(ctx context.Context, userID int64, details domain.UserDetails) error {
	m.updateCalls++
	if m.updateDetailsFn != nil {
		return m.updateDetailsFn(ctx, userID, details)
	}
	return nil
}

type mockFileRepo struct {
	getByIDFn     func(ctx context.Context, fileID int64) (*domain.UploadedFile, error)
	listByOwnerFn func(ctx context.Context, userID int64) ([]domain.UploadedFile, error)
	insertFn      func(ctx context.Context, file *domain.UploadedFile) (*domain.UploadedFile, error)
	deleteFn      func(ctx context.Context, fileID int64) error

	deleteCalls int
}

func (m *mockFileRepo) GetByID(ctx context.Context, fileID int64) (*domain.UploadedFile, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, fileID)
	}
	return nil, domain.ErrFileNotFound
}

func (m *mockFileRepo) ListByOwner(ctx context.Context, userID int64) ([]domain.UploadedFile, error) {
	if m.listByOwnerFn != nil {
		return m.listByOwnerFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockFileRepo) Insert(ctx context.Context, file *domain.UploadedFile) (*domain.UploadedFile, error) {
	if m.insertFn != nil {
		return m.insertFn(ctx, file)
	}
	stored := *file
	stored.ID = 1
	return &stored, nil
}

func (m *mockFileRepo) Delete(ctx context.Context, fileID int64) error {
	m.deleteCalls++
	if m.deleteFn != nil {
		return m.deleteFn(ctx, fileID)
	}
	return nil
}

type mockTokenRepo struct {
	deleteUnconsumedFn func(ctx context.Context, discordID string) (int64, error)
	insertFn           func(ctx context.Context, token *domain.LinkToken) (*domain.LinkToken, error)

	inserted []*domain.LinkToken
}

func (m *mockTokenRepo) DeleteUnconsumed(ctx context.Context, discordID string) (int64, error) {
	if m.deleteUnconsumedFn != nil {
		return m.deleteUnconsumedFn(ctx, discordID)
	}
	return 0, nil
}

func (m *mockTokenRepo) Insert(ctx context.Context, token *domain.LinkToken) (*domain.LinkToken, error) {
	m.inserted = append(m.inserted, token)
	if m.insertFn != nil {
		return m.insertFn(ctx, token)
	}
	stored := *token
	stored.ID = int64(len(m.inserted))
	return &stored, nil
}

type mockLinkRepo struct {
	getCkeyFn func(ctx context.Context, discordID string) (string, error)
}

func (m *mockLinkRepo) GetCkey(ctx context.Context, discordID string) (string, error) {
	if m.getCkeyFn != nil {
		return m.getCkeyFn(ctx, discordID)
	}
	return "", domain.ErrNotLinked
}

type mockStore struct {
	putFn    func(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	removeFn func(ctx context.Context, key string) error

	putKeys     []string
	removedKeys []string
}

func (m *mockStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	m.putKeys = append(m.putKeys, key)
	if m.putFn != nil {
		return m.putFn(ctx, key, r, size, contentType)
	}
	return nil
}

func (m *mockStore) Remove(ctx context.Context, key string) error {
	m.removedKeys = append(m.removedKeys, key)
	if m.removeFn != nil {
		return m.removeFn(ctx, key)
	}
	return nil
}

type mockMailer struct {
	sendFn func(ctx context.Context, to, username, newEmail string) error
	sent   chan string
}

func (m *mockMailer) SendEmailChanged(ctx context.Context, to, username, newEmail string) error {
	if m.sent != nil {
		m.sent <- to
	}
	if m.sendFn != nil {
		return m.sendFn(ctx, to, username, newEmail)
	}
	return nil
}

// --- Test helpers ---

type testDeps struct {
	users  *mockUserRepo
	files  *mockFileRepo
	tokens *mockTokenRepo
	links  *mockLinkRepo
	store  *mockStore
}

func newTestService(opts ...func(*Options)) (*Service, *testDeps) {
	deps := &testDeps{
		users:  &mockUserRepo{},
		files:  &mockFileRepo{},
		tokens: &mockTokenRepo{},
		links:  &mockLinkRepo{},
		store:  &mockStore{},
	}

	o := Options{
		Users:  deps.users,
		Files:  deps.files,
		Tokens: deps.tokens,
		Links:  deps.links,
		Store:  deps.store,
		Clock:  clockwork.NewFakeClock(),
		Audit:  slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return NewService(o), deps
}

var errBoom = errors.New("boom")
