package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Zert0X/OnyxForum/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

// userColumns must match the Scan order in scanUser.
const userColumns = `id, username, email, password_hash, discord_id, is_admin,
	language, theme, posts_per_page, topics_per_page,
	location, website, birthday, gender_pronouns, signature, notes,
	created_at, updated_at`

// UserRepo implements domain.UserRepository backed by PostgreSQL.
type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.DiscordID, &user.IsAdmin,
		&user.Settings.Language, &user.Settings.Theme, &user.Settings.PostsPerPage, &user.Settings.TopicsPerPage,
		&user.Details.Location, &user.Details.Website, &user.Details.Birthday, &user.Details.GenderPronouns, &user.Details.Signature, &user.Details.Notes,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &user, nil
}

func (r *UserRepo) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, userID))
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email))
}

func (r *UserRepo) UpdateSettings(ctx context.Context, userID int64, settings domain.UserSettings) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET language = $1, theme = $2, posts_per_page = $3, topics_per_page = $4, updated_at = NOW()
		WHERE id = $5
	`, settings.Language, settings.Theme, settings.PostsPerPage, settings.TopicsPerPage, userID)
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET password_hash = $1, updated_at = NOW()
		WHERE id = $2
	`, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) UpdateEmail(ctx context.Context, userID int64, email string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email = $1, updated_at = NOW()
		WHERE id = $2
	`, email, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("failed to update email: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) UpdateDetails(ctx context.Context, userID int64, details domain.UserDetails) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET location = $1, website = $2, birthday = $3, gender_pronouns = $4, signature = $5, notes = $6, updated_at = NOW()
		WHERE id = $7
	`, details.Location, details.Website, details.Birthday, details.GenderPronouns, details.Signature, details.Notes, userID)
	if err != nil {
		return fmt.Errorf("failed to update details: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
