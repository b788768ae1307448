package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Zert0X/OnyxForum/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TokenRepo implements domain.LinkTokenRepository backed by PostgreSQL.
type TokenRepo struct {
	pool *pgxpool.Pool
}

func NewTokenRepo(pool *pgxpool.Pool) *TokenRepo {
	return &TokenRepo{pool: pool}
}

func (r *TokenRepo) DeleteUnconsumed(ctx context.Context, discordID string) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM link_tokens WHERE discord_user_id = $1 AND consumed_at IS NULL`, discordID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete unconsumed tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *TokenRepo) Insert(ctx context.Context, token *domain.LinkToken) (*domain.LinkToken, error) {
	var stored domain.LinkToken
	err := r.pool.QueryRow(ctx, `
		INSERT INTO link_tokens (token, discord_user_id, created_at)
		VALUES ($1, $2, $3)
		RETURNING id, token, discord_user_id, created_at, consumed_at
	`, token.Token, token.DiscordID, token.CreatedAt).Scan(
		&stored.ID, &stored.Token, &stored.DiscordID, &stored.CreatedAt, &stored.ConsumedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert link token: %w", err)
	}
	return &stored, nil
}

// GameLinkRepo implements domain.GameLinkRepository backed by PostgreSQL.
type GameLinkRepo struct {
	pool *pgxpool.Pool
}

func NewGameLinkRepo(pool *pgxpool.Pool) *GameLinkRepo {
	return &GameLinkRepo{pool: pool}
}

func (r *GameLinkRepo) GetCkey(ctx context.Context, discordID string) (string, error) {
	var ckey string
	err := r.pool.QueryRow(ctx,
		`SELECT byond_ckey FROM game_links WHERE discord_user_id = $1`, discordID).Scan(&ckey)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", domain.ErrNotLinked
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up game link: %w", err)
	}
	return ckey, nil
}
