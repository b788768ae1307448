package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("SESSION_SECRET", "test-session-secret")
}

func TestLoad_AllRequiredVarsSet(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/test", cfg.DatabaseURL)
	assert.Equal(t, "test-session-secret", cfg.SessionSecret)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "local", cfg.UploadBackend)
	assert.Equal(t, int64(10485760), cfg.MaxUploadSize)
	assert.False(t, cfg.MailEnabled())
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SESSION_SECRET", "test-session-secret")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_MissingSessionSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("SESSION_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestLoad_InvalidUploadBackend(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("UPLOAD_BACKEND", "ftp")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UPLOAD_BACKEND")
}

func TestLoad_S3BackendRequiresCredentials(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("UPLOAD_BACKEND", "s3")
	t.Setenv("S3_ENDPOINT", "minio:9000")
	t.Setenv("S3_ACCESS_KEY", "access")
	t.Setenv("S3_SECRET_KEY", "secret")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S3_BUCKET")
}

func TestLoad_S3BackendComplete(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("UPLOAD_BACKEND", "s3")
	t.Setenv("S3_ENDPOINT", "minio:9000")
	t.Setenv("S3_ACCESS_KEY", "access")
	t.Setenv("S3_SECRET_KEY", "secret")
	t.Setenv("S3_BUCKET", "uploads")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "s3", cfg.UploadBackend)
}

func TestLoad_TokenEncryptionKeyValidation(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TOKEN_ENCRYPTION_KEY", "not-hex")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TOKEN_ENCRYPTION_KEY")

	t.Setenv("TOKEN_ENCRYPTION_KEY", "0011")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("TOKEN_ENCRYPTION_KEY",
		"0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef")
	_, err = Load()
	require.NoError(t, err)
}

func TestLoad_PartialSMTPRejected(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SMTP_HOST", "mail.example.com")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP")
}

func TestLoad_FullSMTPEnablesMail(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SMTP_HOST", "mail.example.com")
	t.Setenv("SMTP_USER", "forum")
	t.Setenv("SMTP_PASS", "secret")
	t.Setenv("SENDER_EMAIL", "noreply@example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.MailEnabled())
}
