package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func retryAll(error) Action { return Retry }

func TestDoVoid_SucceedsFirstTry(t *testing.T) {
	calls := 0
	err := DoVoid(context.Background(), Policy{MaxAttempts: 3, InitialBackoff: time.Millisecond}, retryAll, func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoVoid_RetriesTransientErrors(t *testing.T) {
	calls := 0
	err := DoVoid(context.Background(), Policy{MaxAttempts: 3, InitialBackoff: time.Millisecond}, retryAll, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoVoid_ExhaustsAttempts(t *testing.T) {
	boom := errors.New("still failing")
	calls := 0
	err := DoVoid(context.Background(), Policy{MaxAttempts: 3, InitialBackoff: time.Millisecond}, retryAll, func() error {
		calls++
		return boom
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestDoVoid_StopsOnPermanentError(t *testing.T) {
	boom := errors.New("bad address")
	classify := func(error) Action { return Stop }

	calls := 0
	err := DoVoid(context.Background(), Policy{MaxAttempts: 3, InitialBackoff: time.Millisecond}, classify, func() error {
		calls++
		return boom
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)

	var perm *PermanentError
	assert.ErrorAs(t, err, &perm)
	assert.ErrorIs(t, err, boom)
}

func TestDoVoid_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := DoVoid(ctx, Policy{MaxAttempts: 3, InitialBackoff: time.Minute}, retryAll, func() error {
		return errors.New("transient")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDoVoid_CallsOnRetry(t *testing.T) {
	attempts := []int{}
	policy := Policy{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		OnRetry: func(attempt int, err error, backoff time.Duration) {
			attempts = append(attempts, attempt)
		},
	}

	_ = DoVoid(context.Background(), policy, retryAll, func() error {
		return errors.New("transient")
	})

	assert.Equal(t, []int{1, 2}, attempts, "no OnRetry after the final attempt")
}
