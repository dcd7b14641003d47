package retry

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/BaSui01/genesis/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(maxRetries int) *RetryPolicy {
	return &RetryPolicy{
		MaxRetries:   maxRetries,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	r := NewBackoffRetryer(fastPolicy(3), nil)

	calls := 0
	err := r.Do(context.Background(), func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	r := NewBackoffRetryer(fastPolicy(3), nil)

	calls := 0
	err := r.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ExhaustsRetries(t *testing.T) {
	r := NewBackoffRetryer(fastPolicy(2), nil)

	calls := 0
	err := r.Do(context.Background(), func() error {
		calls++
		return errors.New("always failing")
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "failed after 2 retries")
}

func TestDo_NonRetryableTypedErrorStopsImmediately(t *testing.T) {
	r := NewBackoffRetryer(fastPolicy(5), nil)

	notFound := types.NewError(types.ErrModelNotFound, "model missing").
		WithHTTPStatus(http.StatusNotFound)

	calls := 0
	err := r.Do(context.Background(), func() error {
		calls++
		return notFound
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, types.ErrModelNotFound, types.GetErrorCode(err))
}

func TestDo_RetryableTypedErrorRetries(t *testing.T) {
	r := NewBackoffRetryer(fastPolicy(2), nil)

	unavailable := types.NewError(types.ErrProviderUnavailable, "connection refused").
		WithRetryable(true)

	calls := 0
	err := r.Do(context.Background(), func() error {
		calls++
		return unavailable
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ContextCancellation(t *testing.T) {
	r := NewBackoffRetryer(&RetryPolicy{
		MaxRetries:   5,
		InitialDelay: time.Second,
		MaxDelay:     time.Second,
		Multiplier:   2.0,
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := r.Do(ctx, func() error {
		calls++
		return errors.New("transient")
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestCalculateDelay_IsCapped(t *testing.T) {
	r := NewBackoffRetryer(&RetryPolicy{
		MaxRetries:   10,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   3.0,
	}, nil).(*backoffRetryer)

	for attempt := 1; attempt <= 10; attempt++ {
		delay := r.calculateDelay(attempt)
		assert.GreaterOrEqual(t, delay, 100*time.Millisecond)
		assert.LessOrEqual(t, delay, time.Second)
	}
}
