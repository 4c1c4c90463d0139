package utils

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Circuit Breaker Tests

func TestCircuitBreaker_ExecuteSuccess(t *testing.T) {
	cb := NewCircuitBreaker("notify")
	ctx := context.Background()

	result, err := cb.Execute(ctx, func() (any, error) {
		return "published", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "published", result)
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(1), cb.counts.Requests)
	assert.Equal(t, uint32(1), cb.counts.TotalSuccesses)
}

func TestCircuitBreaker_ExecuteFailure(t *testing.T) {
	cb := NewCircuitBreaker("notify")
	ctx := context.Background()

	publishErr := errors.New("publish failed")
	result, err := cb.Execute(ctx, func() (any, error) {
		return nil, publishErr
	})

	assert.Equal(t, publishErr, err)
	assert.Nil(t, result)
	assert.Equal(t, uint32(1), cb.counts.TotalFailures)
}

func TestCircuitBreaker_TripsOpenAndRejects(t *testing.T) {
	cb := NewCircuitBreaker("notify")
	cb.maxRequests = 5
	cb.failureRatio = 0.6

	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := cb.Execute(ctx, func() (any, error) { return "ok", nil })
		assert.NoError(t, err)
	}
	for i := 0; i < 4; i++ {
		_, err := cb.Execute(ctx, func() (any, error) { return nil, errors.New("down") })
		assert.Error(t, err)
	}

	assert.Equal(t, StateOpen, cb.State())

	_, err := cb.Execute(ctx, func() (any, error) {
		t.Fatal("must not execute while open")
		return nil, nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is open")
}

func TestCircuitBreaker_RecoversAfterTimeout(t *testing.T) {
	cb := NewCircuitBreaker("notify")
	cb.maxRequests = 3
	cb.failureRatio = 0.5
	cb.timeout = 50 * time.Millisecond

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		cb.Execute(ctx, func() (any, error) { return nil, errors.New("down") })
	}
	assert.Equal(t, StateOpen, cb.State())

	time.Sleep(80 * time.Millisecond)

	_, err := cb.Execute(ctx, func() (any, error) { return "ok", nil })
	assert.NoError(t, err)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_PanicRecovery(t *testing.T) {
	cb := NewCircuitBreaker("notify")
	ctx := context.Background()

	assert.Panics(t, func() {
		cb.Execute(ctx, func() (any, error) {
			panic("boom")
		})
	})

	result, err := cb.Execute(ctx, func() (any, error) {
		return "recovered", nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "recovered", result)
}

func TestCircuitBreaker_ConcurrentAccess(t *testing.T) {
	cb := NewCircuitBreaker("concurrent")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cb.Execute(ctx, func() (any, error) { return "ok", nil })
		}()
	}
	wg.Wait()

	assert.Equal(t, uint32(100), cb.counts.Requests)
}

// Redis Client Tests

func TestRedisHealthCheck_Success(t *testing.T) {
	db, mock := redismock.NewClientMock()

	mock.ExpectPing().SetVal("PONG")

	assert.NoError(t, RedisHealthCheck(db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisHealthCheck_Failure(t *testing.T) {
	db, mock := redismock.NewClientMock()

	mock.ExpectPing().SetErr(errors.New("connection failed"))

	err := RedisHealthCheck(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis health check failed")
}

// Confirmation Codes

func TestGenerateConfirmationCode(t *testing.T) {
	code, err := GenerateConfirmationCode(8)
	require.NoError(t, err)
	assert.Len(t, code, 16, "hex doubles the byte length")
	assert.Equal(t, code, strings.ToUpper(code))

	other, err := GenerateConfirmationCode(8)
	require.NoError(t, err)
	assert.NotEqual(t, code, other)
}
