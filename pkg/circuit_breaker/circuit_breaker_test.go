package circuit_breaker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Astemirdum/library-management/pkg/circuit_breaker"
	"github.com/stretchr/testify/require"
)

func Test_circuitBreaker_Call(t *testing.T) {
	t.Parallel()

	successfulService := func() error {
		return nil
	}
	errService := errors.New("service error")
	failingService := func() error {
		return errService
	}

	t.Run("stays closed on success", func(t *testing.T) {
		t.Parallel()
		cb := circuit_breaker.New(10, time.Second, 0.3, 2)
		for i := 0; i < 50; i++ {
			require.NoError(t, cb.Call(successfulService))
		}
		require.Equal(t, circuit_breaker.Closed, cb.State())
	})

	t.Run("opens after failure ratio and short-circuits", func(t *testing.T) {
		t.Parallel()
		cb := circuit_breaker.New(4, time.Minute, 0.5, 1)
		require.ErrorIs(t, cb.Call(failingService), errService)
		require.Equal(t, circuit_breaker.Closed, cb.State())
		require.ErrorIs(t, cb.Call(failingService), errService)
		require.Equal(t, circuit_breaker.Open, cb.State())

		called := false
		err := cb.Call(func() error {
			called = true
			return nil
		})
		require.ErrorIs(t, err, circuit_breaker.ErrOpenCB)
		require.False(t, called)
	})

	t.Run("half-open recovers to closed", func(t *testing.T) {
		t.Parallel()
		cb := circuit_breaker.New(2, 20*time.Millisecond, 0.5, 1)
		_ = cb.Call(failingService)
		require.Equal(t, circuit_breaker.Open, cb.State())

		time.Sleep(40 * time.Millisecond)
		require.NoError(t, cb.Call(successfulService))
		require.Equal(t, circuit_breaker.HalfOpen, cb.State())
		require.NoError(t, cb.Call(successfulService))
		require.Equal(t, circuit_breaker.Closed, cb.State())
	})

	t.Run("half-open failure reopens", func(t *testing.T) {
		t.Parallel()
		cb := circuit_breaker.New(2, 20*time.Millisecond, 0.5, 3)
		_ = cb.Call(failingService)
		time.Sleep(40 * time.Millisecond)
		require.ErrorIs(t, cb.Call(failingService), errService)
		require.Equal(t, circuit_breaker.Open, cb.State())
	})

	t.Run("reset closes", func(t *testing.T) {
		t.Parallel()
		cb := circuit_breaker.New(1, time.Minute, 1, 1)
		_ = cb.Call(failingService)
		require.Equal(t, circuit_breaker.Open, cb.State())
		cb.Reset()
		require.Equal(t, circuit_breaker.Closed, cb.State())
		require.NoError(t, cb.Call(successfulService))
	})
}
