package worker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	repoMocks "ticketapi/internal/repository/mocks"
)

func TestExpirySweeper_RunOnce(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	cutoff := now.Add(-30 * time.Minute)

	full := make([]string, sweepBatch)
	for i := range full {
		full[i] = fmt.Sprintf("TK-%d", i)
	}

	t.Run("drains in batches", func(t *testing.T) {
		repo := &repoMocks.MockOrderRepository{}
		s := NewExpirySweeper(repo, 30*time.Minute, time.Minute, nil)
		s.now = func() time.Time { return now }

		repo.On("ExpirePending", ctx, cutoff, sweepBatch).Return(full, nil).Once()
		repo.On("ExpirePending", ctx, cutoff, sweepBatch).Return([]string{"TK-x"}, nil).Once()

		n, err := s.RunOnce(ctx)
		require.NoError(t, err)
		assert.Equal(t, sweepBatch+1, n)
		repo.AssertExpectations(t)
	})

	t.Run("error", func(t *testing.T) {
		repo := &repoMocks.MockOrderRepository{}
		s := NewExpirySweeper(repo, 30*time.Minute, time.Minute, nil)
		s.now = func() time.Time { return now }

		repo.On("ExpirePending", ctx, cutoff, sweepBatch).Return(nil, errors.New("db down"))

		n, err := s.RunOnce(ctx)
		assert.EqualError(t, err, "db down")
		assert.Zero(t, n)
	})
}

func TestExpirySweeper_DisabledReturnsImmediately(t *testing.T) {
	repo := &repoMocks.MockOrderRepository{}
	s := NewExpirySweeper(repo, 0, time.Millisecond, nil)

	done := make(chan struct{})
	go func() {
		s.Run(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("disabled sweeper kept running")
	}
	repo.AssertNotCalled(t, "ExpirePending")
}
