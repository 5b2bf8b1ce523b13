package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procure-notify/internal/domain/entity"
)

type fakeLogRepo struct {
	mu   sync.Mutex
	logs []*entity.DeliveryLog
	err  error
}

func (f *fakeLogRepo) Create(ctx context.Context, log *entity.DeliveryLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.logs = append(f.logs, log)
	return nil
}

func (f *fakeLogRepo) ListRecent(ctx context.Context, limit int) ([]*entity.DeliveryLog, error) {
	return nil, nil
}

func (f *fakeLogRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func TestRun_AllSucceed(t *testing.T) {
	logs := &fakeLogRepo{}
	svc := &Service{Logs: logs}

	var mu sync.Mutex
	var sent []string
	summary, err := svc.Run(context.Background(), Job{
		Channel:    entity.ChannelEmail,
		SentBy:     "admin@example.com",
		Subject:    "New request",
		Recipients: []string{"a@example.com", "b@example.com", "c@example.com"},
		Send: func(ctx context.Context, recipient string) error {
			mu.Lock()
			sent = append(sent, recipient)
			mu.Unlock()
			return nil
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TargetCount)
	assert.Equal(t, 3, summary.SuccessCount)
	assert.Len(t, summary.Results, 3)
	assert.Len(t, sent, 3)

	require.Len(t, logs.logs, 1)
	assert.Equal(t, entity.ChannelEmail, logs.logs[0].Channel)
	assert.Equal(t, 3, logs.logs[0].TargetCount)
	assert.Equal(t, 3, logs.logs[0].SuccessCount)
	assert.Equal(t, "admin@example.com", logs.logs[0].SentBy)
}

// One failing recipient must neither abort siblings nor vanish from the
// result list.
func TestRun_PartialFailure(t *testing.T) {
	logs := &fakeLogRepo{}
	svc := &Service{Logs: logs}

	summary, err := svc.Run(context.Background(), Job{
		Channel:    entity.ChannelPush,
		SentBy:     "admin@example.com",
		Subject:    "Status changed",
		Recipients: []string{"u1", "u2", "u3"},
		Send: func(ctx context.Context, recipient string) error {
			if recipient == "u2" {
				return errors.New("endpoint gone")
			}
			return nil
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TargetCount)
	assert.Equal(t, 2, summary.SuccessCount)
	require.Len(t, summary.Results, 3)

	// Result order mirrors recipient order.
	assert.True(t, summary.Results[0].Success)
	assert.False(t, summary.Results[1].Success)
	assert.EqualError(t, summary.Results[1].Err, "endpoint gone")
	assert.True(t, summary.Results[2].Success)

	require.Len(t, logs.logs, 1)
	assert.Equal(t, 2, logs.logs[0].SuccessCount)
}

func TestRun_EmptyRecipients(t *testing.T) {
	logs := &fakeLogRepo{}
	svc := &Service{Logs: logs}

	_, err := svc.Run(context.Background(), Job{
		Channel:    entity.ChannelEmail,
		Recipients: nil,
		Send:       func(ctx context.Context, recipient string) error { return nil },
	})
	assert.ErrorIs(t, err, entity.ErrNoTargets)
	assert.Empty(t, logs.logs, "no targets must write no delivery log")
}

func TestRun_AllFail(t *testing.T) {
	svc := &Service{Logs: &fakeLogRepo{}}

	summary, err := svc.Run(context.Background(), Job{
		Channel:    entity.ChannelEmail,
		Recipients: []string{"a@example.com"},
		Send: func(ctx context.Context, recipient string) error {
			return &entity.TransportError{Channel: entity.ChannelEmail, Message: "down"}
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TargetCount)
	assert.Equal(t, 0, summary.SuccessCount)
}

func TestRun_SendPanicIsContained(t *testing.T) {
	svc := &Service{Logs: &fakeLogRepo{}}

	summary, err := svc.Run(context.Background(), Job{
		Channel:    entity.ChannelPush,
		Recipients: []string{"u1", "u2"},
		Send: func(ctx context.Context, recipient string) error {
			if recipient == "u1" {
				panic("boom")
			}
			return nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.SuccessCount)
	assert.False(t, summary.Results[0].Success)
	assert.True(t, summary.Results[1].Success)
}

func TestRun_LogWriteFailureDoesNotFailDispatch(t *testing.T) {
	svc := &Service{Logs: &fakeLogRepo{err: errors.New("db down")}}

	summary, err := svc.Run(context.Background(), Job{
		Channel:    entity.ChannelEmail,
		Recipients: []string{"a@example.com"},
		Send:       func(ctx context.Context, recipient string) error { return nil },
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.SuccessCount)
}

// The join must wait for every task, including slow ones.
func TestRun_WaitsForAllTasks(t *testing.T) {
	svc := &Service{Logs: &fakeLogRepo{}}

	var done sync.WaitGroup
	done.Add(1)
	start := time.Now()
	summary, err := svc.Run(context.Background(), Job{
		Channel:    entity.ChannelEmail,
		Recipients: []string{"fast@example.com", "slow@example.com"},
		Send: func(ctx context.Context, recipient string) error {
			if recipient == "slow@example.com" {
				defer done.Done()
				time.Sleep(50 * time.Millisecond)
			}
			return nil
		},
	})
	require.NoError(t, err)
	done.Wait()
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	assert.Equal(t, 2, summary.SuccessCount)
}
