package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (r *countingRefresher) Refresh(ctx context.Context) (int, error) {
	r.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("refresh without deadline")
	}
	return 42, r.err
}

func TestInvalidSchedule(t *testing.T) {
	_, err := New("every tuesday", &countingRefresher{}, time.Minute, nil)
	assert.Error(t, err)
}

func TestRunLogsOutcome(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := &countingRefresher{}
	s, err := New("@daily", r, time.Minute, zap.New(core))
	require.NoError(t, err)

	s.run()
	assert.Equal(t, int32(1), r.calls.Load())
	assert.Equal(t, 1, logs.FilterMessage("scheduled catalog refresh finished").Len())

	r.err = errors.New("steam down")
	s.run()
	assert.Equal(t, 1, logs.FilterMessage("scheduled catalog refresh failed").Len())
	assert.Equal(t, int64(2), s.Runs())
}

func TestStartRunsOnSchedule(t *testing.T) {
	r := &countingRefresher{}
	s, err := New("@every 1s", r, time.Minute, nil)
	require.NoError(t, err)

	s.Start()
	require.Eventually(t, func() bool { return s.Runs() >= 1 }, 3*time.Second, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)

	n := r.calls.Load()
	assert.GreaterOrEqual(t, n, int32(1))
}
