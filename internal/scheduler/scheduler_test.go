package scheduler

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCleaner struct {
	removed int64
	err     error
	calls   atomic.Int32
}

func (f *fakeCleaner) CleanupExpired(context.Context) (int64, error) {
	f.calls.Add(1)
	return f.removed, f.err
}

type fakePruner struct {
	calls atomic.Int32
}

func (f *fakePruner) Prune() int {
	f.calls.Add(1)
	return 1
}

func TestCleanupTokens_LogsResult(t *testing.T) {
	var buf bytes.Buffer
	s := New(zerolog.New(&buf))

	s.cleanupTokens(&fakeCleaner{removed: 3})

	assert.Contains(t, buf.String(), `"removed":3`)
	assert.Contains(t, buf.String(), "expired refresh tokens purged")
}

func TestCleanupTokens_LogsFailure(t *testing.T) {
	var buf bytes.Buffer
	s := New(zerolog.New(&buf))

	s.cleanupTokens(&fakeCleaner{err: errors.New("db down")})

	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), "db down")
}

func TestAddJobs_InvalidSpec(t *testing.T) {
	s := New(zerolog.Nop())

	assert.Error(t, s.AddTokenCleanup("not a schedule", &fakeCleaner{}))
	assert.Error(t, s.AddLimiterPrune("not a schedule", &fakePruner{}))
}

func TestScheduler_RunsJobs(t *testing.T) {
	s := New(zerolog.Nop())
	cleaner := &fakeCleaner{}
	pruner := &fakePruner{}

	require.NoError(t, s.AddTokenCleanup("@every 1s", cleaner))
	require.NoError(t, s.AddLimiterPrune("@every 1s", pruner))
	assert.Len(t, s.cron.Entries(), 2)

	s.Start()
	assert.Eventually(t, func() bool {
		return cleaner.calls.Load() > 0 && pruner.calls.Load() > 0
	}, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
