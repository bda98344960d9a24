package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueRunsJobAndRecordsDone(t *testing.T) {
	done := make(chan string, 1)
	q := NewQueue("test", func(_ context.Context, job Job) error {
		done <- job.ID
		return nil
	}, QueueConfig{})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "a", Type: "analysis"}))
	select {
	case id := <-done:
		assert.Equal(t, "a", id)
	case <-time.After(time.Second):
		t.Fatal("job not processed")
	}

	require.Eventually(t, func() bool {
		st, ok := q.Status("a")
		return ok && st.State == StateDone
	}, time.Second, 5*time.Millisecond)
}

func TestQueueRetriesThenFails(t *testing.T) {
	var calls int32
	q := NewQueue("test", func(context.Context, Job) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("boom")
	}, QueueConfig{MaxRetries: 1, RetryDelay: 5 * time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "b"}))
	require.Eventually(t, func() bool {
		st, ok := q.Status("b")
		return ok && st.State == StateFailed
	}, time.Second, 5*time.Millisecond)

	st, _ := q.Status("b")
	assert.Equal(t, "boom", st.Error)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestQueueRejectsBeforeStart(t *testing.T) {
	q := NewQueue("idle", func(context.Context, Job) error { return nil }, QueueConfig{})
	assert.Error(t, q.Enqueue(Job{ID: "c"}))

	q.Start(context.Background())
	defer q.Stop()
	assert.Error(t, q.Enqueue(Job{}))
}
