package future

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFuture_StartsPending(t *testing.T) {
	fut := New()

	require.Equal(t, StatePending, fut.State())
	require.False(t, fut.Running())
	require.False(t, fut.Finished())
	require.False(t, fut.Cancelled())
}

func TestFuture_ResolveDeliversValue(t *testing.T) {
	fut := New()
	require.True(t, fut.SetRunning())
	fut.Resolve(42)

	value, err := fut.Result(context.Background())
	require.NoError(t, err)
	require.Equal(t, 42, value)
	require.True(t, fut.Finished())
}

func TestFuture_RejectDeliversError(t *testing.T) {
	taskErr := errors.New("boom")
	fut := New()
	fut.Reject(taskErr)

	_, err := fut.Result(context.Background())
	require.ErrorIs(t, err, taskErr)
	require.True(t, fut.Finished())
}

func TestFuture_ResultBlocksUntilResolved(t *testing.T) {
	fut := New()

	go func() {
		time.Sleep(20 * time.Millisecond)
		fut.Resolve("done")
	}()

	value, err := fut.Result(context.Background())
	require.NoError(t, err)
	require.Equal(t, "done", value)
}

func TestFuture_ResultHonorsContextDeadline(t *testing.T) {
	fut := New()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := fut.Result(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// The handle itself is untouched by the caller's deadline.
	require.Equal(t, StatePending, fut.State())
}

func TestFuture_CancelSucceedsOnlyWhilePending(t *testing.T) {
	fut := New()
	require.True(t, fut.Cancel())
	require.True(t, fut.Cancelled())

	_, err := fut.Result(context.Background())
	require.ErrorIs(t, err, ErrCancelled)

	running := New()
	require.True(t, running.SetRunning())
	require.False(t, running.Cancel())
	require.True(t, running.Running())

	finished := New()
	finished.Resolve(1)
	require.False(t, finished.Cancel())
	require.True(t, finished.Finished())
}

func TestFuture_SetRunningFailsOnceCancelled(t *testing.T) {
	fut := New()
	require.True(t, fut.Cancel())
	require.False(t, fut.SetRunning())
}

func TestFuture_ResolvesExactlyOnce(t *testing.T) {
	fut := New()
	fut.Resolve(1)
	fut.Resolve(2)
	fut.Reject(errors.New("late"))

	value, err := fut.Result(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, value)
}

func TestFuture_DoneClosesOnResolution(t *testing.T) {
	fut := New()

	select {
	case <-fut.Done():
		t.Fatal("done channel closed before resolution")
	default:
	}

	fut.Resolve(nil)

	select {
	case <-fut.Done():
	case <-time.After(time.Second):
		t.Fatal("done channel not closed after resolution")
	}
}
