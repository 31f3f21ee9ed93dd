package queue

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var handled atomic.Int32

type CountJob struct {
	N int32 `json:"n"`
}

func (j *CountJob) Handle() error {
	handled.Add(j.N)
	return nil
}

func TestDispatchAndWork(t *testing.T) {
	handled.Store(0)
	SetDriver(NewMemoryDriver())
	Register("CountJob", func() Job { return &CountJob{} })

	require.NoError(t, Dispatch(&CountJob{N: 2}))
	require.NoError(t, Dispatch(&CountJob{N: 3}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Work(ctx, 2)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return handled.Load() == 5
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

type UnregisteredJob struct{}

func (j *UnregisteredJob) Handle() error { return nil }

func TestDispatchUnregistered(t *testing.T) {
	assert.Error(t, Dispatch(&UnregisteredJob{}))
}
