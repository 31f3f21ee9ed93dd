package queue

import "context"

// MemoryDriver is a buffered in-process queue, the default backend. Jobs
// dispatched here do not survive a restart; use the Redis driver when that
// matters.
type MemoryDriver struct {
	ch chan []byte
}

// NewMemoryDriver creates an in-memory driver with a 1024-job buffer.
func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{ch: make(chan []byte, 1024)}
}

func (d *MemoryDriver) Push(payload []byte) error {
	d.ch <- payload
	return nil
}

func (d *MemoryDriver) Pop(ctx context.Context) ([]byte, error) {
	select {
	case payload := <-d.ch:
		return payload, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
