// Package queue runs background jobs (catalog snapshot exports) off the
// request path.
//
//	type SnapshotJob struct{ Disk string }
//	func (j SnapshotJob) Handle() error { ... }
//
//	queue.Register("SnapshotJob", func() queue.Job { return &SnapshotJob{} })
//	queue.Dispatch(&SnapshotJob{Disk: "s3"})
//	queue.Work(ctx, 2) // usually from `pecaforte queue:work`
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/pecaforte/inventory/pkg/logger"
	"github.com/pecaforte/inventory/pkg/metrics"
)

// Job is the interface every queued job must satisfy.
type Job interface {
	// Handle executes the job. Return a non-nil error to signal failure.
	Handle() error
}

// FailedJob holds information about a job that exhausted its retries.
type FailedJob struct {
	Type     string
	Err      error
	FailedAt time.Time
	Attempts int
}

// Driver is the queue storage backend.
type Driver interface {
	Push(payload []byte) error
	// Pop blocks until a payload is available or ctx is done.
	Pop(ctx context.Context) ([]byte, error)
}

type envelope struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Attempts int             `json:"attempts"`
}

// Manager is the central queue hub.
type Manager struct {
	mu       sync.RWMutex
	driver   Driver
	registry map[string]func() Job // type name → constructor
	failed   []FailedJob
	maxRetry int
}

var defaultManager = &Manager{
	registry: map[string]func() Job{},
	maxRetry: 3,
	driver:   NewMemoryDriver(),
}

// SetDriver swaps the underlying queue driver (e.g. Redis).
func SetDriver(d Driver) {
	defaultManager.mu.Lock()
	defer defaultManager.mu.Unlock()
	defaultManager.driver = d
}

// Register makes a job type available for deserialization by name.
// Call once at boot for every job type.
func Register(name string, factory func() Job) {
	defaultManager.mu.Lock()
	defer defaultManager.mu.Unlock()
	defaultManager.registry[name] = factory
}

// Dispatch pushes job onto the queue. The job type must have been
// registered under its type name.
func Dispatch(job Job) error {
	return defaultManager.push(job)
}

// Failed returns the jobs that exhausted their retries since boot.
func Failed() []FailedJob {
	defaultManager.mu.RLock()
	defer defaultManager.mu.RUnlock()

	out := make([]FailedJob, len(defaultManager.failed))
	copy(out, defaultManager.failed)
	return out
}

// Work runs n worker goroutines until ctx is cancelled.
func Work(ctx context.Context, n int) {
	if n < 1 {
		n = 1
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			defaultManager.workLoop(ctx, id)
		}(i)
	}
	wg.Wait()
}

func (m *Manager) push(job Job) error {
	name := typeName(job)

	m.mu.RLock()
	_, registered := m.registry[name]
	driver := m.driver
	m.mu.RUnlock()

	if !registered {
		return fmt.Errorf("queue: job type %q is not registered", name)
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("queue: marshal %s: %w", name, err)
	}

	data, err := json.Marshal(envelope{Type: name, Payload: payload})
	if err != nil {
		return err
	}

	return driver.Push(data)
}

func (m *Manager) workLoop(ctx context.Context, id int) {
	for {
		m.mu.RLock()
		driver := m.driver
		m.mu.RUnlock()

		data, err := driver.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("queue: pop failed", "worker", id, "error", err)
			time.Sleep(time.Second)
			continue
		}

		m.process(data)
	}
}

func (m *Manager) process(data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		logger.Error("queue: bad envelope", "error", err)
		metrics.QueueJobsProcessed.WithLabelValues("failed").Inc()
		return
	}

	m.mu.RLock()
	factory, ok := m.registry[env.Type]
	maxRetry := m.maxRetry
	driver := m.driver
	m.mu.RUnlock()

	if !ok {
		logger.Error("queue: unknown job type", "type", env.Type)
		metrics.QueueJobsProcessed.WithLabelValues("failed").Inc()
		return
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		logger.Error("queue: unmarshal job", "type", env.Type, "error", err)
		metrics.QueueJobsProcessed.WithLabelValues("failed").Inc()
		return
	}

	if err := job.Handle(); err != nil {
		env.Attempts++
		if env.Attempts < maxRetry {
			logger.Warn("queue: job failed, retrying",
				"type", env.Type, "attempt", env.Attempts, "error", err)
			if data, mErr := json.Marshal(env); mErr == nil {
				_ = driver.Push(data)
			}
			return
		}

		logger.Error("queue: job failed permanently", "type", env.Type, "error", err)
		metrics.QueueJobsProcessed.WithLabelValues("failed").Inc()

		m.mu.Lock()
		m.failed = append(m.failed, FailedJob{
			Type:     env.Type,
			Err:      err,
			FailedAt: time.Now(),
			Attempts: env.Attempts,
		})
		m.mu.Unlock()
		return
	}

	metrics.QueueJobsProcessed.WithLabelValues("success").Inc()
}

func typeName(job Job) string {
	t := reflect.TypeOf(job)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
