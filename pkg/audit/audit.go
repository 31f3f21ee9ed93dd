// Package audit records stock movements to MongoDB. Every mutation that
// touches the ledger or the catalog leaves a document behind, so "who changed
// what and when" survives beyond the current state of the SQL tables.
//
// Writes are asynchronous: Record pushes onto a buffered channel and a
// background goroutine batches inserts, so a slow or absent Mongo never sits
// on the request path. With AUDIT_MONGO_URI unset the recorder is a no-op.
package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pecaforte/inventory/config"
	"github.com/pecaforte/inventory/pkg/logger"
)

const (
	bufferSize    = 1024
	batchSize     = 50
	flushInterval = 2 * time.Second
	insertTimeout = 5 * time.Second
)

// Movement is one audit document.
type Movement struct {
	Operation string    `bson:"operation"` // add|update|delete|set_stock
	Category  string    `bson:"category"`
	ProductID string    `bson:"product_id,omitempty"`
	Delta     int       `bson:"delta"`
	Stock     int       `bson:"stock"` // pool level after the operation
	At        time.Time `bson:"at"`
}

// Recorder ships movements to a Mongo collection. The zero value (and a nil
// pointer) is a disabled recorder that drops everything.
type Recorder struct {
	coll *mongo.Collection
	ch   chan Movement
	done chan struct{}
}

// Connect dials Mongo and starts the drain goroutine. Returns a disabled
// recorder (nil error) when no URI is configured.
func Connect(ctx context.Context) (*Recorder, error) {
	uri := config.AuditMongoURI()
	if uri == "" {
		return nil, nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(dialCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(dialCtx, nil); err != nil {
		return nil, err
	}

	r := &Recorder{
		coll: client.Database(config.AuditMongoDatabase()).Collection(config.AuditMongoCollection()),
		ch:   make(chan Movement, bufferSize),
		done: make(chan struct{}),
	}
	go r.drain()

	logger.Info("audit: recording stock movements",
		"db", config.AuditMongoDatabase(),
		"collection", config.AuditMongoCollection(),
	)
	return r, nil
}

// Record enqueues a movement. Never blocks; if the buffer is full the
// movement is dropped and counted in the log.
func (r *Recorder) Record(m Movement) {
	if r == nil || r.coll == nil {
		return
	}
	if m.At.IsZero() {
		m.At = time.Now().UTC()
	}
	select {
	case r.ch <- m:
	default:
		logger.Warn("audit: buffer full, movement dropped", "operation", m.Operation)
	}
}

// Close flushes buffered movements and stops the drain goroutine.
func (r *Recorder) Close() {
	if r == nil || r.coll == nil {
		return
	}
	close(r.ch)
	<-r.done
}

func (r *Recorder) drain() {
	defer close(r.done)

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	batch := make([]interface{}, 0, batchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
		if _, err := r.coll.InsertMany(ctx, batch); err != nil {
			logger.Error("audit: insert failed", "count", len(batch), "error", err)
		}
		cancel()
		batch = batch[:0]
	}

	for {
		select {
		case m, ok := <-r.ch:
			if !ok {
				flush()
				return
			}
			batch = append(batch, m)
			if len(batch) >= batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

// Recent returns the latest movements, newest first, for the trail endpoint.
func (r *Recorder) Recent(ctx context.Context, limit int64) ([]Movement, error) {
	if r == nil || r.coll == nil {
		return nil, nil
	}
	opts := options.Find().
		SetSort(map[string]interface{}{"at": -1}).
		SetLimit(limit)
	cur, err := r.coll.Find(ctx, map[string]interface{}{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Movement
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
