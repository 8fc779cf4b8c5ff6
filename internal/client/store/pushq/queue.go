// Package pushq serializes fire-and-forget remote pushes per record
// identifier. Pushes for different records run concurrently; pushes for the
// same record run in enqueue order, so overlapping mutations of one record
// cannot interleave on the wire.
package pushq

import (
	"sync"

	"go.uber.org/zap"
)

// Queue runs enqueued tasks asynchronously, one at a time per key.
type Queue struct {
	mu    sync.Mutex
	tails map[string]chan struct{}
	wg    sync.WaitGroup
	log   *zap.Logger
}

// New constructs an empty Queue logging swallowed task errors to log.
func New(log *zap.Logger) *Queue {
	return &Queue{
		tails: make(map[string]chan struct{}),
		log:   log,
	}
}

// Enqueue schedules task to run after any earlier task for the same key has
// finished. Task errors are logged and otherwise swallowed; the local write
// that triggered the push stays authoritative.
func (q *Queue) Enqueue(key string, task func() error) {
	q.mu.Lock()
	prev := q.tails[key]
	done := make(chan struct{})
	q.tails[key] = done
	q.wg.Add(1)
	q.mu.Unlock()

	go func() {
		defer q.wg.Done()
		defer close(done)

		if prev != nil {
			<-prev
		}
		if err := task(); err != nil {
			q.log.Warn("push failed", zap.String("record", key), zap.Error(err))
		}

		q.mu.Lock()
		if q.tails[key] == done {
			delete(q.tails, key)
		}
		q.mu.Unlock()
	}()
}

// WaitIdle blocks until every task enqueued so far has finished. Tests use
// it to observe the remote state after fire-and-forget mutations.
func (q *Queue) WaitIdle() {
	q.wg.Wait()
}
