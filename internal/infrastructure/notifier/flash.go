// Package notifier delivers notifications raised by page controllers: into a
// per-session flash queue drained by the next page response, and to the
// session's live websocket clients.
package notifier

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/janhq/jan-crm/internal/domain/notify"
)

// FlashStore keeps undelivered notifications per session key. Each queue holds
// at most its capacity; older entries are dropped first.
type FlashStore interface {
	Push(ctx context.Context, key string, n notify.Notification) error
	Drain(ctx context.Context, key string) ([]notify.Notification, error)
}

// MemoryFlash is a process-local FlashStore. The least recently used sessions
// are evicted once maxSessions is reached.
type MemoryFlash struct {
	mu       sync.Mutex
	queues   *lru.Cache
	capacity int
}

var _ FlashStore = (*MemoryFlash)(nil)

// NewMemoryFlash creates a MemoryFlash.
func NewMemoryFlash(maxSessions, capacity int) (*MemoryFlash, error) {
	queues, err := lru.New(maxSessions)
	if err != nil {
		return nil, err
	}
	return &MemoryFlash{queues: queues, capacity: capacity}, nil
}

func (f *MemoryFlash) Push(_ context.Context, key string, n notify.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var queue []notify.Notification
	if v, ok := f.queues.Get(key); ok {
		queue = v.([]notify.Notification)
	}
	queue = append(queue, n)
	if over := len(queue) - f.capacity; over > 0 {
		queue = append([]notify.Notification(nil), queue[over:]...)
	}
	f.queues.Add(key, queue)
	return nil
}

func (f *MemoryFlash) Drain(_ context.Context, key string) ([]notify.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.queues.Peek(key)
	if !ok {
		return nil, nil
	}
	f.queues.Remove(key)
	return v.([]notify.Notification), nil
}
