package sqlstore

import (
	"context"
	"sync"

	"github.com/solawi-gate/listgate/internal/domain/store"
)

// feedBufferSize bounds each subscriber's channel; a slow subscriber falls
// behind rather than blocking the writer that produced the delta.
const feedBufferSize = 256

// broadcaster fans committed deltas out to admin read-path subscribers.
// Each subscriber receives deltas in commit order. Delivery is not
// guaranteed: a full channel means the subscriber silently drops the
// oldest pending delta in favor of the newest rather than the writer
// blocking.
type broadcaster struct {
	mu   sync.Mutex
	subs map[int]chan store.Delta
	next int
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[int]chan store.Delta)}
}

func (b *broadcaster) publish(d store.Delta) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- d:
		default:
			// Subscriber is behind; drop the oldest queued delta to make
			// room rather than block the commit path.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- d:
			default:
			}
		}
	}
}

func (b *broadcaster) subscribe(ctx context.Context) <-chan store.Delta {
	ch := make(chan store.Delta, feedBufferSize)
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
		close(ch)
	}()

	return ch
}

func (b *broadcaster) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		close(ch)
		delete(b.subs, id)
	}
}

// Subscribe implements store.Store's observer port. The caller receives
// only the delta stream here; the initial-snapshot half of the contract
// (§4.3) is served by the List* methods, which the service layer calls
// once right after subscribing.
func (s *Store) Subscribe(ctx context.Context, relation store.Relation) (<-chan store.Delta, error) {
	upstream := s.feed.subscribe(ctx)
	filtered := make(chan store.Delta, feedBufferSize)
	go func() {
		defer close(filtered)
		for d := range upstream {
			if d.Relation != relation {
				continue
			}
			select {
			case filtered <- d:
			case <-ctx.Done():
				return
			}
		}
	}()
	return filtered, nil
}
