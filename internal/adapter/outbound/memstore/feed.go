package memstore

import (
	"context"
	"sync"

	"github.com/solawi-gate/listgate/internal/domain/store"
)

const feedBufferSize = 256

// broadcaster mirrors sqlstore's fan-out shape so both Store
// implementations give subscribers the same delivery semantics (§4.3):
// commit order, with the oldest pending delta dropped when a subscriber's
// buffer is full.
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
