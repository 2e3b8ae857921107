package web

import "sync"

// hub fans values out to subscribers. Each subscriber has a small buffer; a
// subscriber that falls behind misses values instead of blocking publish.
type hub[T any] struct {
	mu   sync.Mutex
	subs map[chan T]struct{}
}

func newHub[T any]() *hub[T] {
	return &hub[T]{subs: map[chan T]struct{}{}}
}

func (h *hub[T]) subscribe() (ch <-chan T, cancel func()) {
	c := make(chan T, 8)
	h.mu.Lock()
	h.subs[c] = struct{}{}
	h.mu.Unlock()
	var once sync.Once
	return c, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, c)
			h.mu.Unlock()
			close(c)
		})
	}
}

// publish returns how many subscribers received v.
func (h *hub[T]) publish(v T) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for c := range h.subs {
		select {
		case c <- v:
			n++
		default:
		}
	}
	return n
}

func (h *hub[T]) len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
