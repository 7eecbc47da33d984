// Package notify provides synchronous change notification hubs.
package notify

// Hub fans a value out to subscribers in subscription order.
// Emit runs handlers on the caller's goroutine before returning.
type Hub[T any] struct {
	next int
	subs []sub[T]
}

type sub[T any] struct {
	id int
	fn func(T)
}

// Subscribe registers fn and returns a func that removes it.
func (h *Hub[T]) Subscribe(fn func(T)) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	h.next++
	id := h.next
	h.subs = append(h.subs, sub[T]{id: id, fn: fn})
	return func() { h.remove(id) }
}

func (h *Hub[T]) remove(id int) {
	for i, s := range h.subs {
		if s.id == id {
			h.subs = append(h.subs[:i:i], h.subs[i+1:]...)
			return
		}
	}
}

// Emit calls every current subscriber. Handlers added or removed during
// Emit take effect on the next call.
func (h *Hub[T]) Emit(v T) {
	if len(h.subs) == 0 {
		return
	}
	subs := append([]sub[T](nil), h.subs...)
	for _, s := range subs {
		s.fn(v)
	}
}

func (h *Hub[T]) Len() int { return len(h.subs) }
