package identity

import (
	"sort"
	"sync"
)

// An Emitter fans an Event out to every subscribed Handler.
//
// The zero value is ready to use.
type Emitter struct {
	mu       sync.Mutex
	next     uint64
	handlers map[uint64]Handler
}

// Subscribe registers fn until the returned Subscription is released.
func (e *Emitter) Subscribe(fn Handler) Subscription {
	if fn == nil {
		return subscription{once: new(sync.Once), fn: func() {}}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.handlers == nil {
		e.handlers = make(map[uint64]Handler)
	}

	id := e.next
	e.next++
	e.handlers[id] = fn

	return subscription{
		once: new(sync.Once),
		fn: func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			delete(e.handlers, id)
		},
	}
}

// Emit calls every subscribed Handler in the order they subscribed.
//
// Handlers are called outside the Emitter's lock
// and so may subscribe or unsubscribe themselves.
func (e *Emitter) Emit(event Event, s *Session) {
	e.mu.Lock()
	ids := make([]uint64, 0, len(e.handlers))
	for id := range e.handlers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	fns := make([]Handler, len(ids))
	for i, id := range ids {
		fns[i] = e.handlers[id]
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(event, s)
	}
}

// Len reports the number of subscribed Handlers.
func (e *Emitter) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.handlers)
}

type subscription struct {
	once *sync.Once
	fn   func()
}

func (s subscription) Unsubscribe() { s.once.Do(s.fn) }
