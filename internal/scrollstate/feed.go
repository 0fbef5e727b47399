package scrollstate

import "sync"

// Feed is an in-process Source. Publish delivers synchronously to every
// current subscriber in subscription order.
type Feed struct {
	mu   sync.RWMutex
	subs map[int]func(Event)
	ids  []int
	next int
}

func NewFeed() *Feed {
	return &Feed{subs: make(map[int]func(Event))}
}

// Subscribe registers fn. The returned cancel is idempotent.
func (f *Feed) Subscribe(fn func(Event)) func() {
	f.mu.Lock()
	id := f.next
	f.next++
	f.subs[id] = fn
	f.ids = append(f.ids, id)
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			delete(f.subs, id)
			for i, v := range f.ids {
				if v == id {
					f.ids = append(f.ids[:i], f.ids[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish returns the number of subscribers the event reached.
func (f *Feed) Publish(ev Event) int {
	f.mu.RLock()
	fns := make([]func(Event), 0, len(f.ids))
	for _, id := range f.ids {
		fns = append(fns, f.subs[id])
	}
	f.mu.RUnlock()
	for _, fn := range fns {
		fn(ev)
	}
	return len(fns)
}

func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.ids)
}
