package usecase

import "sync"

// Notifier signals watchers that the links of an owner have changed.
// Signals carry no data; watchers reload what they need.
type Notifier struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[string]map[uint64]func()
}

func NewNotifier() *Notifier {
	return &Notifier{
		subs: make(map[string]map[uint64]func()),
	}
}

// Publish invokes every callback registered for ownerID. Callbacks must not block.
func (n *Notifier) Publish(ownerID string) {
	n.mu.Lock()
	fns := make([]func(), 0, len(n.subs[ownerID]))
	for _, fn := range n.subs[ownerID] {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (n *Notifier) subscribe(ownerID string, fn func()) (unsubscribe func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	id := n.nextID

	if n.subs[ownerID] == nil {
		n.subs[ownerID] = make(map[uint64]func())
	}
	n.subs[ownerID][id] = fn

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()

		delete(n.subs[ownerID], id)
		if len(n.subs[ownerID]) == 0 {
			delete(n.subs, ownerID)
		}
	}
}

func (n *Notifier) watchers(ownerID string) int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return len(n.subs[ownerID])
}
