package session

import "sync"

// Publisher holds the latest Snapshot and broadcasts updates to any number
// of watchers. Each watcher's channel always holds the most recently
// published value: a slow or absent reader never blocks Set, and never
// sees a stale value once it does read, because a pending value is
// replaced rather than queued.
type Publisher struct {
	mu      sync.Mutex
	current Snapshot
	subs    map[chan Snapshot]struct{}
}

// NewPublisher creates a Publisher seeded with initial.
func NewPublisher(initial Snapshot) *Publisher {
	return &Publisher{
		current: initial,
		subs:    make(map[chan Snapshot]struct{}),
	}
}

// Get returns the most recently published snapshot.
func (p *Publisher) Get() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Set publishes a new snapshot to all current watchers.
func (p *Publisher) Set(s Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = s
	for ch := range p.subs {
		select {
		case ch <- s:
		default:
			// Drain the stale pending value, then deliver the latest.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s:
			default:
			}
		}
	}
}

// Watch registers a new watcher and returns its channel (buffered, always
// holding at most the latest snapshot) along with a cancel function that
// must be called once the caller stops reading.
func (p *Publisher) Watch() (<-chan Snapshot, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch := make(chan Snapshot, 1)
	ch <- p.current
	p.subs[ch] = struct{}{}

	cancel := func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if _, ok := p.subs[ch]; ok {
			delete(p.subs, ch)
			close(ch)
		}
	}
	return ch, cancel
}
