package alerts

import (
	"sync"
	"time"
)

// Alert is one over-10 crossing.
type Alert struct {
	ID       string    `json:"id"`
	Count    int       `json:"count"`
	Previous int       `json:"previous"`
	Symbols  []string  `json:"symbols"`
	Message  string    `json:"message"`
	At       time.Time `json:"at"`
}

// Broker fans alerts out to subscribers. Publishing never blocks: a
// subscriber whose buffer is full misses the alert.
type Broker struct {
	mu     sync.Mutex
	subs   map[chan Alert]struct{}
	recent []Alert
	keep   int
	closed bool
}

// NewBroker creates a broker that remembers the last keep alerts.
func NewBroker(keep int) *Broker {
	if keep <= 0 {
		keep = 20
	}
	return &Broker{subs: make(map[chan Alert]struct{}), keep: keep}
}

// Subscribe returns a channel of alerts and a function that unsubscribes.
// The channel is closed on unsubscribe or when the broker closes.
func (b *Broker) Subscribe() (<-chan Alert, func()) {
	ch := make(chan Alert, 8)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	b.subs[ch] = struct{}{}

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
	}
}

// Close ends every subscription so open streams return. Later publishes are
// kept in Recent but reach no one.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
}

// Publish delivers a to every subscriber.
func (b *Broker) Publish(a Alert) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.recent = append(b.recent, a)
	if len(b.recent) > b.keep {
		b.recent = b.recent[len(b.recent)-b.keep:]
	}

	for ch := range b.subs {
		select {
		case ch <- a:
		default:
		}
	}
}

// Recent returns the remembered alerts, oldest first.
func (b *Broker) Recent() []Alert {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Alert, len(b.recent))
	copy(out, b.recent)
	return out
}

// Subscribers returns the current subscriber count.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
