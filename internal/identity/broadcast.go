package identity

import "sync"

// SignIn marks one anonymous-to-authenticated transition: the device that
// held the anonymous state and the user it now belongs to.
type SignIn struct {
	UserID   string
	DeviceID string
	Email    string
}

// Broadcaster fans sign-in events out to subscribers (cart and favorites
// watchers). Delivery is non-blocking: a subscriber that stops draining its
// channel loses events rather than stalling the publisher.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[int]chan SignIn
	next int
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]chan SignIn)}
}

func (b *Broadcaster) Subscribe() (<-chan SignIn, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++

	ch := make(chan SignIn, 16)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

func (b *Broadcaster) Publish(ev SignIn) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
