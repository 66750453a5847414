package ledgerservice

import "sync"

// pinLocker serialises balance read-modify-write cycles per PIN.
type pinLocker struct {
	mu    sync.Mutex
	locks map[int64]*pinLock
}

type pinLock struct {
	mu      sync.Mutex
	waiters int
}

func newPINLocker() *pinLocker {
	return &pinLocker{locks: make(map[int64]*pinLock)}
}

// lock blocks until pin is free and returns the function releasing it.
func (p *pinLocker) lock(pin int64) func() {
	p.mu.Lock()

	l, ok := p.locks[pin]
	if !ok {
		l = &pinLock{}
		p.locks[pin] = l
	}
	l.waiters++

	p.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		p.mu.Lock()
		l.waiters--
		if l.waiters == 0 {
			delete(p.locks, pin)
		}
		p.mu.Unlock()
	}
}
