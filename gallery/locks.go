package gallery

import "sync"

// productLocks hands out one mutex per product so that concurrent primary-flag
// sweeps against the same gallery cannot interleave. Two concurrent
// setPrimary/create(isPrimary) calls would otherwise both observe "no primary
// yet", both sweep, and both end up primary.
type productLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newProductLocks() *productLocks {
	return &productLocks{locks: make(map[uint]*sync.Mutex)}
}

func (p *productLocks) get(productID uint) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()

	m, ok := p.locks[productID]
	if !ok {
		m = &sync.Mutex{}
		p.locks[productID] = m
	}
	return m
}

func (p *productLocks) Lock(productID uint) {
	p.get(productID).Lock()
}

func (p *productLocks) Unlock(productID uint) {
	p.get(productID).Unlock()
}
