package orchestrator

import "sync"

// companyLocks serializes operations per company. Different companies never
// block each other.
type companyLocks struct {
	mu    sync.Mutex
	locks map[int]*companyLock
}

type companyLock struct {
	sync.Mutex
	refs int
}

func newCompanyLocks() *companyLocks {
	return &companyLocks{locks: make(map[int]*companyLock)}
}

// Lock blocks until companyID is free and returns the matching unlock.
func (c *companyLocks) Lock(companyID int) func() {
	c.mu.Lock()
	l, ok := c.locks[companyID]
	if !ok {
		l = &companyLock{}
		c.locks[companyID] = l
	}
	l.refs++
	c.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		c.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(c.locks, companyID)
		}
		c.mu.Unlock()
	}
}
