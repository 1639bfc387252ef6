package service

import "sync"

// caseLocks hands out one mutex per case id, created lazily and reused for
// the life of the process. Appends for the same case serialize on it;
// appends for different cases proceed in parallel.
type caseLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newCaseLocks() *caseLocks {
	return &caseLocks{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the mutex for caseID and returns the matching unlock.
func (c *caseLocks) acquire(caseID string) func() {
	c.mu.Lock()
	l, ok := c.locks[caseID]
	if !ok {
		l = &sync.Mutex{}
		c.locks[caseID] = l
	}
	c.mu.Unlock()

	l.Lock()
	return l.Unlock
}
