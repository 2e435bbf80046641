package application

import (
	"sync"

	"pericles/contexts/election-ops/election-ledger/domain/entities"
)

// LedgerHandle owns the election aggregate behind one lock. Every mutating
// call runs under the write lock, so ledger transitions form a strict total
// order; reads run under the read lock and observe a consistent snapshot,
// never a partially-applied vote or delegation.
type LedgerHandle struct {
	mu     sync.RWMutex
	ledger *entities.Ledger
}

func NewLedgerHandle(admin entities.Identity) *LedgerHandle {
	return &LedgerHandle{ledger: entities.NewLedger(admin)}
}

func (h *LedgerHandle) Write(fn func(*entities.Ledger) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return fn(h.ledger)
}

func (h *LedgerHandle) Read(fn func(*entities.Ledger) error) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return fn(h.ledger)
}
