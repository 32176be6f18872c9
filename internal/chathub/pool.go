package chathub

import (
	"time"

	"randochat/backend/internal/models"
)

// WaitingEntry is an endpoint's temporary membership in a mode-scoped pool
// while unmatched.
type WaitingEntry struct {
	ID       string
	Profile  models.Profile
	JoinedAt time.Time

	// timer is the pending matching timeout, armed by the coordinator on
	// insertion and stopped whenever the entry leaves the pool.
	timer *time.Timer
}

// WaitingPool holds the per-mode ordered collections of endpoints seeking a
// partner. An identifier appears in at most one pool at a time.
//
// The pool is not safe for concurrent use on its own: every mutation runs
// under the coordinator's mutex.
type WaitingPool struct {
	entries map[string][]*WaitingEntry // mode -> entries in insertion order
	modes   map[string]string          // id -> mode it currently waits in
}

func NewWaitingPool() *WaitingPool {
	return &WaitingPool{
		entries: make(map[string][]*WaitingEntry),
		modes:   make(map[string]string),
	}
}

// Insert appends e to the pool for mode, preserving arrival order. It is a
// no-op returning false if the identifier already waits somewhere.
func (p *WaitingPool) Insert(mode string, e *WaitingEntry) bool {
	if _, ok := p.modes[e.ID]; ok {
		return false
	}
	p.entries[mode] = append(p.entries[mode], e)
	p.modes[e.ID] = mode
	return true
}

// Remove evicts id from whichever pool holds it and returns the removed
// entry, or nil if id was not waiting.
func (p *WaitingPool) Remove(id string) *WaitingEntry {
	mode, ok := p.modes[id]
	if !ok {
		return nil
	}
	delete(p.modes, id)
	list := p.entries[mode]
	for i, e := range list {
		if e.ID == id {
			p.entries[mode] = append(list[:i], list[i+1:]...)
			return e
		}
	}
	return nil
}

// Lookup returns the waiting entry for id without removing it.
func (p *WaitingPool) Lookup(id string) *WaitingEntry {
	mode, ok := p.modes[id]
	if !ok {
		return nil
	}
	for _, e := range p.entries[mode] {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Entries returns the entries waiting in mode, oldest first. The returned
// slice is a snapshot; removing entries during iteration is safe.
func (p *WaitingPool) Entries(mode string) []*WaitingEntry {
	list := p.entries[mode]
	out := make([]*WaitingEntry, len(list))
	copy(out, list)
	return out
}

func (p *WaitingPool) Size(mode string) int {
	return len(p.entries[mode])
}

func (p *WaitingPool) Contains(id string) bool {
	_, ok := p.modes[id]
	return ok
}
