package chathub_test

import (
	"sync"

	"randochat/backend/internal/chathub"
	"randochat/backend/internal/models"
)

// MockClient records every event pushed to it so tests can assert on
// notification traffic without a real WebSocket.
type MockClient struct {
	userID string

	mu     sync.Mutex
	events []models.ServerEvent
	closed bool
	full   bool
}

func newMockClient(userID string) *MockClient {
	return &MockClient{userID: userID}
}

func (c *MockClient) GetUserID() string { return c.userID }

func (c *MockClient) TrySend(ev models.ServerEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return chathub.ErrClientClosed
	}
	if c.full {
		return chathub.ErrBackpressure
	}
	c.events = append(c.events, ev)
	return nil
}

func (c *MockClient) Run() {}

func (c *MockClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// SetFull makes subsequent TrySend calls report backpressure.
func (c *MockClient) SetFull(full bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.full = full
}

// Events returns a copy of everything received so far.
func (c *MockClient) Events() []models.ServerEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.ServerEvent, len(c.events))
	copy(out, c.events)
	return out
}

// EventTypes returns just the type strings, in arrival order.
func (c *MockClient) EventTypes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.events))
	for _, ev := range c.events {
		out = append(out, ev.Type)
	}
	return out
}

// Drain clears the recorded events.
func (c *MockClient) Drain() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = nil
}
