package chathub

import (
	"errors"

	"randochat/backend/internal/models"
)

// ErrBackpressure is returned by TrySend when the client's outbound buffer
// is full. Notifications are best-effort; callers drop the frame.
var ErrBackpressure = errors.New("client send buffer full")

// ErrClientClosed is returned by TrySend after the client has shut down.
var ErrClientClosed = errors.New("client closed")

// Client is the interface for any type of connection endpoint. It abstracts
// the underlying transport so the coordinator can manage WebSocket clients
// and test doubles uniformly.
type Client interface {
	// GetUserID returns the unique identifier for the endpoint.
	GetUserID() string

	// TrySend queues an event for delivery without blocking. It returns
	// ErrBackpressure when the buffer is full and ErrClientClosed after
	// Close; either way the frame is simply not delivered.
	TrySend(ev models.ServerEvent) error

	// Run starts the client's read and write pumps.
	Run()

	// Close shuts down the client's outbound channel and connection.
	Close()
}
