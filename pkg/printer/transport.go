package printer

import (
	"context"
	"errors"
)

// Transport-level errors. The service layer maps these onto user-facing
// messages; callers should match with errors.Is.
var (
	ErrNotConnected     = errors.New("printer: not connected")
	ErrDeviceNotFound   = errors.New("printer: no compatible device found")
	ErrCancelled        = errors.New("printer: pairing cancelled")
	ErrConnectionFailed = errors.New("printer: connection failed")
	ErrWriteFailed      = errors.New("printer: write failed")
)

// Device describes a discoverable printer endpoint.
type Device struct {
	ID   string `json:"id"`   // stable identifier: serial port name or TCP address
	Name string `json:"name"` // human-readable label
	Kind string `json:"kind"` // "serial" or "network"
}

// Transport is a single open link to a thermal printer. Implementations are
// not safe for concurrent writes; the connection manager serializes access.
type Transport interface {
	// Write sends one chunk of raw ESC/POS bytes. Chunking and pacing are the
	// caller's responsibility; thermal printers over serial-profile links have
	// no flow control, so chunks must be written strictly one at a time.
	Write(ctx context.Context, chunk []byte) error

	// MaxWriteSize returns the largest chunk a single Write may carry.
	MaxWriteSize() int

	// OnDisconnect registers a callback fired once if the link drops without
	// an explicit Close. Must be set before the first Write.
	OnDisconnect(fn func())

	// Close tears down the link. Idempotent.
	Close() error
}

// Dialer discovers printer endpoints and opens transports to them.
type Dialer interface {
	// Discover lists candidate printer devices. A bounded operation: it
	// returns what is enumerable now rather than waiting for devices to
	// appear.
	Discover(ctx context.Context) ([]Device, error)

	// Dial opens a link to the given device, bounded by ctx.
	Dial(ctx context.Context, dev Device) (Transport, error)
}
