package printer

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"
)

// Raw-socket printing (port 9100). Network printers handle larger writes
// than SPP links but still benefit from bounded chunks.
const networkMaxWrite = 512

type networkDialer struct {
	timeout time.Duration
}

// NewNetworkDialer creates a Dialer for TCP printers. Device IDs are
// host:port addresses, e.g. "192.168.1.100:9100". Network printers are not
// discoverable here; Discover returns ErrDeviceNotFound and the front-end
// supplies the address directly.
func NewNetworkDialer(timeout time.Duration) Dialer {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &networkDialer{timeout: timeout}
}

func (d *networkDialer) Discover(ctx context.Context) ([]Device, error) {
	return nil, ErrDeviceNotFound
}

func (d *networkDialer) Dial(ctx context.Context, dev Device) (Transport, error) {
	dialer := net.Dialer{Timeout: d.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", dev.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", ErrConnectionFailed, dev.ID, err)
	}
	t := &networkTransport{conn: conn}
	go t.watch()
	return t, nil
}

type networkTransport struct {
	conn net.Conn

	mu       sync.Mutex
	closed   bool
	onDrop   func()
	dropOnce sync.Once
}

func (t *networkTransport) Write(ctx context.Context, chunk []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return ErrNotConnected
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = t.conn.SetWriteDeadline(deadline)
	} else {
		_ = t.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	}
	if _, err := t.conn.Write(chunk); err != nil {
		t.fireDrop()
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return nil
}

func (t *networkTransport) MaxWriteSize() int {
	return networkMaxWrite
}

func (t *networkTransport) OnDisconnect(fn func()) {
	t.mu.Lock()
	t.onDrop = fn
	t.mu.Unlock()
}

func (t *networkTransport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()
	return t.conn.Close()
}

func (t *networkTransport) watch() {
	buf := make([]byte, 16)
	for {
		t.mu.Lock()
		closed := t.closed
		t.mu.Unlock()
		if closed {
			return
		}
		_ = t.conn.SetReadDeadline(time.Now().Add(time.Second))
		if _, err := t.conn.Read(buf); err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			t.fireDrop()
			return
		}
	}
}

func (t *networkTransport) fireDrop() {
	t.mu.Lock()
	wasClosed := t.closed
	t.closed = true
	fn := t.onDrop
	t.mu.Unlock()
	if wasClosed {
		return
	}
	t.conn.Close()
	if fn != nil {
		t.dropOnce.Do(fn)
	}
}
