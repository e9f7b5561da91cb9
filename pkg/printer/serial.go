package printer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.bug.st/serial"
)

// Bluetooth SPP printers show up as serial ports. Port names matching these
// signatures are offered as printer candidates; anything else (modems,
// debug consoles) is skipped.
var serialSignatures = []string{
	"rfcomm",    // Linux Bluetooth SPP
	"ttyUSB",    // USB-serial adapters
	"ttyACM",    // CDC-ACM printers
	"COM",       // Windows COM ports (Bluetooth SPP binds here)
	"usbserial", // macOS
	"Bluetooth", // macOS /dev/tty.Bluetooth-*
}

// SPP thermal printers negotiate small link buffers; writes above this size
// risk overrunning the device.
const serialMaxWrite = 128

type serialDialer struct {
	baudRate int
}

// NewSerialDialer creates a Dialer that enumerates serial-profile ports and
// opens them at the given baud rate (most SPP thermal printers use 9600).
func NewSerialDialer(baudRate int) Dialer {
	if baudRate <= 0 {
		baudRate = 9600
	}
	return &serialDialer{baudRate: baudRate}
}

func (d *serialDialer) Discover(ctx context.Context) ([]Device, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("printer: failed to enumerate serial ports: %w", err)
	}

	var devices []Device
	for _, port := range ports {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, sig := range serialSignatures {
			if strings.Contains(port, sig) {
				devices = append(devices, Device{ID: port, Name: port, Kind: "serial"})
				break
			}
		}
	}
	if len(devices) == 0 {
		return nil, ErrDeviceNotFound
	}
	return devices, nil
}

func (d *serialDialer) Dial(ctx context.Context, dev Device) (Transport, error) {
	mode := &serial.Mode{BaudRate: d.baudRate}

	type result struct {
		port serial.Port
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		port, err := serial.Open(dev.ID, mode)
		ch <- result{port, err}
	}()

	select {
	case <-ctx.Done():
		// The open may still complete later; close it so a stale handle does
		// not hold the port.
		go func() {
			if r := <-ch; r.err == nil {
				r.port.Close()
			}
		}()
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, ctx.Err())
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("%w: open %s: %v", ErrConnectionFailed, dev.ID, r.err)
		}
		t := &serialTransport{port: r.port}
		go t.watch()
		return t, nil
	}
}

type serialTransport struct {
	port serial.Port

	mu       sync.Mutex
	closed   bool
	onDrop   func()
	dropOnce sync.Once
}

func (t *serialTransport) Write(ctx context.Context, chunk []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return ErrNotConnected
	}

	n, err := t.port.Write(chunk)
	if err != nil {
		t.fireDrop()
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if n < len(chunk) {
		t.fireDrop()
		return fmt.Errorf("%w: short write (%d of %d bytes)", ErrWriteFailed, n, len(chunk))
	}
	return nil
}

func (t *serialTransport) MaxWriteSize() int {
	return serialMaxWrite
}

func (t *serialTransport) OnDisconnect(fn func()) {
	t.mu.Lock()
	t.onDrop = fn
	t.mu.Unlock()
}

func (t *serialTransport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()
	return t.port.Close()
}

// watch detects device-initiated disconnects. Printers never send data back,
// so a read normally blocks on the timeout; a hard error means the link is
// gone.
func (t *serialTransport) watch() {
	_ = t.port.SetReadTimeout(time.Second)
	buf := make([]byte, 16)
	for {
		t.mu.Lock()
		closed := t.closed
		t.mu.Unlock()
		if closed {
			return
		}
		if _, err := t.port.Read(buf); err != nil {
			t.fireDrop()
			return
		}
	}
}

// fireDrop marks the transport closed and notifies the drop callback exactly
// once. An explicit Close does not count as a drop.
func (t *serialTransport) fireDrop() {
	t.mu.Lock()
	wasClosed := t.closed
	t.closed = true
	fn := t.onDrop
	t.mu.Unlock()
	if wasClosed {
		return
	}
	t.port.Close()
	if fn != nil {
		t.dropOnce.Do(fn)
	}
}
