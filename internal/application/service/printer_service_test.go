package service

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codapos/pos-agent/internal/domain/entity"
	"github.com/codapos/pos-agent/internal/domain/enum"
	"github.com/codapos/pos-agent/pkg/printer"
)

// fakeTransport records every chunk written to it.
type fakeTransport struct {
	mu        sync.Mutex
	chunks    [][]byte
	maxWrite  int
	failAfter int // fail the Nth write (1-based); 0 never fails
	onDrop    func()
}

func newFakeTransport(maxWrite int) *fakeTransport {
	return &fakeTransport{maxWrite: maxWrite}
}

func (f *fakeTransport) Write(ctx context.Context, chunk []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAfter > 0 && len(f.chunks)+1 >= f.failAfter {
		return printer.ErrWriteFailed
	}
	buf := make([]byte, len(chunk))
	copy(buf, chunk)
	f.chunks = append(f.chunks, buf)
	return nil
}

func (f *fakeTransport) MaxWriteSize() int {
	return f.maxWrite
}

func (f *fakeTransport) OnDisconnect(fn func()) {
	f.onDrop = fn
}

func (f *fakeTransport) Close() error {
	return nil
}

func (f *fakeTransport) written() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []byte
	for _, c := range f.chunks {
		all = append(all, c...)
	}
	return all
}

func (f *fakeTransport) chunkCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.chunks)
}

// fakeDialer hands out a prepared transport.
type fakeDialer struct {
	devices   []printer.Device
	transport *fakeTransport
	dialErr   error
	dialed    chan struct{} // closed when Dial is entered, when set
	release   chan struct{} // Dial blocks until closed, when set
}

func (f *fakeDialer) Discover(ctx context.Context) ([]printer.Device, error) {
	if len(f.devices) == 0 {
		return nil, printer.ErrDeviceNotFound
	}
	return f.devices, nil
}

func (f *fakeDialer) Dial(ctx context.Context, dev printer.Device) (printer.Transport, error) {
	if f.dialed != nil {
		close(f.dialed)
		f.dialed = nil
	}
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.dialErr != nil {
		return nil, f.dialErr
	}
	return f.transport, nil
}

// memPrinterStore is an in-memory PrinterStore for tests.
type memPrinterStore struct {
	mu       sync.Mutex
	devices  map[string]entity.SavedPrinter
	settings *entity.PrinterSettings
}

func newMemPrinterStore() *memPrinterStore {
	return &memPrinterStore{devices: make(map[string]entity.SavedPrinter)}
}

func (m *memPrinterStore) ListDevices() ([]entity.SavedPrinter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.SavedPrinter, 0, len(m.devices))
	for _, d := range m.devices {
		out = append(out, d)
	}
	return out, nil
}

func (m *memPrinterStore) SaveDevice(device entity.SavedPrinter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.devices[device.ID] = device
	return nil
}

func (m *memPrinterStore) RemoveDevice(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.devices, id)
	return nil
}

func (m *memPrinterStore) GetSettings() (entity.PrinterSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings == nil {
		return entity.DefaultPrinterSettings(), nil
	}
	return *m.settings, nil
}

func (m *memPrinterStore) SaveSettings(settings entity.PrinterSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	settings.ID = 1
	m.settings = &settings
	return nil
}

func newTestPrinterService(dialer printer.Dialer) (*PrinterService, *memPrinterStore) {
	store := newMemPrinterStore()
	svc := NewPrinterService(
		map[string]printer.Dialer{"serial": dialer},
		store,
		NewReceiptService(),
		time.Second,
		time.Millisecond,
	)
	return svc, store
}

func testDevice() printer.Device {
	return printer.Device{ID: "/dev/rfcomm0", Name: "RPP02N", Kind: "serial"}
}

func TestPrintNotConnected(t *testing.T) {
	svc, _ := newTestPrinterService(&fakeDialer{})
	err := svc.Print(context.Background(), []byte("hello"))
	assert.ErrorIs(t, err, printer.ErrNotConnected)
}

func TestPrintChunksInOrder(t *testing.T) {
	transport := newFakeTransport(100)
	dialer := &fakeDialer{transport: transport}
	svc, _ := newTestPrinterService(dialer)
	require.NoError(t, svc.Connect(context.Background(), testDevice()))

	payload := bytes.Repeat([]byte{0xAB}, 505)
	for i := range payload {
		payload[i] = byte(i)
	}
	require.NoError(t, svc.Print(context.Background(), payload))

	// 505 bytes at 100 per write is 6 chunks, nothing lost, order kept.
	assert.Equal(t, 6, transport.chunkCount())
	assert.Equal(t, payload, transport.written())
}

func TestPrintExactMultiple(t *testing.T) {
	transport := newFakeTransport(100)
	svc, _ := newTestPrinterService(&fakeDialer{transport: transport})
	require.NoError(t, svc.Connect(context.Background(), testDevice()))

	payload := bytes.Repeat([]byte{0x42}, 300)
	require.NoError(t, svc.Print(context.Background(), payload))
	assert.Equal(t, 3, transport.chunkCount())
}

func TestPrintAbortsOnWriteError(t *testing.T) {
	transport := newFakeTransport(100)
	transport.failAfter = 3
	svc, _ := newTestPrinterService(&fakeDialer{transport: transport})
	require.NoError(t, svc.Connect(context.Background(), testDevice()))

	err := svc.Print(context.Background(), bytes.Repeat([]byte{0x42}, 1000))
	assert.ErrorIs(t, err, printer.ErrWriteFailed)
	// The failed third write aborts the remaining chunks.
	assert.Equal(t, 2, transport.chunkCount())
}

func TestConnectFailure(t *testing.T) {
	dialer := &fakeDialer{dialErr: printer.ErrConnectionFailed}
	svc, _ := newTestPrinterService(dialer)
	err := svc.Connect(context.Background(), testDevice())
	assert.ErrorIs(t, err, printer.ErrConnectionFailed)
	assert.False(t, svc.Status().Connected)
}

func TestConnectRemembersDevice(t *testing.T) {
	svc, store := newTestPrinterService(&fakeDialer{transport: newFakeTransport(100)})
	require.NoError(t, svc.Connect(context.Background(), testDevice()))

	saved, err := store.ListDevices()
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "/dev/rfcomm0", saved[0].ID)
	assert.Equal(t, "RPP02N", saved[0].Name)
	assert.NotNil(t, saved[0].LastConnected)
}

func TestDisconnectWhileConnecting(t *testing.T) {
	dialer := &fakeDialer{
		transport: newFakeTransport(100),
		dialed:    make(chan struct{}),
		release:   make(chan struct{}),
	}
	dialed := dialer.dialed
	svc, _ := newTestPrinterService(dialer)

	done := make(chan error, 1)
	go func() {
		done <- svc.Connect(context.Background(), testDevice())
	}()

	<-dialed
	svc.Disconnect()
	close(dialer.release)

	// The disconnect issued mid-dial wins; the late connection is dropped.
	err := <-done
	assert.ErrorIs(t, err, printer.ErrCancelled)
	assert.False(t, svc.Status().Connected)
}

func TestLinkDropUpdatesStatus(t *testing.T) {
	transport := newFakeTransport(100)
	svc, _ := newTestPrinterService(&fakeDialer{transport: transport})

	var mu sync.Mutex
	var statuses []entity.PrinterStatus
	unsubscribe := svc.Subscribe(func(st entity.PrinterStatus) {
		mu.Lock()
		statuses = append(statuses, st)
		mu.Unlock()
	})
	defer unsubscribe()

	require.NoError(t, svc.Connect(context.Background(), testDevice()))
	require.True(t, svc.Status().Connected)

	require.NotNil(t, transport.onDrop)
	transport.onDrop()

	assert.False(t, svc.Status().Connected)
	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, statuses)
	assert.True(t, statuses[0].Connected)
	assert.False(t, statuses[len(statuses)-1].Connected)
}

func TestStaleDropIsIgnored(t *testing.T) {
	first := newFakeTransport(100)
	dialer := &fakeDialer{transport: first}
	svc, _ := newTestPrinterService(dialer)
	require.NoError(t, svc.Connect(context.Background(), testDevice()))
	firstDrop := first.onDrop

	// Reconnect to a second transport, then fire the old drop callback.
	second := newFakeTransport(100)
	dialer.transport = second
	require.NoError(t, svc.Connect(context.Background(), testDevice()))

	firstDrop()
	assert.True(t, svc.Status().Connected)
}

func TestForgetDeviceDisconnectsActive(t *testing.T) {
	svc, store := newTestPrinterService(&fakeDialer{transport: newFakeTransport(100)})
	require.NoError(t, svc.Connect(context.Background(), testDevice()))

	require.NoError(t, svc.ForgetDevice("/dev/rfcomm0"))
	assert.False(t, svc.Status().Connected)
	saved, _ := store.ListDevices()
	assert.Empty(t, saved)
}

func TestPrintReceiptRejectsEmpty(t *testing.T) {
	transport := newFakeTransport(100)
	svc, _ := newTestPrinterService(&fakeDialer{transport: transport})
	require.NoError(t, svc.Connect(context.Background(), testDevice()))

	err := svc.PrintReceipt(context.Background(), entity.ReceiptData{}, sampleTenant())
	assert.Error(t, err)
	assert.Equal(t, 0, transport.chunkCount())
}

func TestPrintReceiptSendsOneJob(t *testing.T) {
	transport := newFakeTransport(100)
	svc, _ := newTestPrinterService(&fakeDialer{transport: transport})
	require.NoError(t, svc.Connect(context.Background(), testDevice()))

	require.NoError(t, svc.PrintReceipt(context.Background(), sampleReceipt(), sampleTenant()))

	written := transport.written()
	require.NotEmpty(t, written)
	// One complete document: starts with ESC @ and ends with the cut.
	assert.Equal(t, []byte{0x1B, '@'}, written[:2])
	assert.Equal(t, []byte{0x1D, 'V', 0x00}, written[len(written)-3:])
	assert.Equal(t, 1, bytes.Count(written, []byte{0x1D, 'V', 0x00}))
}

func TestUpdateSettingsValidation(t *testing.T) {
	svc, _ := newTestPrinterService(&fakeDialer{})

	_, err := svc.UpdateSettings(entity.PrinterSettings{PaperSize: "60mm", ReceiptType: enum.ReceiptTypeKasir})
	assert.Error(t, err)

	_, err = svc.UpdateSettings(entity.PrinterSettings{PaperSize: enum.PaperSize80, ReceiptType: "Gudang"})
	assert.Error(t, err)

	updated, err := svc.UpdateSettings(entity.PrinterSettings{AutoPrint: true, PaperSize: enum.PaperSize80, ReceiptType: enum.ReceiptTypeDapur})
	require.NoError(t, err)
	assert.True(t, updated.AutoPrint)
	assert.Equal(t, enum.PaperSize80, updated.PaperSize)
}

func TestDiscoverNoDevices(t *testing.T) {
	svc, _ := newTestPrinterService(&fakeDialer{})
	devices, err := svc.Discover(context.Background())
	require.NoError(t, err)
	assert.Empty(t, devices)
}

func TestDiscoverPropagatesErrors(t *testing.T) {
	boom := errors.New("bluetooth stack unavailable")
	svc := NewPrinterService(
		map[string]printer.Dialer{"serial": &errDialer{err: boom}},
		newMemPrinterStore(),
		NewReceiptService(),
		time.Second,
		time.Millisecond,
	)
	_, err := svc.Discover(context.Background())
	assert.ErrorIs(t, err, boom)
}

type errDialer struct {
	err error
}

func (e *errDialer) Discover(ctx context.Context) ([]printer.Device, error) {
	return nil, e.err
}

func (e *errDialer) Dial(ctx context.Context, dev printer.Device) (printer.Transport, error) {
	return nil, e.err
}
