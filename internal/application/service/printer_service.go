package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/codapos/pos-agent/internal/domain/entity"
	"github.com/codapos/pos-agent/internal/domain/repository"
	"github.com/codapos/pos-agent/pkg/apperror"
	"github.com/codapos/pos-agent/pkg/escpos"
	"github.com/codapos/pos-agent/pkg/printer"
)

// PrinterService owns the single printer connection. All connects,
// disconnects and prints go through it; the last requested operation wins
// when they race.
type PrinterService struct {
	dialers        map[string]printer.Dialer
	store          repository.PrinterStore
	receipts       *ReceiptService
	connectTimeout time.Duration
	chunkDelay     time.Duration

	mu         sync.Mutex
	transport  printer.Transport
	device     printer.Device
	limiter    *rate.Limiter
	generation uint64

	// printMu serializes whole print jobs so chunk streams from two
	// jobs never interleave on the wire.
	printMu sync.Mutex

	subMu   sync.Mutex
	subs    map[int]func(entity.PrinterStatus)
	nextSub int
}

func NewPrinterService(dialers map[string]printer.Dialer, store repository.PrinterStore, receipts *ReceiptService, connectTimeout, chunkDelay time.Duration) *PrinterService {
	if connectTimeout <= 0 {
		connectTimeout = 5 * time.Second
	}
	if chunkDelay <= 0 {
		chunkDelay = 20 * time.Millisecond
	}
	return &PrinterService{
		dialers:        dialers,
		store:          store,
		receipts:       receipts,
		connectTimeout: connectTimeout,
		chunkDelay:     chunkDelay,
		subs:           make(map[int]func(entity.PrinterStatus)),
	}
}

// Discover scans all transports for candidate printer devices.
func (s *PrinterService) Discover(ctx context.Context) ([]printer.Device, error) {
	var devices []printer.Device
	var lastErr error
	for _, d := range s.dialers {
		found, err := d.Discover(ctx)
		if err != nil {
			if errors.Is(err, printer.ErrDeviceNotFound) {
				continue
			}
			lastErr = err
			continue
		}
		devices = append(devices, found...)
	}
	if len(devices) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return devices, nil
}

// Connect pairs with the device and makes it the active printer. Any
// previous connection is torn down first; if a newer connect or disconnect
// lands while this one is still dialing, the newer operation wins and this
// connection is discarded.
func (s *PrinterService) Connect(ctx context.Context, dev printer.Device) error {
	dialer, ok := s.dialers[dev.Kind]
	if !ok {
		return fmt.Errorf("%w: unknown transport %q", printer.ErrDeviceNotFound, dev.Kind)
	}

	s.mu.Lock()
	old := s.transport
	s.transport = nil
	s.generation++
	gen := s.generation
	s.mu.Unlock()
	if old != nil {
		old.Close()
		s.notify()
	}

	dialCtx, cancel := context.WithTimeout(ctx, s.connectTimeout)
	defer cancel()
	t, err := dialer.Dial(dialCtx, dev)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return printer.ErrCancelled
		}
		return err
	}

	s.mu.Lock()
	if s.generation != gen {
		// A newer connect or disconnect raced us.
		s.mu.Unlock()
		t.Close()
		return printer.ErrCancelled
	}
	s.transport = t
	s.device = dev
	s.limiter = rate.NewLimiter(rate.Every(s.chunkDelay), 1)
	t.OnDisconnect(func() { s.handleDrop(gen) })
	s.mu.Unlock()

	s.remember(dev)
	s.notify()
	return nil
}

// Disconnect tears down the active connection. Idempotent.
func (s *PrinterService) Disconnect() {
	s.mu.Lock()
	t := s.transport
	s.transport = nil
	s.generation++
	s.mu.Unlock()
	if t != nil {
		t.Close()
		s.notify()
	}
}

// handleDrop reacts to an unsolicited link drop reported by the transport.
// The generation check ignores drops from connections already replaced.
func (s *PrinterService) handleDrop(gen uint64) {
	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return
	}
	s.transport = nil
	s.generation++
	name := s.device.Name
	s.mu.Unlock()
	log.Printf("printer: connection lost to %s", name)
	s.notify()
}

// Status reports the current connection state.
func (s *PrinterService) Status() entity.PrinterStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.transport == nil {
		return entity.PrinterStatus{}
	}
	return entity.PrinterStatus{
		Connected:  true,
		DeviceName: s.device.Name,
		DeviceID:   s.device.ID,
	}
}

// Subscribe registers a status callback and returns an unsubscribe func.
// The callback fires on every connect, disconnect and link drop.
func (s *PrinterService) Subscribe(fn func(entity.PrinterStatus)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *PrinterService) notify() {
	status := s.Status()
	s.subMu.Lock()
	fns := make([]func(entity.PrinterStatus), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(status)
	}
}

// Print streams raw ESC/POS bytes to the connected printer in
// transport-sized chunks, strictly in order, with a pacing delay between
// chunks. Thermal printers have no flow control, so a failed chunk aborts
// the rest of the job.
func (s *PrinterService) Print(ctx context.Context, data []byte) error {
	if len(data) == 0 {
		return apperror.NewBadRequestError("Tidak ada data untuk dicetak")
	}

	s.printMu.Lock()
	defer s.printMu.Unlock()

	s.mu.Lock()
	t := s.transport
	limiter := s.limiter
	s.mu.Unlock()
	if t == nil {
		return printer.ErrNotConnected
	}

	max := t.MaxWriteSize()
	for off := 0; off < len(data); off += max {
		end := off + max
		if end > len(data) {
			end = len(data)
		}
		if off > 0 {
			if err := limiter.Wait(ctx); err != nil {
				return fmt.Errorf("%w: %v", printer.ErrWriteFailed, err)
			}
		}
		if err := t.Write(ctx, data[off:end]); err != nil {
			if errors.Is(err, printer.ErrWriteFailed) {
				return err
			}
			return fmt.Errorf("%w: %v", printer.ErrWriteFailed, err)
		}
	}
	return nil
}

// PrintReceipt renders the transaction with the stored paper size and
// receipt type, then sends it to the printer as one job.
func (s *PrinterService) PrintReceipt(ctx context.Context, data entity.ReceiptData, tenant entity.ReceiptTenant) error {
	if len(data.Items) == 0 {
		return apperror.NewBadRequestError("Struk tidak memiliki item")
	}
	settings, err := s.Settings()
	if err != nil {
		return err
	}
	payload := s.receipts.RenderESCPOS(data, tenant, settings.PaperSize, settings.ReceiptType)
	return s.Print(ctx, payload)
}

// TestPrint sends a short alignment page so the cashier can verify the
// pairing.
func (s *PrinterService) TestPrint(ctx context.Context) error {
	settings, err := s.Settings()
	if err != nil {
		return err
	}
	d := escpos.NewDocument(settings.PaperSize.Chars())
	d.SetAlign(escpos.AlignCenter)
	d.SetBold(true).SetSize(escpos.SizeDouble)
	d.Text("CODAPOS")
	d.SetSize(escpos.SizeNormal).SetBold(false)
	d.Text("Tes cetak berhasil")
	d.Separator('-')
	d.SetAlign(escpos.AlignLeft)
	d.KeyValue("Kertas", string(settings.PaperSize))
	d.KeyValue("Waktu", time.Now().Format("02/01/2006 15:04"))
	d.FeedLines(3)
	d.Cut()
	return s.Print(ctx, d.Bytes())
}

// SavedDevices lists previously paired printers, most recently used first.
func (s *PrinterService) SavedDevices() ([]entity.SavedPrinter, error) {
	return s.store.ListDevices()
}

// ForgetDevice removes a saved pairing, disconnecting first when it is the
// active printer.
func (s *PrinterService) ForgetDevice(id string) error {
	s.mu.Lock()
	active := s.transport != nil && s.device.ID == id
	s.mu.Unlock()
	if active {
		s.Disconnect()
	}
	return s.store.RemoveDevice(id)
}

// Settings returns the printer settings, falling back to defaults when
// nothing has been saved yet.
func (s *PrinterService) Settings() (entity.PrinterSettings, error) {
	return s.store.GetSettings()
}

// UpdateSettings validates and persists the printer settings.
func (s *PrinterService) UpdateSettings(settings entity.PrinterSettings) (entity.PrinterSettings, error) {
	if !settings.PaperSize.Valid() {
		return entity.PrinterSettings{}, apperror.NewBadRequestError("Ukuran kertas tidak valid")
	}
	if !settings.ReceiptType.Valid() {
		return entity.PrinterSettings{}, apperror.NewBadRequestError("Jenis struk tidak valid")
	}
	if err := s.store.SaveSettings(settings); err != nil {
		return entity.PrinterSettings{}, err
	}
	return s.store.GetSettings()
}

func (s *PrinterService) remember(dev printer.Device) {
	settings, err := s.store.GetSettings()
	if err != nil {
		settings = entity.DefaultPrinterSettings()
	}
	now := time.Now()
	saved := entity.SavedPrinter{
		ID:            dev.ID,
		Name:          dev.Name,
		Kind:          dev.Kind,
		PaperSize:     settings.PaperSize,
		LastConnected: &now,
	}
	if err := s.store.SaveDevice(saved); err != nil {
		log.Printf("printer: failed to save device %s: %v", dev.ID, err)
	}
}
