package entity

import (
	"time"

	"github.com/codapos/pos-agent/internal/domain/enum"
)

// SavedPrinter is a paired printer remembered across sessions. Created on
// first successful pairing, refreshed on each connection, removed only by
// explicit user action. The list is local to this agent and never synced to
// the server.
type SavedPrinter struct {
	ID            string         `json:"id" gorm:"primaryKey;size:128"`
	Name          string         `json:"name" gorm:"size:100;not null"`
	Kind          string         `json:"kind" gorm:"size:20;not null;default:'serial'"`
	PaperSize     enum.PaperSize `json:"paper_size" gorm:"size:10;not null;default:'58mm'"`
	LastConnected *time.Time     `json:"last_connected,omitempty"`
}

func (SavedPrinter) TableName() string { return "saved_printers" }

// PrinterSettings is the singleton preference object read by both the POS
// checkout flow and the reprint flow.
type PrinterSettings struct {
	ID          uint             `json:"-" gorm:"primaryKey"`
	AutoPrint   bool             `json:"auto_print"`
	PaperSize   enum.PaperSize   `json:"paper_size" gorm:"size:10;not null;default:'58mm'"`
	ReceiptType enum.ReceiptType `json:"receipt_type" gorm:"size:10;not null;default:'Kasir'"`
}

func (PrinterSettings) TableName() string { return "printer_settings" }

// DefaultPrinterSettings returns the settings used before the user has saved
// any.
func DefaultPrinterSettings() PrinterSettings {
	return PrinterSettings{
		ID:          1,
		AutoPrint:   false,
		PaperSize:   enum.PaperSize58,
		ReceiptType: enum.ReceiptTypeKasir,
	}
}

// PrinterStatus is the runtime connection state. It is never persisted;
// the connection manager is its only writer.
type PrinterStatus struct {
	Connected  bool   `json:"connected"`
	DeviceName string `json:"device_name,omitempty"`
	DeviceID   string `json:"device_id,omitempty"`
}
