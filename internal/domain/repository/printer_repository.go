package repository

import "github.com/codapos/pos-agent/internal/domain/entity"

// PrinterStore persists paired printers and the settings singleton.
type PrinterStore interface {
	ListDevices() ([]entity.SavedPrinter, error)
	SaveDevice(device entity.SavedPrinter) error
	RemoveDevice(id string) error

	GetSettings() (entity.PrinterSettings, error)
	SaveSettings(settings entity.PrinterSettings) error
}
