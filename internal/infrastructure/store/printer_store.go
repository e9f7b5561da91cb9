package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/codapos/pos-agent/internal/domain/entity"
	"github.com/codapos/pos-agent/internal/domain/repository"
)

type printerStore struct {
	db *gorm.DB
}

// NewPrinterStore creates the gorm-backed saved-printer and settings store.
func NewPrinterStore(db *gorm.DB) repository.PrinterStore {
	return &printerStore{db: db}
}

// ListDevices returns all paired printers, most recently connected first.
func (s *printerStore) ListDevices() ([]entity.SavedPrinter, error) {
	var devices []entity.SavedPrinter
	err := s.db.Order("last_connected DESC").Find(&devices).Error
	return devices, err
}

// SaveDevice inserts a printer on first pairing or updates it on
// reconnection.
func (s *printerStore) SaveDevice(device entity.SavedPrinter) error {
	return s.db.Save(&device).Error
}

// RemoveDevice forgets a paired printer.
func (s *printerStore) RemoveDevice(id string) error {
	return s.db.Delete(&entity.SavedPrinter{}, "id = ?", id).Error
}

// GetSettings returns the settings singleton, falling back to defaults when
// none have been saved yet.
func (s *printerStore) GetSettings() (entity.PrinterSettings, error) {
	var settings entity.PrinterSettings
	err := s.db.First(&settings, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.DefaultPrinterSettings(), nil
	}
	if err != nil {
		return entity.DefaultPrinterSettings(), err
	}
	return settings, nil
}

// SaveSettings writes the settings singleton.
func (s *printerStore) SaveSettings(settings entity.PrinterSettings) error {
	settings.ID = 1
	return s.db.Save(&settings).Error
}
