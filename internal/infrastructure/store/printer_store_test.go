package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/codapos/pos-agent/internal/config"
	"github.com/codapos/pos-agent/internal/domain/entity"
	"github.com/codapos/pos-agent/internal/domain/enum"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewSQLiteDB(&config.StoreConfig{Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func TestPrinterStoreDeviceRoundTrip(t *testing.T) {
	store := NewPrinterStore(openTestDB(t))

	now := time.Now().Truncate(time.Second)
	require.NoError(t, store.SaveDevice(entity.SavedPrinter{
		ID:            "/dev/rfcomm0",
		Name:          "RPP02N",
		Kind:          "serial",
		PaperSize:     enum.PaperSize58,
		LastConnected: &now,
	}))

	devices, err := store.ListDevices()
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "RPP02N", devices[0].Name)
	assert.Equal(t, enum.PaperSize58, devices[0].PaperSize)
}

func TestPrinterStoreSaveDeviceUpserts(t *testing.T) {
	store := NewPrinterStore(openTestDB(t))

	require.NoError(t, store.SaveDevice(entity.SavedPrinter{ID: "a", Name: "Old", Kind: "serial"}))
	require.NoError(t, store.SaveDevice(entity.SavedPrinter{ID: "a", Name: "New", Kind: "serial"}))

	devices, err := store.ListDevices()
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "New", devices[0].Name)
}

func TestPrinterStoreListOrdersByLastConnected(t *testing.T) {
	store := NewPrinterStore(openTestDB(t))

	older := time.Now().Add(-time.Hour)
	newer := time.Now()
	require.NoError(t, store.SaveDevice(entity.SavedPrinter{ID: "old", Name: "Old", Kind: "serial", LastConnected: &older}))
	require.NoError(t, store.SaveDevice(entity.SavedPrinter{ID: "new", Name: "New", Kind: "network", LastConnected: &newer}))

	devices, err := store.ListDevices()
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, "new", devices[0].ID)
}

func TestPrinterStoreRemoveDevice(t *testing.T) {
	store := NewPrinterStore(openTestDB(t))
	require.NoError(t, store.SaveDevice(entity.SavedPrinter{ID: "a", Name: "A", Kind: "serial"}))
	require.NoError(t, store.RemoveDevice("a"))

	devices, err := store.ListDevices()
	require.NoError(t, err)
	assert.Empty(t, devices)
}

func TestPrinterStoreSettingsDefaults(t *testing.T) {
	store := NewPrinterStore(openTestDB(t))

	settings, err := store.GetSettings()
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultPrinterSettings(), settings)
}

func TestPrinterStoreSettingsRoundTrip(t *testing.T) {
	store := NewPrinterStore(openTestDB(t))

	require.NoError(t, store.SaveSettings(entity.PrinterSettings{
		AutoPrint:   true,
		PaperSize:   enum.PaperSize80,
		ReceiptType: enum.ReceiptTypeDapur,
	}))

	settings, err := store.GetSettings()
	require.NoError(t, err)
	assert.True(t, settings.AutoPrint)
	assert.Equal(t, enum.PaperSize80, settings.PaperSize)
	assert.Equal(t, enum.ReceiptTypeDapur, settings.ReceiptType)

	// The settings row is a singleton; saving again overwrites it.
	require.NoError(t, store.SaveSettings(entity.PrinterSettings{
		PaperSize:   enum.PaperSize58,
		ReceiptType: enum.ReceiptTypeKasir,
	}))
	settings, err = store.GetSettings()
	require.NoError(t, err)
	assert.False(t, settings.AutoPrint)
	assert.Equal(t, enum.PaperSize58, settings.PaperSize)
}

func TestSessionStoreRoundTrip(t *testing.T) {
	store := NewSessionStore(openTestDB(t))

	token, err := store.Token()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.SetToken("jwt-token"))
	token, err = store.Token()
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", token)

	require.NoError(t, store.SetToken("replacement"))
	token, err = store.Token()
	require.NoError(t, err)
	assert.Equal(t, "replacement", token)

	require.NoError(t, store.Clear())
	token, err = store.Token()
	require.NoError(t, err)
	assert.Empty(t, token)
}
