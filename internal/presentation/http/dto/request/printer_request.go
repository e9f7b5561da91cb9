package request

import "github.com/codapos/pos-agent/internal/domain/entity"

// ConnectRequest selects the device to pair with. Kind matches a configured
// transport ("serial" or "network"); for network printers the ID is the
// host:port address.
type ConnectRequest struct {
	ID   string `json:"id" binding:"required"`
	Name string `json:"name"`
	Kind string `json:"kind" binding:"required"`
}

// PrintRequest carries one receipt to print. Totals are taken as-is from
// the checkout response; the agent never recomputes them.
type PrintRequest struct {
	Receipt entity.ReceiptData   `json:"receipt" binding:"required"`
	Tenant  entity.ReceiptTenant `json:"tenant" binding:"required"`
}

// RenderRequest asks for a rendered receipt without printing, used for the
// browser-print fallback and print preview.
type RenderRequest struct {
	Receipt   entity.ReceiptData   `json:"receipt" binding:"required"`
	Tenant    entity.ReceiptTenant `json:"tenant" binding:"required"`
	PaperSize string               `json:"paper_size"`
	Type      string               `json:"type"`
}

// SettingsRequest updates the printer settings singleton.
type SettingsRequest struct {
	AutoPrint   *bool  `json:"auto_print"`
	PaperSize   string `json:"paper_size"`
	ReceiptType string `json:"receipt_type"`
}
