package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/codapos/pos-agent/internal/application/service"
	"github.com/codapos/pos-agent/internal/domain/enum"
	"github.com/codapos/pos-agent/internal/presentation/http/dto/request"
	"github.com/codapos/pos-agent/internal/presentation/http/dto/response"
	"github.com/codapos/pos-agent/pkg/printer"
)

// PrinterHandler exposes printer pairing, printing and settings.
type PrinterHandler struct {
	printers *service.PrinterService
	receipts *service.ReceiptService
}

func NewPrinterHandler(printers *service.PrinterService, receipts *service.ReceiptService) *PrinterHandler {
	return &PrinterHandler{printers: printers, receipts: receipts}
}

// Discover scans for nearby printer devices.
func (h *PrinterHandler) Discover(c *gin.Context) {
	devices, err := h.printers.Discover(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	if devices == nil {
		devices = []printer.Device{}
	}
	response.OK(c, "Perangkat ditemukan", devices)
}

// Saved lists previously paired printers.
func (h *PrinterHandler) Saved(c *gin.Context) {
	devices, err := h.printers.SavedDevices()
	if err != nil {
		RespondError(c, err)
		return
	}
	response.OK(c, "Printer tersimpan", devices)
}

// Forget removes a saved printer.
func (h *PrinterHandler) Forget(c *gin.Context) {
	id := c.Param("id")
	if err := h.printers.ForgetDevice(id); err != nil {
		RespondError(c, err)
		return
	}
	response.NoContent(c)
}

// Connect pairs with the requested device.
func (h *PrinterHandler) Connect(c *gin.Context) {
	var req request.ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Permintaan tidak valid")
		return
	}
	dev := printer.Device{ID: req.ID, Name: req.Name, Kind: req.Kind}
	if err := h.printers.Connect(c.Request.Context(), dev); err != nil {
		RespondError(c, err)
		return
	}
	response.OK(c, "Printer terhubung", h.printers.Status())
}

// Disconnect tears down the active connection.
func (h *PrinterHandler) Disconnect(c *gin.Context) {
	h.printers.Disconnect()
	response.OK(c, "Printer terputus", h.printers.Status())
}

// Status reports the current connection state.
func (h *PrinterHandler) Status(c *gin.Context) {
	response.OK(c, "Status printer", h.printers.Status())
}

// Print renders the receipt with the stored settings and sends it to the
// connected printer.
func (h *PrinterHandler) Print(c *gin.Context) {
	var req request.PrintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Data struk tidak valid")
		return
	}
	if err := h.printers.PrintReceipt(c.Request.Context(), req.Receipt, req.Tenant); err != nil {
		RespondError(c, err)
		return
	}
	response.OK(c, "Struk dicetak", nil)
}

// TestPrint sends the alignment page.
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	if err := h.printers.TestPrint(c.Request.Context()); err != nil {
		RespondError(c, err)
		return
	}
	response.OK(c, "Tes cetak terkirim", nil)
}

// Render returns the receipt as HTML and raw ESC/POS bytes without
// printing, for the browser-print fallback.
func (h *PrinterHandler) Render(c *gin.Context) {
	var req request.RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Data struk tidak valid")
		return
	}

	settings, err := h.printers.Settings()
	if err != nil {
		RespondError(c, err)
		return
	}
	paper := settings.PaperSize
	if req.PaperSize != "" {
		paper = enum.PaperSize(req.PaperSize)
		if !paper.Valid() {
			response.BadRequest(c, "Ukuran kertas tidak valid")
			return
		}
	}
	receiptType := settings.ReceiptType
	if req.Type != "" {
		receiptType = enum.ReceiptType(req.Type)
		if !receiptType.Valid() {
			response.BadRequest(c, "Jenis struk tidak valid")
			return
		}
	}

	html := h.receipts.RenderHTML(req.Receipt, req.Tenant, paper, receiptType)
	raw := h.receipts.RenderESCPOS(req.Receipt, req.Tenant, paper, receiptType)
	response.OK(c, "Struk dirender", gin.H{
		"html":   html,
		"escpos": raw,
	})
}

// Settings returns the printer settings.
func (h *PrinterHandler) Settings(c *gin.Context) {
	settings, err := h.printers.Settings()
	if err != nil {
		RespondError(c, err)
		return
	}
	response.OK(c, "Pengaturan printer", settings)
}

// UpdateSettings applies a partial settings update.
func (h *PrinterHandler) UpdateSettings(c *gin.Context) {
	var req request.SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Permintaan tidak valid")
		return
	}

	settings, err := h.printers.Settings()
	if err != nil {
		RespondError(c, err)
		return
	}
	if req.AutoPrint != nil {
		settings.AutoPrint = *req.AutoPrint
	}
	if req.PaperSize != "" {
		settings.PaperSize = enum.PaperSize(req.PaperSize)
	}
	if req.ReceiptType != "" {
		settings.ReceiptType = enum.ReceiptType(req.ReceiptType)
	}

	updated, err := h.printers.UpdateSettings(settings)
	if err != nil {
		RespondError(c, err)
		return
	}
	response.OK(c, "Pengaturan disimpan", updated)
}
