package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/codapos/pos-agent/internal/application/service"
	"github.com/codapos/pos-agent/internal/domain/enum"
	"github.com/codapos/pos-agent/internal/presentation/http/dto/request"
	"github.com/codapos/pos-agent/internal/presentation/http/dto/response"
	"github.com/codapos/pos-agent/pkg/pagination"
)

// DeliveryHandler serves the delivery order replica and status commands.
type DeliveryHandler struct {
	deliveries *service.DeliveryService
}

func NewDeliveryHandler(deliveries *service.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{deliveries: deliveries}
}

// List returns replica orders, optionally filtered by status, paged.
func (h *DeliveryHandler) List(c *gin.Context) {
	status := enum.DeliveryStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		response.BadRequest(c, "Status tidak valid")
		return
	}

	params := pagination.DefaultPagination()
	if err := c.ShouldBindQuery(params); err != nil {
		response.BadRequest(c, "Parameter halaman tidak valid")
		return
	}

	orders := h.deliveries.Orders(status)
	result := pagination.Slice(orders, params)
	response.SuccessWithPagination(c, 200, "Daftar pesanan", result)
}

// Get returns one order from the replica.
func (h *DeliveryHandler) Get(c *gin.Context) {
	id, ok := ParamUUID(c, "id")
	if !ok {
		return
	}
	order, err := h.deliveries.Order(id)
	if err != nil {
		RespondError(c, err)
		return
	}
	response.OK(c, "Detail pesanan", order)
}

// Advance moves an order one step along the forward path.
func (h *DeliveryHandler) Advance(c *gin.Context) {
	id, ok := ParamUUID(c, "id")
	if !ok {
		return
	}
	next, err := h.deliveries.AdvanceStatus(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	response.OK(c, "Status diperbarui", gin.H{
		"status": next,
		"label":  next.Label(),
	})
}

// AssignCourier records the courier handling an order.
func (h *DeliveryHandler) AssignCourier(c *gin.Context) {
	id, ok := ParamUUID(c, "id")
	if !ok {
		return
	}
	var req request.CourierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Nama kurir tidak boleh kosong")
		return
	}
	if err := h.deliveries.AssignCourier(c.Request.Context(), id, req.CourierName); err != nil {
		RespondError(c, err)
		return
	}
	response.OK(c, "Kurir ditetapkan", nil)
}

// Summary tallies the replica per status for the dashboard badges.
func (h *DeliveryHandler) Summary(c *gin.Context) {
	counts := h.deliveries.StatusCounts()
	summary := make([]gin.H, 0, len(enum.DeliveryStatuses()))
	for _, s := range enum.DeliveryStatuses() {
		summary = append(summary, gin.H{
			"status": s,
			"label":  s.Label(),
			"count":  counts[s],
		})
	}
	response.OK(c, "Ringkasan pesanan", gin.H{
		"statuses":     summary,
		"refreshed_at": h.deliveries.LastRefreshedAt(),
	})
}

// Refresh forces an immediate replica fetch.
func (h *DeliveryHandler) Refresh(c *gin.Context) {
	if err := h.deliveries.Refresh(c.Request.Context()); err != nil {
		RespondError(c, err)
		return
	}
	response.OK(c, "Data diperbarui", nil)
}
