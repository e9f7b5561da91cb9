package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/codapos/pos-agent/internal/domain/entity"
	"github.com/codapos/pos-agent/internal/domain/enum"
)

// DeliveryAPI wraps the delivery-order endpoints.
type DeliveryAPI struct {
	client *Client
}

// NewDeliveryAPI creates the delivery endpoint group.
func NewDeliveryAPI(client *Client) *DeliveryAPI {
	return &DeliveryAPI{client: client}
}

// ListOrders fetches the merchant's delivery orders, optionally filtered by
// status.
func (a *DeliveryAPI) ListOrders(ctx context.Context, status enum.DeliveryStatus, limit, offset int) ([]entity.DeliveryOrder, error) {
	if limit <= 0 {
		limit = 50
	}
	query := url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}
	if status != "" {
		query.Set("status", string(status))
	}

	var data struct {
		Orders []entity.DeliveryOrder `json:"orders"`
	}
	if err := a.client.do(ctx, http.MethodGet, "/delivery/orders", query, nil, &data); err != nil {
		return nil, err
	}
	return data.Orders, nil
}

// UpdateStatus requests a status transition. The server validates the
// transition; the caller re-fetches rather than assuming success.
func (a *DeliveryAPI) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enum.DeliveryStatus) error {
	body := map[string]string{"status": string(status)}
	return a.client.do(ctx, http.MethodPut, "/delivery/orders/"+orderID.String()+"/status", nil, body, nil)
}

// SetCourier assigns the courier name shown on the tracking page.
func (a *DeliveryAPI) SetCourier(ctx context.Context, orderID uuid.UUID, courierName string) error {
	body := map[string]string{"courier_name": courierName}
	return a.client.do(ctx, http.MethodPut, "/delivery/orders/"+orderID.String()+"/courier", nil, body, nil)
}

// ActiveCount returns the number of orders not yet delivered or cancelled.
func (a *DeliveryAPI) ActiveCount(ctx context.Context) (int, error) {
	var data struct {
		Count int `json:"count"`
	}
	if err := a.client.do(ctx, http.MethodGet, "/delivery/orders/active-count", nil, nil, &data); err != nil {
		return 0, err
	}
	return data.Count, nil
}
