package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/codapos/pos-agent/internal/domain/entity"
	"github.com/codapos/pos-agent/internal/domain/enum"
	"github.com/codapos/pos-agent/internal/infrastructure/api"
	"github.com/codapos/pos-agent/pkg/apperror"
)

// DeliveryService keeps a polled read replica of the merchant's delivery
// orders and forwards status commands upstream. The replica only changes
// when a fetch succeeds; a failed poll keeps the last good data.
type DeliveryService struct {
	api    *api.DeliveryAPI
	poller *Poller

	mu     sync.Mutex
	orders []entity.DeliveryOrder
	lastAt time.Time
}

func NewDeliveryService(deliveryAPI *api.DeliveryAPI, interval time.Duration, tickers TickerFactory) *DeliveryService {
	s := &DeliveryService{api: deliveryAPI}
	s.poller = NewPoller(interval, func(ctx context.Context) {
		if err := s.Refresh(ctx); err != nil {
			log.Printf("delivery: poll failed: %v", err)
		}
	}, tickers)
	return s
}

// Start begins background polling. The first fetch happens inline so the
// replica is warm before the poller takes over.
func (s *DeliveryService) Start(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil {
		log.Printf("delivery: initial fetch failed: %v", err)
	}
	s.poller.Start()
}

// Stop halts background polling.
func (s *DeliveryService) Stop() {
	s.poller.Stop()
}

// Refresh replaces the replica with a fresh fetch from the server.
func (s *DeliveryService) Refresh(ctx context.Context) error {
	orders, err := s.api.ListOrders(ctx, "", 0, 0)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.orders = orders
	s.lastAt = time.Now()
	s.mu.Unlock()
	return nil
}

// Orders returns a snapshot of the replica, optionally filtered by status.
func (s *DeliveryService) Orders(status enum.DeliveryStatus) []entity.DeliveryOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.DeliveryOrder, 0, len(s.orders))
	for _, o := range s.orders {
		if status != "" && o.Status != status {
			continue
		}
		out = append(out, o)
	}
	return out
}

// Order looks up a single order in the replica.
func (s *DeliveryService) Order(id uuid.UUID) (entity.DeliveryOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return entity.DeliveryOrder{}, apperror.NewNotFoundError("Pesanan tidak ditemukan")
}

// StatusCounts tallies replica orders per status for the dashboard badges.
func (s *DeliveryService) StatusCounts() map[enum.DeliveryStatus]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[enum.DeliveryStatus]int)
	for _, o := range s.orders {
		counts[o.Status]++
	}
	return counts
}

// AdvanceStatus moves an order one step along the forward path and returns
// the new status. Terminal and unknown states have no forward step.
func (s *DeliveryService) AdvanceStatus(ctx context.Context, orderID uuid.UUID) (enum.DeliveryStatus, error) {
	order, err := s.Order(orderID)
	if err != nil {
		return "", err
	}
	next, ok := order.Status.Next()
	if !ok {
		return "", apperror.NewBadRequestError(fmt.Sprintf("Status %s tidak dapat diproses lebih lanjut", order.Status.Label()))
	}
	if err := s.api.UpdateStatus(ctx, orderID, next); err != nil {
		return "", err
	}
	if err := s.Refresh(ctx); err != nil {
		log.Printf("delivery: refresh after status update failed: %v", err)
	}
	return next, nil
}

// AssignCourier records the courier handling an active order.
func (s *DeliveryService) AssignCourier(ctx context.Context, orderID uuid.UUID, courierName string) error {
	courierName = strings.TrimSpace(courierName)
	if courierName == "" {
		return apperror.NewBadRequestError("Nama kurir tidak boleh kosong")
	}
	order, err := s.Order(orderID)
	if err != nil {
		return err
	}
	if order.Status.Terminal() {
		return apperror.NewBadRequestError("Pesanan sudah selesai atau dibatalkan")
	}
	if err := s.api.SetCourier(ctx, orderID, courierName); err != nil {
		return err
	}
	if err := s.Refresh(ctx); err != nil {
		log.Printf("delivery: refresh after courier update failed: %v", err)
	}
	return nil
}

// ActiveCount asks the server how many orders still need attention. Used
// for the nav badge when the full replica is not loaded.
func (s *DeliveryService) ActiveCount(ctx context.Context) (int, error) {
	return s.api.ActiveCount(ctx)
}

// LastRefreshedAt reports when the replica last changed.
func (s *DeliveryService) LastRefreshedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAt
}
