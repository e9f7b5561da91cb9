package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/codapos/pos-agent/internal/domain/enum"
)

// CustomerRef is the slim customer projection embedded in delivery orders and
// chat rooms.
type CustomerRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Phone string    `json:"phone,omitempty"`
}

// DeliveryOrder is the agent's read replica of a server-owned delivery order.
// It is refreshed by polling; the agent issues status commands and waits for
// the server echo rather than mutating the replica optimistically.
type DeliveryOrder struct {
	ID             uuid.UUID           `json:"id"`
	OrderNumber    string              `json:"order_number"`
	Status         enum.DeliveryStatus `json:"status"`
	CourierName    string              `json:"courier_name,omitempty"`
	PickupAddress  string              `json:"pickup_address"`
	DropoffAddress string              `json:"dropoff_address"`
	DropoffContact string              `json:"dropoff_contact,omitempty"`
	DropoffPhone   string              `json:"dropoff_phone,omitempty"`
	PackageDesc    string              `json:"package_desc,omitempty"`
	ItemsSummary   string              `json:"items_summary,omitempty"`
	DistanceKm     float64             `json:"distance_km,omitempty"`
	DeliveryFee    float64             `json:"delivery_fee,omitempty"`
	TotalAmount    float64             `json:"total_amount"`
	Notes          string              `json:"notes,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	DeliveredAt    *time.Time          `json:"delivered_at,omitempty"`
	Customer       *CustomerRef        `json:"customer,omitempty"`
}
