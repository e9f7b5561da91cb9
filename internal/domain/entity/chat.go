package entity

import (
	"time"

	"github.com/google/uuid"
)

// Chat sender types.
const (
	SenderTypeMerchant = "merchant"
	SenderTypeCustomer = "customer"
)

// ChatRoom is the conversation attached to a delivery order. delivery_id is a
// reference, not ownership; the unread count is a server-side aggregate the
// agent only displays.
type ChatRoom struct {
	ID            uuid.UUID    `json:"id"`
	DeliveryID    uuid.UUID    `json:"delivery_id"`
	CustomerID    uuid.UUID    `json:"customer_id"`
	Status        string       `json:"status"`
	LastMessage   string       `json:"last_message,omitempty"`
	LastMessageAt *time.Time   `json:"last_message_at,omitempty"`
	UnreadCount   int          `json:"unread_count"`
	Customer      *CustomerRef `json:"customer,omitempty"`
}

// ChatMessage is a single message in a chat room. The log is append-only:
// the agent sends new messages and marks room-level read state, never edits
// or deletes.
type ChatMessage struct {
	ID         uuid.UUID  `json:"id"`
	RoomID     uuid.UUID  `json:"room_id"`
	SenderType string     `json:"sender_type"`
	SenderName string     `json:"sender_name"`
	Content    string     `json:"content"`
	ReadAt     *time.Time `json:"read_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
