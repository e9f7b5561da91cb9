package request

// CourierRequest assigns a courier to an active delivery order.
type CourierRequest struct {
	CourierName string `json:"courier_name" binding:"required"`
}

// SendMessageRequest posts one chat message to a room.
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// SessionRequest hands the upstream bearer token to the agent after the
// cashier logs in through the web UI.
type SessionRequest struct {
	Token string `json:"token" binding:"required"`
}
