package enum

// DeliveryStatus represents the status of a delivery order. The server owns
// the value; the agent only ever requests the next forward transition.
type DeliveryStatus string

const (
	DeliveryStatusWaitingPayment DeliveryStatus = "waiting_payment" // order created, awaiting payment
	DeliveryStatusPending        DeliveryStatus = "pending"         // paid, waiting for merchant
	DeliveryStatusPreparing      DeliveryStatus = "preparing"       // merchant preparing
	DeliveryStatusOnDelivery     DeliveryStatus = "on_delivery"     // courier delivering
	DeliveryStatusDelivered      DeliveryStatus = "delivered"       // completed
	DeliveryStatusCancelled      DeliveryStatus = "cancelled"       // cancelled
)

// statusFlow is the canonical forward path exposed to the merchant UI as a
// single "advance" action per state. waiting_payment and cancelled are only
// reachable through server-side events.
var statusFlow = []DeliveryStatus{
	DeliveryStatusPending,
	DeliveryStatusPreparing,
	DeliveryStatusOnDelivery,
	DeliveryStatusDelivered,
}

var statusLabels = map[DeliveryStatus]string{
	DeliveryStatusWaitingPayment: "Menunggu Bayar",
	DeliveryStatusPending:        "Pesanan Baru",
	DeliveryStatusPreparing:      "Diproses",
	DeliveryStatusOnDelivery:     "Dikirim",
	DeliveryStatusDelivered:      "Selesai",
	DeliveryStatusCancelled:      "Dibatalkan",
}

var actionLabels = map[DeliveryStatus]string{
	DeliveryStatusPending:    "Proses Pesanan",
	DeliveryStatusPreparing:  "Kirim Sekarang",
	DeliveryStatusOnDelivery: "Selesai Diantar",
}

// DeliveryStatuses returns all statuses in display order.
func DeliveryStatuses() []DeliveryStatus {
	return []DeliveryStatus{
		DeliveryStatusWaitingPayment,
		DeliveryStatusPending,
		DeliveryStatusPreparing,
		DeliveryStatusOnDelivery,
		DeliveryStatusDelivered,
		DeliveryStatusCancelled,
	}
}

// Next returns the next state in the forward path. ok is false for terminal
// states and for states outside the forward path.
func (s DeliveryStatus) Next() (DeliveryStatus, bool) {
	for i, st := range statusFlow {
		if st == s && i < len(statusFlow)-1 {
			return statusFlow[i+1], true
		}
	}
	return "", false
}

// NextActionLabel returns the label for the advance button, e.g.
// "Proses Pesanan" for a pending order. ok is false when there is no forward
// transition (the button is hidden, not disabled).
func (s DeliveryStatus) NextActionLabel() (string, bool) {
	label, ok := actionLabels[s]
	return label, ok
}

// Label returns the Indonesian display label for the status.
func (s DeliveryStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Terminal reports whether the status accepts no further transitions.
func (s DeliveryStatus) Terminal() bool {
	return s == DeliveryStatusDelivered || s == DeliveryStatusCancelled
}

// Valid reports whether the value is a known status.
func (s DeliveryStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}
