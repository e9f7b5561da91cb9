package enum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeliveryStatusNext(t *testing.T) {
	tests := []struct {
		status DeliveryStatus
		want   DeliveryStatus
		ok     bool
	}{
		{DeliveryStatusPending, DeliveryStatusPreparing, true},
		{DeliveryStatusPreparing, DeliveryStatusOnDelivery, true},
		{DeliveryStatusOnDelivery, DeliveryStatusDelivered, true},
		{DeliveryStatusDelivered, "", false},
		{DeliveryStatusCancelled, "", false},
		{DeliveryStatusWaitingPayment, "", false},
		{"unknown", "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			next, ok := tt.status.Next()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, next)
		})
	}
}

func TestDeliveryStatusLabels(t *testing.T) {
	assert.Equal(t, "Pesanan Baru", DeliveryStatusPending.Label())
	assert.Equal(t, "Diproses", DeliveryStatusPreparing.Label())
	assert.Equal(t, "Dikirim", DeliveryStatusOnDelivery.Label())
	assert.Equal(t, "Selesai", DeliveryStatusDelivered.Label())
	assert.Equal(t, "Dibatalkan", DeliveryStatusCancelled.Label())
	assert.Equal(t, "custom", DeliveryStatus("custom").Label())
}

func TestDeliveryStatusActionLabels(t *testing.T) {
	tests := []struct {
		status DeliveryStatus
		want   string
		ok     bool
	}{
		{DeliveryStatusPending, "Proses Pesanan", true},
		{DeliveryStatusPreparing, "Kirim Sekarang", true},
		{DeliveryStatusOnDelivery, "Selesai Diantar", true},
		{DeliveryStatusDelivered, "", false},
		{DeliveryStatusCancelled, "", false},
	}
	for _, tt := range tests {
		label, ok := tt.status.NextActionLabel()
		assert.Equal(t, tt.ok, ok)
		assert.Equal(t, tt.want, label)
	}
}

func TestDeliveryStatusTerminal(t *testing.T) {
	assert.True(t, DeliveryStatusDelivered.Terminal())
	assert.True(t, DeliveryStatusCancelled.Terminal())
	assert.False(t, DeliveryStatusPending.Terminal())
	assert.False(t, DeliveryStatusOnDelivery.Terminal())
}

func TestPaperSizeChars(t *testing.T) {
	assert.Equal(t, 32, PaperSize58.Chars())
	assert.Equal(t, 48, PaperSize80.Chars())
	assert.False(t, PaperSize("60mm").Valid())
}

func TestPaymentMethodLabel(t *testing.T) {
	assert.Equal(t, "Tunai", PaymentMethodLabel("cash"))
	assert.Equal(t, "QRIS", PaymentMethodLabel("qris"))
	assert.Equal(t, "Transfer Bank", PaymentMethodLabel("bank_transfer"))
	assert.Equal(t, "voucher", PaymentMethodLabel("voucher"))
}
