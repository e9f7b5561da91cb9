package enum

// ReceiptType selects the receipt layout: the full cashier receipt with
// prices and payments, or the kitchen ticket without them.
type ReceiptType string

const (
	ReceiptTypeKasir ReceiptType = "Kasir"
	ReceiptTypeDapur ReceiptType = "Dapur"
)

// Valid reports whether the value is a known receipt type.
func (t ReceiptType) Valid() bool {
	return t == ReceiptTypeKasir || t == ReceiptTypeDapur
}

// PaymentMethodLabel maps a payment method code to its Indonesian receipt
// label. Unknown codes are printed as-is.
func PaymentMethodLabel(method string) string {
	switch method {
	case "cash":
		return "Tunai"
	case "qris":
		return "QRIS"
	case "ewallet":
		return "E-Wallet"
	case "bank_transfer":
		return "Transfer Bank"
	case "credit_card":
		return "Kartu Kredit"
	case "card":
		return "Kartu"
	}
	return method
}
