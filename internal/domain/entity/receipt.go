package entity

// ReceiptTenant holds the store branding printed at the top of a receipt.
type ReceiptTenant struct {
	Name             string `json:"name"`
	Address          string `json:"address,omitempty"`
	Phone            string `json:"phone,omitempty"`
	LogoURL          string `json:"logo_url,omitempty"`
	SubscriptionPlan string `json:"subscription_plan,omitempty"`
}

// ReceiptModifier is an add-on attached to a line item.
type ReceiptModifier struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	ProductName    string            `json:"product_name"`
	VariantName    string            `json:"variant_name,omitempty"`
	Quantity       int               `json:"quantity"`
	UnitPrice      float64           `json:"unit_price"`
	Subtotal       float64           `json:"subtotal"`
	DiscountAmount float64           `json:"discount_amount,omitempty"`
	Modifiers      []ReceiptModifier `json:"modifiers,omitempty"`
	Notes          string            `json:"notes,omitempty"`
}

// ReceiptPayment is one payment applied to the transaction.
type ReceiptPayment struct {
	PaymentMethod   string  `json:"payment_method"`
	Amount          float64 `json:"amount"`
	ReferenceNumber string  `json:"reference_number,omitempty"`
}

// ReceiptData is the transaction projection handed to the formatter. It is
// NOT a database entity — it is composed from checkout/reprint responses at
// print time, and the formatter never recomputes its totals.
type ReceiptData struct {
	TransactionNumber string           `json:"transaction_number"`
	CreatedAt         string           `json:"created_at"`
	CashierName       string           `json:"cashier_name,omitempty"`
	OutletName        string           `json:"outlet_name,omitempty"`
	Items             []ReceiptItem    `json:"items"`
	Payments          []ReceiptPayment `json:"payments"`
	Subtotal          float64          `json:"subtotal"`
	DiscountAmount    float64          `json:"discount_amount"`
	TaxAmount         float64          `json:"tax_amount"`
	TotalAmount       float64          `json:"total_amount"`
	Notes             string           `json:"notes,omitempty"`
}

// TenderedTotal returns the sum of all payment amounts.
func (r *ReceiptData) TenderedTotal() float64 {
	var sum float64
	for _, p := range r.Payments {
		sum += p.Amount
	}
	return sum
}

// Change returns the cash change due, zero when payments do not exceed the
// total.
func (r *ReceiptData) Change() float64 {
	change := r.TenderedTotal() - r.TotalAmount
	if change < 0 {
		return 0
	}
	return change
}
