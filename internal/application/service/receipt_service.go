package service

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/codapos/pos-agent/internal/domain/entity"
	"github.com/codapos/pos-agent/internal/domain/enum"
	"github.com/codapos/pos-agent/pkg/escpos"
)

// assetBaseURL prefixes relative logo paths served by the upstream API.
const assetBaseURL = "https://codapos-production.up.railway.app"

// ReceiptService renders transaction data into printable receipts. It is a
// pure formatter: totals come from the transaction as-is and are never
// recomputed here.
type ReceiptService struct{}

func NewReceiptService() *ReceiptService {
	return &ReceiptService{}
}

// RenderESCPOS builds the ESC/POS byte stream for a receipt. Kasir receipts
// carry prices and payment details; Dapur receipts strip all amounts and keep
// only items, quantities, modifiers and notes for the kitchen.
func (s *ReceiptService) RenderESCPOS(data entity.ReceiptData, tenant entity.ReceiptTenant, paper enum.PaperSize, receiptType enum.ReceiptType) []byte {
	d := escpos.NewDocument(paper.Chars())
	kasir := receiptType == enum.ReceiptTypeKasir

	d.SetAlign(escpos.AlignCenter)
	if !kasir {
		d.SetBold(true).SetSize(escpos.SizeDouble)
		d.Text("STRUK DAPUR")
		d.SetSize(escpos.SizeNormal).SetBold(false)
		d.Separator('-')
	}
	d.SetBold(true).SetSize(escpos.SizeDouble)
	d.Text(tenant.Name)
	d.SetSize(escpos.SizeNormal).SetBold(false)
	if tenant.Address != "" {
		d.Text(tenant.Address)
	}
	if tenant.Phone != "" {
		d.Text("Tel: " + tenant.Phone)
	}
	d.SetAlign(escpos.AlignLeft)
	d.BoldSeparator('=')

	d.KeyValue("No:", data.TransactionNumber)
	d.KeyValue("Tgl:", FormatReceiptDate(data.CreatedAt))
	if data.CashierName != "" {
		d.KeyValue("Kasir:", data.CashierName)
	}
	if data.OutletName != "" {
		d.KeyValue("Outlet:", data.OutletName)
	}
	d.Separator('-')

	for _, item := range data.Items {
		name := item.ProductName
		if item.VariantName != "" {
			name += " (" + item.VariantName + ")"
		}
		d.Text(name)
		if kasir {
			d.KeyValue(fmt.Sprintf("  %d x %s", item.Quantity, FormatRupiah(item.UnitPrice)), FormatRupiah(item.Subtotal))
		} else {
			d.TextF("  %d x", item.Quantity)
		}
		for _, mod := range item.Modifiers {
			d.Text("  + " + mod.Name)
		}
		if item.Notes != "" {
			d.Text("  [!] " + item.Notes)
		}
		if item.DiscountAmount > 0 && kasir {
			d.KeyValue("  Diskon", "-"+FormatRupiah(item.DiscountAmount))
		}
	}
	d.Separator('-')

	if kasir {
		d.KeyValue("Subtotal", FormatRupiah(data.Subtotal))
		if data.DiscountAmount > 0 {
			d.KeyValue("Diskon", "-"+FormatRupiah(data.DiscountAmount))
		}
		if data.TaxAmount > 0 {
			d.KeyValue("PPN 11%", FormatRupiah(data.TaxAmount))
		}
		d.BoldSeparator('=')

		d.SetBold(true).SetSize(escpos.SizeDouble).SetAlign(escpos.AlignCenter)
		d.Text("TOTAL " + FormatRupiah(data.TotalAmount))
		d.SetSize(escpos.SizeNormal).SetBold(false).SetAlign(escpos.AlignLeft)
		d.BoldSeparator('=')

		for _, p := range data.Payments {
			d.KeyValue(enum.PaymentMethodLabel(p.PaymentMethod), FormatRupiah(p.Amount))
		}
		if change := data.Change(); change > 0 {
			d.SetBold(true)
			d.KeyValue("Kembali", FormatRupiah(change))
			d.SetBold(false)
		}
		d.Separator('-')
	}

	d.SetAlign(escpos.AlignCenter)
	d.Text("Terima Kasih!")
	d.Text("Selamat Menikmati :)")
	if data.Notes != "" {
		d.Text("Catatan: " + data.Notes)
	}
	d.Separator('-')
	d.Text("POWERED BY CODAPOS.COM")

	d.FeedLines(3)
	d.Cut()
	return d.Bytes()
}

// RenderHTML builds the browser-printable HTML rendition of a receipt, used
// as the fallback when no thermal printer is connected.
func (s *ReceiptService) RenderHTML(data entity.ReceiptData, tenant entity.ReceiptTenant, paper enum.PaperSize, receiptType enum.ReceiptType) string {
	w := "48mm"
	if paper == enum.PaperSize80 {
		w = "72mm"
	}
	kasir := receiptType == enum.ReceiptTypeKasir

	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><meta charset=\"utf-8\">\n<style>\n")
	fmt.Fprintf(&b, "@media print {\n    @page { margin: 0; size: %s auto; }\n    body { margin: 0; }\n}\n", w)
	fmt.Fprintf(&b, "body { font-family: 'Courier New', monospace; font-size: 12px; width: %s; margin: 0 auto; padding: 4px; color: #000; }\n", w)
	b.WriteString(".divider { border-top: 1px dashed #000; margin: 6px 0; }\n")
	b.WriteString(".divider-bold { border-top: 2px solid #000; margin: 6px 0; }\n")
	b.WriteString(".center { text-align: center; }\n.bold { font-weight: bold; }\n")
	b.WriteString(".total-row { display: flex; justify-content: space-between; font-weight: bold; font-size: 14px; }\n")
	b.WriteString(".row { display: flex; justify-content: space-between; }\n")
	b.WriteString("</style></head><body>\n")

	if strings.Contains(tenant.SubscriptionPlan, "pro") && tenant.LogoURL != "" && kasir {
		logo := tenant.LogoURL
		if !strings.HasPrefix(logo, "http") {
			logo = assetBaseURL + logo
		}
		fmt.Fprintf(&b, "<div class=\"center\" style=\"margin-bottom:8px\"><img src=\"%s\" style=\"max-height:40px;max-width:100%%\"/></div>\n", html.EscapeString(logo))
	}
	if !kasir {
		b.WriteString("<div class=\"center bold\" style=\"font-size:16px;margin-bottom:8px;border:1px solid #000;padding:4px\">STRUK DAPUR</div>\n")
	}
	fmt.Fprintf(&b, "<div class=\"center bold\" style=\"font-size:14px\">%s</div>\n", html.EscapeString(tenant.Name))
	if tenant.Address != "" {
		fmt.Fprintf(&b, "<div class=\"center\" style=\"font-size:10px\">%s</div>\n", html.EscapeString(tenant.Address))
	}
	if tenant.Phone != "" {
		fmt.Fprintf(&b, "<div class=\"center\" style=\"font-size:10px\">Tel: %s</div>\n", html.EscapeString(tenant.Phone))
	}
	b.WriteString("<div class=\"divider-bold\"></div>\n")

	htmlRow(&b, "No:", data.TransactionNumber)
	htmlRow(&b, "Tgl:", FormatReceiptDate(data.CreatedAt))
	if data.CashierName != "" {
		htmlRow(&b, "Kasir:", data.CashierName)
	}
	if data.OutletName != "" {
		htmlRow(&b, "Outlet:", data.OutletName)
	}
	b.WriteString("<div class=\"divider\"></div>\n")

	for _, item := range data.Items {
		name := item.ProductName
		if item.VariantName != "" {
			name += " (" + item.VariantName + ")"
		}
		b.WriteString("<div style=\"display:flex;justify-content:space-between;margin:2px 0\"><div style=\"flex:1\">")
		fmt.Fprintf(&b, "<div>%s</div>", html.EscapeString(name))
		if kasir {
			fmt.Fprintf(&b, "<div style=\"font-size:10px;color:#666\">%d x %s</div>", item.Quantity, FormatRupiah(item.UnitPrice))
		} else {
			fmt.Fprintf(&b, "<div style=\"font-size:10px;color:#666\">%d</div>", item.Quantity)
		}
		if item.Notes != "" {
			fmt.Fprintf(&b, "<div style=\"font-size:10px;color:#C40000;font-style:italic\">Catatan: %s</div>", html.EscapeString(item.Notes))
		}
		b.WriteString("</div>")
		if kasir {
			fmt.Fprintf(&b, "<div style=\"text-align:right;white-space:nowrap\">%s</div>", FormatRupiah(item.Subtotal))
		}
		b.WriteString("</div>\n")
		for _, mod := range item.Modifiers {
			price := ""
			if kasir {
				price = " " + FormatRupiah(mod.Price)
			}
			fmt.Fprintf(&b, "<div style=\"padding-left:12px;font-size:10px;color:#666\">+ %s%s</div>\n", html.EscapeString(mod.Name), price)
		}
		if item.DiscountAmount > 0 && kasir {
			fmt.Fprintf(&b, "<div style=\"padding-left:12px;font-size:10px;color:#C40000\">Diskon -%s</div>\n", FormatRupiah(item.DiscountAmount))
		}
	}

	if kasir {
		b.WriteString("<div class=\"divider\"></div>\n")
		htmlRow(&b, "Subtotal", FormatRupiah(data.Subtotal))
		if data.DiscountAmount > 0 {
			fmt.Fprintf(&b, "<div class=\"row\" style=\"color:#C40000\"><span>Diskon</span><span>-%s</span></div>\n", FormatRupiah(data.DiscountAmount))
		}
		if data.TaxAmount > 0 {
			htmlRow(&b, "PPN 11%", FormatRupiah(data.TaxAmount))
		}
		b.WriteString("<div class=\"divider-bold\"></div>\n")
		fmt.Fprintf(&b, "<div class=\"total-row\"><span>TOTAL</span><span>%s</span></div>\n", FormatRupiah(data.TotalAmount))
		b.WriteString("<div class=\"divider-bold\"></div>\n")
		for _, p := range data.Payments {
			htmlRow(&b, enum.PaymentMethodLabel(p.PaymentMethod), FormatRupiah(p.Amount))
		}
		if change := data.Change(); change > 0 {
			fmt.Fprintf(&b, "<div class=\"row bold\"><span>Kembali</span><span>%s</span></div>\n", FormatRupiah(change))
		}
	}

	b.WriteString("<div class=\"divider\"></div>\n")
	b.WriteString("<div class=\"center\" style=\"font-size:11px;margin-top:8px\">Terima Kasih!</div>\n")
	b.WriteString("<div class=\"center\" style=\"font-size:10px;color:#666\">Selamat Menikmati :)</div>\n")
	if data.Notes != "" {
		fmt.Fprintf(&b, "<div class=\"center\" style=\"font-size:9px;color:#888;margin-top:4px\">Catatan: %s</div>\n", html.EscapeString(data.Notes))
	}
	b.WriteString("<div class=\"divider-bold\"></div>\n")
	b.WriteString("<div class=\"center bold\" style=\"font-size:9px;color:#666;margin:6px 0\">POWERED BY CODAPOS.COM</div>\n")
	b.WriteString("</body></html>")
	return b.String()
}

func htmlRow(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "<div class=\"row\"><span>%s</span><span>%s</span></div>\n", html.EscapeString(label), html.EscapeString(value))
}

// FormatRupiah formats an amount as Indonesian Rupiah with dot thousand
// separators, e.g. "Rp 15.000". Amounts are rounded to whole rupiah.
func FormatRupiah(amount float64) string {
	n := int64(math.Round(amount))
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return "Rp " + sign + b.String()
}

// FormatReceiptDate renders an RFC 3339 timestamp as "dd/mm/yyyy hh:mm".
// Unparseable input is returned unchanged so a bad timestamp never blocks a
// print.
func FormatReceiptDate(iso string) string {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return iso
	}
	return t.Format("02/01/2006 15:04")
}
