package enum

// PaperSize is the thermal paper width of the connected printer.
type PaperSize string

const (
	PaperSize58 PaperSize = "58mm"
	PaperSize80 PaperSize = "80mm"
)

// Chars returns the print width in characters for the paper size: 32 for
// 58mm, 48 for 80mm.
func (p PaperSize) Chars() int {
	if p == PaperSize80 {
		return 48
	}
	return 32
}

// Valid reports whether the value is a supported paper size.
func (p PaperSize) Valid() bool {
	return p == PaperSize58 || p == PaperSize80
}
