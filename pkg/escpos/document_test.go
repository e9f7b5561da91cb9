package escpos

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocumentStartsWithInit(t *testing.T) {
	d := NewDocument(32)
	assert.Equal(t, []byte{ESC, '@'}, d.Bytes())
}

func TestNewDocumentDefaultsWidth(t *testing.T) {
	d := NewDocument(0)
	assert.Equal(t, 32, d.Width())
}

func TestKeyValue(t *testing.T) {
	tests := []struct {
		name  string
		width int
		key   string
		value string
		want  string
	}{
		{
			name:  "fits with padding",
			width: 32,
			key:   "Subtotal",
			value: "Rp 45.000",
			want:  "Subtotal" + strings.Repeat(" ", 15) + "Rp 45.000",
		},
		{
			name:  "exact fit keeps one space",
			width: 20,
			key:   "1234567890",
			value: "0987654321",
			want:  "123456789 0987654321",
		},
		{
			name:  "overflow truncates key, value intact",
			width: 20,
			key:   "Nama produk yang sangat panjang sekali",
			value: "Rp 15.000",
			want:  "Nama produ Rp 15.000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDocument(tt.width)
			d.KeyValue(tt.key, tt.value)

			line := extractLastLine(t, d)
			assert.Equal(t, tt.want, line)
			assert.LessOrEqual(t, len(line), tt.width)
			assert.True(t, strings.HasSuffix(line, tt.value))
		})
	}
}

func TestKeyValueTruncatesOnRuneBoundary(t *testing.T) {
	// The cut point lands inside the two-byte "é"; truncation must back up
	// instead of emitting half a rune.
	d := NewDocument(20)
	d.KeyValue("Sate Ayamé Bumbu Kacang", "Rp 15.000")

	line := extractLastLine(t, d)
	assert.True(t, utf8.ValidString(line))
	assert.Equal(t, "Sate Ayam  Rp 15.000", line)
	assert.Len(t, line, 20)
}

func TestKeyValueValueWiderThanPaper(t *testing.T) {
	// The key is dropped entirely and the value overflows with a single
	// leading space rather than panicking.
	d := NewDocument(8)
	d.KeyValue("Total", "Rp 1.000.000")
	assert.Equal(t, " Rp 1.000.000", extractLastLine(t, d))
}

func TestSeparatorSpansFullWidth(t *testing.T) {
	for _, width := range []int{32, 48} {
		d := NewDocument(width)
		d.Separator('-')
		assert.Equal(t, strings.Repeat("-", width), extractLastLine(t, d))
	}
}

func TestBoldSeparatorTogglesBold(t *testing.T) {
	d := NewDocument(32)
	d.BoldSeparator('=')

	raw := d.Bytes()
	assert.True(t, bytes.Contains(raw, []byte{ESC, 'E', 1}))
	assert.True(t, bytes.Contains(raw, []byte{ESC, 'E', 0}))
	assert.True(t, bytes.Contains(raw, []byte(strings.Repeat("=", 32))))
}

func TestCutAndFeed(t *testing.T) {
	d := NewDocument(32)
	d.FeedLines(3)
	d.Cut()

	raw := d.Bytes()
	assert.True(t, bytes.HasSuffix(raw, []byte{ESC, 'd', 3, GS, 'V', 0x00}))
}

func TestReset(t *testing.T) {
	d := NewDocument(32)
	d.Text("something")
	d.Reset()
	assert.Equal(t, []byte{ESC, '@'}, d.Bytes())
}

// extractLastLine returns the text between the last two control runs, i.e.
// the content of the final printed line.
func extractLastLine(t *testing.T, d *Document) string {
	t.Helper()
	raw := d.Bytes()
	require.Equal(t, byte(LF), raw[len(raw)-1])
	body := raw[:len(raw)-1]
	start := bytes.LastIndexByte(body, LF)
	if start < 0 {
		// Skip the ESC @ prologue.
		start = 1
	}
	return string(body[start+1:])
}
