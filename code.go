package presskit

import (
	"fmt"
	"math"
	"sync"

	"github.com/boombuler/barcode/qr"
	"github.com/go-pdf/fpdf/contrib/barcode"
)

// The contrib barcode package keeps its symbols in a package-level map.
var barcodeMu sync.Mutex

const (
	qrTargetSize     = 30 * mm
	pdf417Columns    = 8
	pdf417Security   = 2
	pdf417TargetFrac = 0.6 // of the printable width
)

// DrawCode draws an optional caption line followed by a QR or PDF417
// symbol encoding code.Payload. Caption and symbol pass the page-break
// gate together when they fit on one page; a longer caption is split like
// a paragraph and the symbol is gated on its own. Symbols taller than the
// printable area are scaled down to fit. An empty payload draws a blank
// line.
func (b *Builder) DrawCode(code Code) error {
	const op = "DrawCode"
	if err := b.ready(op); err != nil {
		return err
	}
	if code.Payload == "" {
		return b.drawText(op, BlockCode, "", "")
	}

	var captionLines []string
	if code.Caption != "" {
		enc, err := b.encode(op, code.Caption)
		if err != nil {
			return b.fail(op, err)
		}
		b.setStyle(b.bodyStyle())
		captionLines = wrapText(enc, b.textWidth(), b.pdf.GetStringWidth)
	}

	barcodeMu.Lock()
	defer barcodeMu.Unlock()

	key, target, err := b.registerCode(code)
	if err != nil {
		return b.fail(op, err)
	}
	w0, h0 := barcode.GetUnscaledBarcodeDimensions(b.pdf, key)
	if w0 <= 0 || h0 <= 0 {
		return b.fail(op, fmt.Errorf("%w: empty %s symbol", ErrInvalidParam, code.Symbology))
	}
	// Whole-number scale factors keep modules crisp.
	k := math.Max(1, math.Floor(target/w0))
	w, h := w0*k, h0*k

	if ph := b.printableHeight(); h > ph {
		w, h = w*ph/h, ph
	}

	captionH := float64(len(captionLines)) * b.cfg.lineH
	if captionH+h <= b.printableHeight()+epsilon {
		b.reserve(captionH + h)
		if len(captionLines) > 0 {
			b.drawLines(BlockParagraph, captionLines, b.cfg.lineH, "L", "")
		}
	} else {
		// The caption flows like a paragraph and the symbol follows on its own.
		b.placeLines(BlockParagraph, captionLines, b.cfg.lineH, "L", "", 0)
		b.reserve(h)
	}
	barcode.Barcode(b.pdf, key, b.cfg.left, b.cur.Y, w, h, false)
	b.record(Placement{Kind: BlockCode, Y: b.cur.Y, Width: w, Height: h, Lines: []string{code.Payload}})
	b.cur.Y += h
	return b.check(op)
}

// registerCode encodes the payload and returns the registry key together
// with the target symbol width.
func (b *Builder) registerCode(code Code) (string, float64, error) {
	switch code.Symbology {
	case "", QR:
		bc, err := qr.Encode(code.Payload, qr.M, qr.Auto)
		if err != nil {
			return "", 0, fmt.Errorf("%w: qr: %v", ErrInvalidParam, err)
		}
		return barcode.Register(bc), qrTargetSize, nil
	case PDF417:
		key := barcode.RegisterPdf417(b.pdf, code.Payload, pdf417Columns, pdf417Security)
		if b.pdf.Err() {
			return "", 0, b.pdf.Error()
		}
		return key, b.printableWidth() * pdf417TargetFrac, nil
	default:
		return "", 0, fmt.Errorf("%w: unknown symbology %q", ErrInvalidParam, code.Symbology)
	}
}
