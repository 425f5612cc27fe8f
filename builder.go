package presskit

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/go-pdf/fpdf"
	"github.com/go-pdf/fpdf/contrib/gofpdi"
)

// epsilon absorbs float noise when comparing offsets against the page limit.
const epsilon = 1e-6

// cellMargin is the horizontal padding the engine applies inside a text cell.
const cellMargin = 1 * mm

type builderState int

const (
	stateNew builderState = iota
	stateOpen
	stateFinal
	stateFailed
)

// BlockKind identifies a drawn block in the placement trace.
type BlockKind string

const (
	BlockTitle     BlockKind = "title"
	BlockHeading   BlockKind = "heading"
	BlockParagraph BlockKind = "paragraph"
	BlockKeyValue  BlockKind = "keyvalue"
	BlockLink      BlockKind = "link"
	BlockImage     BlockKind = "image"
	BlockCode      BlockKind = "code"
	BlockSpacer    BlockKind = "spacer"
	BlockAppendix  BlockKind = "appendix"
)

// Placement records where one block (or one page-sized piece of a block
// taller than a page) was drawn.
type Placement struct {
	Kind   BlockKind
	Page   int     // zero-based page index
	Y      float64 // top edge, points from the top of the page
	Height float64
	Width  float64  // images and codes only
	Lines  []string // visible text, UTF-8
	Link   string   // link target, hyperlink lines only
}

// Cursor is the builder's writing position.
type Cursor struct {
	PageIndex    int
	Y            float64
	PageHeight   float64
	TopMargin    float64
	BottomMargin float64
}

// Limit is the lowest offset a block may reach on the current page.
func (c Cursor) Limit() float64 {
	return c.PageHeight - c.BottomMargin
}

// Remaining is the vertical space left on the current page.
func (c Cursor) Remaining() float64 {
	return c.Limit() - c.Y
}

// Style is the font state applied before each block.
type Style struct {
	Family string
	SizePt float64
	Bold   bool
}

func (s Style) fontStyle() string {
	if s.Bold {
		return "B"
	}
	return ""
}

// Builder lays out blocks on paginated pages and serialises them to PDF.
//
// A Builder serves exactly one render pass: BeginDocument, any number of
// Draw calls, then Finalize. Calls out of that order fail with
// ErrInvalidSequence. Once an operation fails the builder stays failed and
// every later call returns the same error. A Builder is not safe for
// concurrent use; run independent builders in parallel instead.
type Builder struct {
	cfg *config
	log *slog.Logger

	pdf      *fpdf.Fpdf
	importer *gofpdi.Importer
	state    builderState
	err      error

	cur         Cursor
	style       Style
	placements  []Placement
	pageBlocks  int // blocks drawn on the current page
	substituted int
	images      int
}

// NewBuilder returns a builder configured by opts. Defaults: A4 portrait,
// 10mm margins, Helvetica.
func NewBuilder(opts ...Option) *Builder {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Builder{cfg: cfg, log: cfg.log()}
}

// BeginDocument opens page one with the configured margins and the
// regular body style.
func (b *Builder) BeginDocument() error {
	const op = "BeginDocument"
	if b.state != stateNew {
		return b.fail(op, ErrInvalidSequence)
	}
	if err := b.cfg.validate(); err != nil {
		return b.fail(op, err)
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: b.cfg.pageWidth, Ht: b.cfg.pageHeight},
	})
	pdf.SetMargins(b.cfg.left, b.cfg.top, b.cfg.right)
	pdf.SetAutoPageBreak(false, b.cfg.bottom)
	pdf.SetCellMargin(cellMargin)
	pdf.SetCompression(b.cfg.compress)
	pdf.SetCreationDate(b.cfg.created)
	pdf.SetCatalogSort(true)
	if b.cfg.pageNumbers != "" {
		pdf.SetFooterFunc(b.drawFooter)
	}
	pdf.AddPage()
	b.pdf = pdf

	b.cur = Cursor{
		PageIndex:    0,
		Y:            b.cfg.top,
		PageHeight:   b.cfg.pageHeight,
		TopMargin:    b.cfg.top,
		BottomMargin: b.cfg.bottom,
	}
	b.setStyle(b.bodyStyle())
	b.state = stateOpen
	return b.check(op)
}

// DrawTitle draws text centred in the large bold title style and advances
// the cursor by the title block height. The title stays on the current
// page unless the page-break gate finds no room for it.
func (b *Builder) DrawTitle(text string) error {
	const op = "DrawTitle"
	if err := b.ready(op); err != nil {
		return err
	}
	enc, err := b.encode(op, text)
	if err != nil {
		return b.fail(op, err)
	}
	b.setStyle(Style{Family: b.cfg.family, SizePt: b.cfg.titleSize, Bold: true})
	lines := wrapText(enc, b.textWidth(), b.pdf.GetStringWidth)
	b.placeLines(BlockTitle, lines, b.cfg.titleLineH, "C", "", b.cfg.titleBlockH-b.cfg.titleLineH)
	b.setStyle(b.bodyStyle())
	return b.check(op)
}

// DrawSectionHeading draws text in the bold heading style, then restores
// the regular style.
func (b *Builder) DrawSectionHeading(text string) error {
	const op = "DrawSectionHeading"
	if err := b.ready(op); err != nil {
		return err
	}
	enc, err := b.encode(op, text)
	if err != nil {
		return b.fail(op, err)
	}
	b.setStyle(Style{Family: b.cfg.family, SizePt: b.cfg.headingSize, Bold: true})
	lines := wrapText(enc, b.textWidth(), b.pdf.GetStringWidth)
	b.placeLines(BlockHeading, lines, b.cfg.lineH, "L", "", 0)
	b.setStyle(b.bodyStyle())
	return b.check(op)
}

// DrawParagraph word-wraps text to the printable width and places it as a
// unit: a paragraph that does not fit the remaining space moves to a new
// page. Only a paragraph taller than a whole page is split, and then at
// page boundaries starting on a fresh page.
func (b *Builder) DrawParagraph(text string) error {
	const op = "DrawParagraph"
	return b.drawText(op, BlockParagraph, text, "")
}

// DrawKeyValueLine draws "label: value".
func (b *Builder) DrawKeyValueLine(label, value string) error {
	const op = "DrawKeyValueLine"
	return b.drawText(op, BlockKeyValue, label+": "+value, "")
}

// DrawHyperlinkLine draws url as text that links to url.
func (b *Builder) DrawHyperlinkLine(url string) error {
	const op = "DrawHyperlinkLine"
	return b.drawText(op, BlockLink, url, url)
}

// DrawRosterTable draws one "role: name" line per entry, in order. Each
// line passes the page-break gate on its own.
func (b *Builder) DrawRosterTable(entries []RosterEntry) error {
	const op = "DrawRosterTable"
	if err := b.ready(op); err != nil {
		return err
	}
	for _, e := range entries {
		if err := b.drawText(op, BlockKeyValue, e.Role+": "+e.Name, ""); err != nil {
			return err
		}
	}
	return nil
}

// DrawSpacer advances the cursor by h points, stopping at the page limit.
// The next block decides whether a new page is needed.
func (b *Builder) DrawSpacer(h float64) error {
	const op = "DrawSpacer"
	if err := b.ready(op); err != nil {
		return err
	}
	if h < 0 {
		return b.fail(op, fmt.Errorf("%w: negative spacer height %g", ErrInvalidParam, h))
	}
	y := b.cur.Y
	b.cur.Y = min(b.cur.Y+h, b.cur.Limit())
	b.record(Placement{Kind: BlockSpacer, Y: y, Height: b.cur.Y - y})
	return nil
}

// DrawImageBlock starts a new page (unless nothing has been drawn on the
// current one yet), draws the caption heading when one is configured and
// places img widthPt points wide with its native aspect
// ratio. A non-positive widthPt falls back to img.WidthPt and then to the
// printable width. Images wider or taller than the printable area are
// scaled down uniformly to fit.
func (b *Builder) DrawImageBlock(img *Image, widthPt float64) error {
	const op = "DrawImageBlock"
	if err := b.ready(op); err != nil {
		return err
	}
	var data []byte
	if img != nil {
		data = img.Data
	}
	raster, err := decodeRaster(data)
	if err != nil {
		if b.cfg.imagePolicy == ImageSkip {
			b.log.Warn("skipping undecodable image", "page", b.cur.PageIndex+1, "error", err)
			return nil
		}
		return b.fail(op, fmt.Errorf("%w: %v", ErrImageDecode, err))
	}

	pxW, pxH := raster.width, raster.height
	if img.Width > 0 && img.Height > 0 {
		pxW, pxH = img.Width, img.Height
	}
	w := widthPt
	if w <= 0 {
		w = img.WidthPt
	}
	if w <= 0 || w > b.printableWidth() {
		w = b.printableWidth()
	}
	h := scaledHeight(w, pxW, pxH)

	if b.pageBlocks > 0 {
		b.newPage()
	}
	if b.cfg.caption != "" {
		if err := b.DrawSectionHeading(b.cfg.caption); err != nil {
			return err
		}
	}
	if avail := b.cur.Remaining(); h > avail {
		w *= avail / h
		h = avail
	}

	b.images++
	name := fmt.Sprintf("image%d", b.images)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	b.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(raster.png))
	b.pdf.ImageOptions(name, b.cfg.left, b.cur.Y, w, h, false, opts, 0, "")
	b.record(Placement{Kind: BlockImage, Y: b.cur.Y, Width: w, Height: h})
	b.cur.Y += h
	b.log.Debug("placed image", "format", raster.format, "page", b.cur.PageIndex+1, "width", w, "height", h)
	return b.check(op)
}

// Finalize serialises all pages in order and returns the document. The
// builder releases its engine and rejects every later call.
func (b *Builder) Finalize() ([]byte, error) {
	const op = "Finalize"
	if err := b.ready(op); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := b.pdf.Output(&buf); err != nil {
		return nil, b.fail(op, err)
	}
	b.state = stateFinal
	b.pdf = nil
	b.importer = nil
	b.log.Debug("document finalized", "pages", b.cur.PageIndex+1, "bytes", buf.Len(), "substituted", b.substituted)
	return buf.Bytes(), nil
}

// Placements returns the placement trace in drawing order.
func (b *Builder) Placements() []Placement {
	return append([]Placement(nil), b.placements...)
}

// Cursor returns the current writing position.
func (b *Builder) Cursor() Cursor {
	return b.cur
}

// Style returns the font state of the last drawn block.
func (b *Builder) Style() Style {
	return b.style
}

// PageCount returns the number of pages started so far.
func (b *Builder) PageCount() int {
	if b.state == stateNew {
		return 0
	}
	return b.cur.PageIndex + 1
}

// Substitutions returns how many characters were replaced because the
// font encoding cannot represent them.
func (b *Builder) Substitutions() int {
	return b.substituted
}

func (b *Builder) drawText(op string, kind BlockKind, text, link string) error {
	if err := b.ready(op); err != nil {
		return err
	}
	enc, err := b.encode(op, text)
	if err != nil {
		return b.fail(op, err)
	}
	b.setStyle(b.bodyStyle())
	lines := wrapText(enc, b.textWidth(), b.pdf.GetStringWidth)
	b.placeLines(kind, lines, b.cfg.lineH, "L", link, 0)
	return b.check(op)
}

// placeLines is the page-break gate for text blocks. The block, including
// its trailing gap, is measured as a unit and moved to a new page when it
// does not fit. Blocks taller than a whole page start on a fresh page and
// continue line by line onto following pages.
func (b *Builder) placeLines(kind BlockKind, lines []string, lineH float64, align, link string, gap float64) {
	total := float64(len(lines))*lineH + gap
	if total <= b.printableHeight()+epsilon {
		b.reserve(total)
		b.drawLines(kind, lines, lineH, align, link)
	} else {
		if b.pageBlocks > 0 {
			b.newPage()
		}
		for len(lines) > 0 {
			n := int((b.cur.Remaining() + epsilon) / lineH)
			if n < 1 {
				b.newPage()
				continue
			}
			n = min(n, len(lines))
			b.drawLines(kind, lines[:n], lineH, align, link)
			lines = lines[n:]
		}
	}
	if gap > 0 {
		last := &b.placements[len(b.placements)-1]
		y := b.cur.Y
		b.cur.Y = min(b.cur.Y+gap, b.cur.Limit())
		last.Height += b.cur.Y - y
	}
}

func (b *Builder) drawLines(kind BlockKind, lines []string, lineH float64, align, link string) {
	p := Placement{Kind: kind, Y: b.cur.Y, Link: link}
	for _, line := range lines {
		b.pdf.SetXY(b.cfg.left, b.cur.Y)
		b.pdf.CellFormat(b.printableWidth(), lineH, line, "", 0, align, false, 0, link)
		b.cur.Y += lineH
		p.Lines = append(p.Lines, fromWinAnsi(line))
	}
	p.Height = b.cur.Y - p.Y
	b.record(p)
}

// reserve starts a new page when a block of height h would cross the
// bottom margin.
func (b *Builder) reserve(h float64) bool {
	if b.cur.Y+h <= b.cur.Limit()+epsilon {
		return false
	}
	b.newPage()
	return true
}

func (b *Builder) newPage() {
	b.pdf.AddPage()
	b.cur.PageIndex++
	b.cur.Y = b.cur.TopMargin
	b.pageBlocks = 0
	b.setStyle(b.style)
	b.log.Debug("page break", "page", b.cur.PageIndex+1)
}

func (b *Builder) record(p Placement) {
	p.Page = b.cur.PageIndex
	b.placements = append(b.placements, p)
	b.pageBlocks++
}

func (b *Builder) setStyle(s Style) {
	b.pdf.SetFont(s.Family, s.fontStyle(), s.SizePt)
	b.style = s
}

func (b *Builder) bodyStyle() Style {
	return Style{Family: b.cfg.family, SizePt: b.cfg.bodySize}
}

func (b *Builder) printableWidth() float64 {
	return b.cfg.pageWidth - b.cfg.left - b.cfg.right
}

// textWidth is the width available to glyphs inside a full-width cell.
func (b *Builder) textWidth() float64 {
	return b.printableWidth() - 2*cellMargin
}

func (b *Builder) printableHeight() float64 {
	return b.cfg.pageHeight - b.cfg.top - b.cfg.bottom
}

func (b *Builder) drawFooter() {
	b.pdf.SetFont(b.cfg.family, "", 8)
	b.pdf.SetXY(b.cfg.left, b.cfg.pageHeight-b.cfg.bottom*0.75)
	b.pdf.CellFormat(b.printableWidth(), b.cfg.bottom/2, fmt.Sprintf(b.cfg.pageNumbers, b.pdf.PageNo()), "", 0, "C", false, 0, "")
}

// encode converts text to the font encoding, substituting or failing on
// unsupported characters depending on configuration.
func (b *Builder) encode(op, text string) (string, error) {
	enc, bad := toWinAnsi(text)
	if bad == 0 {
		return enc, nil
	}
	if b.cfg.strictEncode {
		return "", fmt.Errorf("%w: %d character(s) in %q", ErrEncoding, bad, text)
	}
	b.substituted += bad
	b.log.Warn("substituted unsupported characters", "op", op, "count", bad, "page", b.cur.PageIndex+1)
	return enc, nil
}

// ready reports whether op may run now.
func (b *Builder) ready(op string) error {
	switch b.state {
	case stateOpen:
		return nil
	case stateFailed:
		return b.err
	default:
		return b.fail(op, ErrInvalidSequence)
	}
}

// check converts a pending engine error into a builder failure.
func (b *Builder) check(op string) error {
	if b.pdf != nil && b.pdf.Err() {
		return b.fail(op, b.pdf.Error())
	}
	return nil
}

func (b *Builder) fail(op string, err error) error {
	if b.state == stateFailed {
		return b.err
	}
	b.state = stateFailed
	b.err = newBuildError(op, err)
	b.pdf = nil
	b.importer = nil
	return b.err
}
