package presskit

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/go-pdf/fpdf/contrib/gofpdi"
	"github.com/ledongthuc/pdf"
)

// DrawAppendix appends every page of an existing PDF document, each on a
// page of its own native size. The cursor is left at the limit of the
// last appended page so the next block starts a new page.
func (b *Builder) DrawAppendix(doc []byte) error {
	const op = "DrawAppendix"
	if err := b.ready(op); err != nil {
		return err
	}
	n, err := countPages(doc)
	if err != nil {
		return b.fail(op, fmt.Errorf("%w: %v", ErrAttachment, err))
	}
	if b.importer == nil {
		b.importer = gofpdi.NewImporter()
	}
	if err := b.importPages(doc, n); err != nil {
		return b.fail(op, fmt.Errorf("%w: %v", ErrAttachment, err))
	}
	b.log.Debug("appended attachment", "pages", n, "last_page", b.cur.PageIndex+1)
	return b.check(op)
}

func (b *Builder) importPages(doc []byte, n int) (err error) {
	// gofpdi reports malformed input by panicking.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("importing page: %v", r)
		}
	}()

	var rs io.ReadSeeker = bytes.NewReader(doc)
	for i := 1; i <= n; i++ {
		tpl := b.importer.ImportPageFromStream(b.pdf, &rs, i, "/MediaBox")
		w, h := b.cfg.pageWidth, b.cfg.pageHeight
		if box, ok := b.importer.GetPageSizes()[i]["/MediaBox"]; ok && box["w"] > 0 && box["h"] > 0 {
			w, h = box["w"], box["h"]
		}
		if b.pageBlocks > 0 || w != b.cfg.pageWidth || h != b.cfg.pageHeight {
			b.pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})
			b.cur.PageIndex++
			b.pageBlocks = 0
		}
		b.importer.UseImportedTemplate(b.pdf, tpl, 0, 0, w, h)
		b.record(Placement{Kind: BlockAppendix, Y: 0, Width: w, Height: h})
		b.cur.Y = b.cur.Limit()
		if b.pdf.Err() {
			return b.pdf.Error()
		}
	}
	return nil
}

// countPages reads the page tree of doc.
func countPages(doc []byte) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading page tree: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(doc), int64(len(doc)))
	if err != nil {
		return 0, err
	}
	n = r.NumPage()
	if n == 0 {
		return 0, fmt.Errorf("document has no pages")
	}
	return n, nil
}
