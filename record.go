// Package presskit renders press kits, character sketches and story
// outlines into paginated PDF documents.
//
// A render pass takes an immutable Record and drives a Builder through a
// fixed sequence of block operations:
//
//	b := presskit.NewBuilder()
//	b.BeginDocument()
//	b.DrawTitle(rec.Title)
//	b.DrawSectionHeading("Summary:")
//	b.DrawParagraph(rec.Sections[0].Body)
//	out, err := b.Finalize()
//
// Every block is measured first and routed through a single page-break
// gate, so no block is drawn past the bottom margin. RenderRecord runs a
// whole pass from a Layout.
package presskit

// Section is a titled block of free text.
type Section struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// Field is a labelled single value such as a budget or contact email.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// RosterEntry maps a role to the person filling it.
type RosterEntry struct {
	Role string `json:"role"`
	Name string `json:"name"`
}

// Image is a caller-owned raster buffer. Width and Height are the pixel
// dimensions reported by the image provider; when zero they are taken from
// the decoded buffer.
type Image struct {
	Data    []byte  `json:"-"`
	Width   int     `json:"width,omitempty"`
	Height  int     `json:"height,omitempty"`
	WidthPt float64 `json:"widthPt,omitempty"` // declared placement width
}

// Symbology selects the kind of scannable code drawn by DrawCode.
type Symbology string

const (
	QR     Symbology = "qr"
	PDF417 Symbology = "pdf417"
)

// Code is a scannable symbol, typically a link or a contact card.
type Code struct {
	Payload   string    `json:"payload"`
	Symbology Symbology `json:"symbology,omitempty"` // default QR
	Caption   string    `json:"caption,omitempty"`
}

// Record is the validated input to one render pass. It is never mutated
// by the builder.
type Record struct {
	Title       string        `json:"title"`
	Sections    []Section     `json:"sections,omitempty"`
	Fields      []Field       `json:"fields,omitempty"`
	Roster      []RosterEntry `json:"roster,omitempty"`
	Links       []string      `json:"links,omitempty"`
	Image       *Image        `json:"image,omitempty"`
	Codes       []Code        `json:"codes,omitempty"`
	Attachments [][]byte      `json:"-"`
}

// Section returns the first section with the given heading.
func (r *Record) Section(heading string) (Section, bool) {
	for _, s := range r.Sections {
		if s.Heading == heading {
			return s, true
		}
	}
	return Section{}, false
}

// Field returns the first field with the given label.
func (r *Record) Field(label string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Label == label {
			return f, true
		}
	}
	return Field{}, false
}
