// Package doctpl describes form variants as JSON and compiles a filled-in
// form into the Record and Layout consumed by a presskit render pass.
//
// A variant lists the inputs a form asks for and the order in which the
// answers are laid out. The built-in variants (film, sports, artist,
// character, outline and script) are embedded in the package.
//
// Example variant:
//
//	{
//	  "name": "script",
//	  "title": "Movie Script",
//	  "fileName": "Script.pdf",
//	  "titleInput": "title",
//	  "inputs": [
//	    {"key": "title", "label": "Script Title"},
//	    {"key": "act1", "label": "Act 1: Setup", "kind": "textarea"}
//	  ],
//	  "blocks": [
//	    {"type": "title"},
//	    {"type": "section", "heading": "Act 1: Setup", "input": "act1"}
//	  ]
//	}
package doctpl

import "github.com/lvillar/presskit"

// InputKind is the kind of answer an input collects.
type InputKind string

const (
	InputText     InputKind = "text"     // single line
	InputTextarea InputKind = "textarea" // free text, optionally Markdown
	InputLinks    InputKind = "links"    // comma-separated URLs
	InputRoster   InputKind = "roster"   // role/name pairs, see Submission.Roster
	InputImage    InputKind = "image"    // raster image, see Submission.Image
)

// Variant is a form definition.
type Variant struct {
	Name        string  `json:"name"`
	Title       string  `json:"title"`                 // display name of the form
	Description string  `json:"description,omitempty"`
	FileName    string  `json:"fileName"`              // suggested output file name
	TitleInput  string  `json:"titleInput"`            // input whose answer becomes the document title
	Inputs      []Input `json:"inputs"`
	Blocks      []Block `json:"blocks"`
}

// Input is one question of a form.
type Input struct {
	Key   string    `json:"key"`
	Label string    `json:"label"`
	Kind  InputKind `json:"kind,omitempty"` // default: text
}

// Block is one group of the rendered document.
// The Type field determines which other fields are relevant.
type Block struct {
	Type string `json:"type"` // title, section, fields, roster, links, codes, image

	Heading string `json:"heading,omitempty"`
	Input   string `json:"input,omitempty"` // section, roster, links, image

	// Fields
	Fields []FieldRef `json:"fields,omitempty"`

	// Roster: roles listed here are always drawn, in this order, before any
	// other submitted roles.
	Roles []string `json:"roles,omitempty"`

	// Codes
	Codes []CodeRef `json:"codes,omitempty"`
}

// FieldRef binds a drawn label to the input holding its value.
type FieldRef struct {
	Label string `json:"label"`
	Input string `json:"input"`
}

// CodeRef binds a scannable code to the input holding its payload. Codes
// whose answer is empty are left out.
type CodeRef struct {
	Input     string             `json:"input"`
	Caption   string             `json:"caption,omitempty"`
	Symbology presskit.Symbology `json:"symbology,omitempty"` // qr (default) or pdf417
}

// Submission is a filled-in form as handed over by a UI.
type Submission struct {
	Variant string            `json:"variant"`
	Values  map[string]string `json:"values,omitempty"` // answers by input key

	// Roster lists role/name pairs in form order.
	Roster []presskit.RosterEntry `json:"roster,omitempty"`

	// Links are appended after the links parsed from the links input.
	Links []string `json:"links,omitempty"`

	// Image is the encoded press shot (PNG, JPEG, GIF, BMP, TIFF or WebP);
	// base64 in JSON. ImageWidth is its placement width in points.
	Image      []byte  `json:"image,omitempty"`
	ImageWidth float64 `json:"imageWidth,omitempty"`

	// Attachments are PDF documents appended after the form.
	Attachments [][]byte `json:"attachments,omitempty"`

	// Markdown flattens textarea answers from Markdown to plain text.
	Markdown bool `json:"markdown,omitempty"`
}
