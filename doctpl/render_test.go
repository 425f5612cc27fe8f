package doctpl

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ledongthuc/pdf"

	"github.com/lvillar/presskit"
)

func TestBuiltinVariants(t *testing.T) {
	want := []string{"artist", "character", "film", "outline", "script", "sports"}
	if diff := cmp.Diff(want, Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}

func TestFilmHeadings(t *testing.T) {
	v, err := Lookup("film")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"Film Summary:",
		"Director's Statement:",
		"Film Details:",
		"Cast and Crew:",
		"Awards and Nominations:",
		"Contact Information:",
		"Relevant Links:",
	}
	if diff := cmp.Diff(want, v.Headings()); diff != "" {
		t.Errorf("headings mismatch (-want +got):\n%s", diff)
	}
	if v.FileName != "Film_EPK.pdf" {
		t.Errorf("FileName = %q", v.FileName)
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, err := Lookup("podcast"); !errors.Is(err, ErrUnknownVariant) {
		t.Fatalf("got %v, want ErrUnknownVariant", err)
	}
}

// drawnHeadings runs a render pass step by step and returns the heading
// placements, excluding the image caption.
func drawnHeadings(t *testing.T, rec presskit.Record, layout presskit.Layout) ([]string, *presskit.Builder) {
	t.Helper()
	b := presskit.NewBuilder(presskit.WithCaption(""))
	if err := b.BeginDocument(); err != nil {
		t.Fatal(err)
	}
	for _, st := range layout.Steps {
		if err := b.DrawStep(rec, st); err != nil {
			t.Fatalf("step %s: %v", st.Kind, err)
		}
	}
	var got []string
	for _, p := range b.Placements() {
		if p.Kind == presskit.BlockHeading {
			got = append(got, p.Lines...)
		}
	}
	return got, b
}

func TestEmptySubmissionDrawsEveryHeading(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			v, err := Lookup(name)
			if err != nil {
				t.Fatal(err)
			}
			rec, layout, err := v.Compile(Submission{Variant: name})
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}
			got, _ := drawnHeadings(t, rec, layout)
			if diff := cmp.Diff(v.Headings(), got); diff != "" {
				t.Errorf("headings mismatch (-want +got):\n%s", diff)
			}

			var buf bytes.Buffer
			if err := RenderSubmission(&buf, Submission{Variant: name}); err != nil {
				t.Fatalf("RenderSubmission: %v", err)
			}
			if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
				t.Fatal("output does not start with %PDF header")
			}
		})
	}
}

func TestCompileFilm(t *testing.T) {
	v, err := Lookup("film")
	if err != nil {
		t.Fatal(err)
	}
	sub := Submission{
		Variant: "film",
		Values: map[string]string{
			"title":         "Midnight Harbor",
			"summary":       "A lighthouse keeper finds a map.",
			"budget":        "$1M",
			"runtime":       "94 minutes",
			"contact_email": "press@example.com",
			"links":         "https://example.com, https://example.org,,",
		},
		Roster: []presskit.RosterEntry{
			{Role: "Editor", Name: "Kim Lee"},
			{Role: "Director", Name: "Ana Ruiz"},
			{Role: "Composer", Name: "Sam Oduya"},
		},
		Links: []string{"https://example.net"},
	}
	rec, layout, err := v.Compile(sub)
	if err != nil {
		t.Fatal(err)
	}

	if rec.Title != "Midnight Harbor" {
		t.Errorf("Title = %q", rec.Title)
	}
	wantRoster := []presskit.RosterEntry{
		{Role: "Director", Name: "Ana Ruiz"},
		{Role: "Lead Actor"},
		{Role: "Producer"},
		{Role: "Cinematographer"},
		{Role: "Costume Designer"},
		{Role: "Editor", Name: "Kim Lee"},
		{Role: "Composer", Name: "Sam Oduya"},
	}
	if diff := cmp.Diff(wantRoster, rec.Roster); diff != "" {
		t.Errorf("roster mismatch (-want +got):\n%s", diff)
	}
	wantLinks := []string{"https://example.com", "https://example.org", "", "", "https://example.net"}
	if diff := cmp.Diff(wantLinks, rec.Links); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}
	wantFields := []presskit.Field{
		{Label: "Budget", Value: "$1M"},
		{Label: "Location"},
		{Label: "Runtime", Value: "94 minutes"},
		{Label: "Production Year"},
		{Label: "Name"},
		{Label: "Email", Value: "press@example.com"},
		{Label: "Phone"},
	}
	if diff := cmp.Diff(wantFields, rec.Fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}

	var kinds []presskit.StepKind
	for _, st := range layout.Steps {
		kinds = append(kinds, st.Kind)
	}
	wantKinds := []presskit.StepKind{
		presskit.StepTitle,
		presskit.StepSection,
		presskit.StepSection,
		presskit.StepFields,
		presskit.StepRoster,
		presskit.StepSection,
		presskit.StepFields,
		presskit.StepLinks,
		presskit.StepImage,
	}
	if diff := cmp.Diff(wantKinds, kinds); diff != "" {
		t.Errorf("layout mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileRejectsUnknownInput(t *testing.T) {
	v, err := Lookup("script")
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = v.Compile(Submission{Values: map[string]string{"act4": "Epilogue"}})
	if !errors.Is(err, ErrUnknownInput) {
		t.Fatalf("got %v, want ErrUnknownInput", err)
	}
}

func TestCompileRejectsOtherVariant(t *testing.T) {
	v, err := Lookup("script")
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := v.Compile(Submission{Variant: "film"}); err == nil {
		t.Fatal("expected an error for a submission of another variant")
	}
}

func TestCompileMarkdown(t *testing.T) {
	v, err := Lookup("character")
	if err != nil {
		t.Fatal(err)
	}
	sub := Submission{
		Values: map[string]string{
			"name":      "*Mara*",
			"backstory": "Raised by **lighthouse** keepers.\n\n- fears the dark",
		},
		Markdown: true,
	}
	rec, _, err := v.Compile(sub)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Title != "*Mara*" {
		t.Errorf("text input was flattened: %q", rec.Title)
	}
	s, _ := rec.Section("Backstory:")
	if want := "Raised by lighthouse keepers.\n\n- fears the dark"; s.Body != want {
		t.Errorf("Backstory = %q, want %q", s.Body, want)
	}
}

func TestCompileCodesAndImage(t *testing.T) {
	v, err := Lookup("artist")
	if err != nil {
		t.Fatal(err)
	}
	rec, _, err := v.Compile(Submission{Values: map[string]string{"booking_card": "Jo Park, jo@example.com"}})
	if err != nil {
		t.Fatal(err)
	}
	want := []presskit.Code{{Payload: "Jo Park, jo@example.com", Symbology: presskit.PDF417, Caption: "Booking contact"}}
	if diff := cmp.Diff(want, rec.Codes); diff != "" {
		t.Errorf("codes mismatch (-want +got):\n%s", diff)
	}
	if rec.Image != nil {
		t.Error("image set without submitted data")
	}

	var shot bytes.Buffer
	if err := png.Encode(&shot, image.NewGray(image.Rect(0, 0, 40, 30))); err != nil {
		t.Fatal(err)
	}
	rec, layout, err := v.Compile(Submission{Image: shot.Bytes(), ImageWidth: 200})
	if err != nil {
		t.Fatal(err)
	}
	if rec.Image == nil || rec.Image.WidthPt != 200 {
		t.Fatalf("image = %+v", rec.Image)
	}
	_, b := drawnHeadings(t, rec, layout)
	var found bool
	for _, p := range b.Placements() {
		if p.Kind == presskit.BlockImage {
			found = true
			if p.Width != 200 || p.Height != 150 {
				t.Errorf("image placed at %gx%g, want 200x150", p.Width, p.Height)
			}
		}
	}
	if !found {
		t.Error("no image placement")
	}
}

func TestSplitLinks(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"https://example.com", []string{"https://example.com"}},
		{" a , b ", []string{"a", "b"}},
		{"a,,b", []string{"a", "", "b"}},
		{",", []string{"", ""}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, SplitLinks(tt.in)); diff != "" {
			t.Errorf("SplitLinks(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestParseRejectsInvalidVariants(t *testing.T) {
	tests := map[string]string{
		"missing name":      `{"titleInput": "t", "inputs": [{"key": "t"}]}`,
		"unknown field":     `{"name": "x", "colour": "red"}`,
		"undeclared title":  `{"name": "x", "titleInput": "t"}`,
		"duplicate input":   `{"name": "x", "titleInput": "t", "inputs": [{"key": "t"}, {"key": "t"}]}`,
		"unknown kind":      `{"name": "x", "titleInput": "t", "inputs": [{"key": "t", "kind": "video"}]}`,
		"unknown block":     `{"name": "x", "titleInput": "t", "inputs": [{"key": "t"}], "blocks": [{"type": "table"}]}`,
		"section heading":   `{"name": "x", "titleInput": "t", "inputs": [{"key": "t"}], "blocks": [{"type": "section", "input": "t"}]}`,
		"duplicate section": `{"name": "x", "titleInput": "t", "inputs": [{"key": "t"}], "blocks": [{"type": "section", "heading": "A", "input": "t"}, {"type": "section", "heading": "A", "input": "t"}]}`,
		"duplicate label":   `{"name": "x", "titleInput": "t", "inputs": [{"key": "t"}], "blocks": [{"type": "fields", "fields": [{"label": "A", "input": "t"}, {"label": "A", "input": "t"}]}]}`,
		"two titles":        `{"name": "x", "titleInput": "t", "inputs": [{"key": "t"}], "blocks": [{"type": "title"}, {"type": "title"}]}`,
		"wrong kind":        `{"name": "x", "titleInput": "t", "inputs": [{"key": "t"}], "blocks": [{"type": "links", "input": "t"}]}`,
		"bad symbology":     `{"name": "x", "titleInput": "t", "inputs": [{"key": "t"}], "blocks": [{"type": "codes", "codes": [{"input": "t", "symbology": "aztec"}]}]}`,
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(src)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestRenderFromJSON(t *testing.T) {
	submission := `{
		"variant": "sports",
		"values": {
			"team": "Harbor Lights FC",
			"overview": "Founded in 1921 on the east pier.",
			"league": "Coastal Division",
			"tickets_link": "https://example.com/tickets"
		},
		"roster": [
			{"role": "Head Coach", "name": "Alice"},
			{"role": "Captain", "name": "Bob"}
		]
	}`
	var buf bytes.Buffer
	if err := Render(&buf, []byte(submission), presskit.WithCompression(false)); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	out := buf.Bytes()
	r, err := pdf.NewReader(bytes.NewReader(out), int64(len(out)))
	if err != nil {
		t.Fatalf("reading back PDF: %v", err)
	}
	text, err := r.Page(1).GetPlainText(nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Harbor Lights FC", "Team Overview:", "Head Coach: Alice", "Captain: Bob"} {
		if !strings.Contains(text, want) {
			t.Errorf("page 1 text lacks %q", want)
		}
	}
}

func TestRenderRejectsBadJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, []byte(`{"variant": `)); err == nil {
		t.Fatal("expected a parse error")
	}
	if buf.Len() != 0 {
		t.Error("output written despite failure")
	}
}
