package doctpl

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/lvillar/presskit"
)

// Render parses a JSON submission and writes the rendered PDF to w.
func Render(w io.Writer, submission []byte, opts ...presskit.Option) error {
	var sub Submission
	if err := json.Unmarshal(submission, &sub); err != nil {
		return fmt.Errorf("doctpl: parsing submission: %w", err)
	}
	return RenderSubmission(w, sub, opts...)
}

// RenderSubmission renders sub with the built-in variant it names.
func RenderSubmission(w io.Writer, sub Submission, opts ...presskit.Option) error {
	v, err := Lookup(sub.Variant)
	if err != nil {
		return err
	}
	return RenderVariant(w, v, sub, opts...)
}

// RenderVariant compiles sub against v and writes the rendered PDF to w.
// Nothing is written when the render pass fails.
func RenderVariant(w io.Writer, v *Variant, sub Submission, opts ...presskit.Option) error {
	rec, layout, err := v.Compile(sub)
	if err != nil {
		return err
	}
	out, err := presskit.RenderRecord(rec, layout, opts...)
	if err != nil {
		return fmt.Errorf("doctpl: rendering %s: %w", v.Name, err)
	}
	_, err = w.Write(out)
	return err
}
