package presskit

import (
	"fmt"
)

// StepKind names a group of blocks in a Layout.
type StepKind string

const (
	StepTitle       StepKind = "title"       // Record.Title
	StepSection     StepKind = "section"     // heading + paragraph of one Record section
	StepFields      StepKind = "fields"      // optional heading + key-value lines
	StepRoster      StepKind = "roster"      // optional heading + roster lines
	StepLinks       StepKind = "links"       // optional heading + hyperlink lines
	StepImage       StepKind = "image"       // Record.Image on its own page
	StepCodes       StepKind = "codes"       // Record.Codes
	StepAttachments StepKind = "attachments" // Record.Attachments
)

// Step is one entry of a Layout.
type Step struct {
	Kind    StepKind `json:"type"`
	Heading string   `json:"heading,omitempty"` // drawn heading; sections default to the section's own heading
	Section string   `json:"section,omitempty"` // Record section selected by a section step
	Labels  []string `json:"labels,omitempty"`  // Record fields selected by a fields step; empty selects all
}

// Layout is the ordered list of groups a render pass draws. Variants of a
// form differ only in their Layout and the Record they produce.
type Layout struct {
	Steps []Step `json:"steps"`
}

// DefaultLayout draws every part of rec in Record order: title, sections,
// fields, roster, links, codes, image and attachments.
func DefaultLayout(rec Record) Layout {
	steps := []Step{{Kind: StepTitle}}
	for _, s := range rec.Sections {
		steps = append(steps, Step{Kind: StepSection, Section: s.Heading})
	}
	steps = append(steps,
		Step{Kind: StepFields, Heading: "Details:"},
		Step{Kind: StepRoster, Heading: "Roster:"},
		Step{Kind: StepLinks, Heading: "Links:"},
		Step{Kind: StepCodes},
		Step{Kind: StepImage},
		Step{Kind: StepAttachments},
	)
	return Layout{Steps: steps}
}

// RenderRecord runs a complete render pass over rec and returns the
// document bytes. Each call uses its own Builder, so calls may run in
// parallel.
func RenderRecord(rec Record, layout Layout, opts ...Option) ([]byte, error) {
	b := NewBuilder(opts...)
	if err := b.BeginDocument(); err != nil {
		return nil, err
	}
	for i, st := range layout.Steps {
		if err := b.DrawStep(rec, st); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, st.Kind, err)
		}
	}
	return b.Finalize()
}

// DrawStep draws one Layout step from rec. Text groups are followed by the
// configured section gap.
func (b *Builder) DrawStep(rec Record, st Step) error {
	if err := b.ready("DrawStep"); err != nil {
		return err
	}
	switch st.Kind {
	case StepTitle:
		return b.DrawTitle(rec.Title)
	case StepSection:
		s, _ := rec.Section(st.Section)
		heading := st.Heading
		if heading == "" {
			heading = st.Section
		}
		if err := b.DrawSectionHeading(heading); err != nil {
			return err
		}
		if err := b.DrawParagraph(s.Body); err != nil {
			return err
		}
	case StepFields:
		if err := b.drawStepHeading(st); err != nil {
			return err
		}
		fields := rec.Fields
		if len(st.Labels) > 0 {
			fields = make([]Field, len(st.Labels))
			for i, label := range st.Labels {
				f, _ := rec.Field(label)
				fields[i] = Field{Label: label, Value: f.Value}
			}
		}
		for _, f := range fields {
			if err := b.DrawKeyValueLine(f.Label, f.Value); err != nil {
				return err
			}
		}
	case StepRoster:
		if err := b.drawStepHeading(st); err != nil {
			return err
		}
		if err := b.DrawRosterTable(rec.Roster); err != nil {
			return err
		}
	case StepLinks:
		if err := b.drawStepHeading(st); err != nil {
			return err
		}
		if len(rec.Links) == 0 {
			if err := b.DrawParagraph(""); err != nil {
				return err
			}
		}
		for _, link := range rec.Links {
			if err := b.DrawHyperlinkLine(link); err != nil {
				return err
			}
		}
	case StepImage:
		if rec.Image == nil {
			return nil
		}
		return b.DrawImageBlock(rec.Image, rec.Image.WidthPt)
	case StepCodes:
		for _, c := range rec.Codes {
			if err := b.DrawCode(c); err != nil {
				return err
			}
		}
		return nil
	case StepAttachments:
		for _, doc := range rec.Attachments {
			if err := b.DrawAppendix(doc); err != nil {
				return err
			}
		}
		return nil
	default:
		return b.fail("DrawStep", fmt.Errorf("%w: unknown step %q", ErrInvalidParam, st.Kind))
	}
	return b.DrawSpacer(b.cfg.sectionGap)
}

func (b *Builder) drawStepHeading(st Step) error {
	if st.Heading == "" {
		return nil
	}
	return b.DrawSectionHeading(st.Heading)
}
