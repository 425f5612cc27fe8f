package doctpl

import (
	"fmt"
	"slices"
	"strings"

	"github.com/lvillar/presskit"
	"github.com/lvillar/presskit/markup"
)

// SplitLinks splits a comma-separated list of links and trims each entry.
// Empty entries are kept so every separator still produces a line; an
// empty string yields no links.
func SplitLinks(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// Compile maps sub onto the variant's blocks. Every block yields a Layout
// step even when its answers are empty, so headings are always drawn.
func (v *Variant) Compile(sub Submission) (presskit.Record, presskit.Layout, error) {
	var rec presskit.Record
	var layout presskit.Layout
	if sub.Variant != "" && sub.Variant != v.Name {
		return rec, layout, fmt.Errorf("doctpl: submission is for variant %q, not %q", sub.Variant, v.Name)
	}
	keys := make([]string, 0, len(sub.Values))
	for key := range sub.Values {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		if _, ok := v.Input(key); !ok {
			return rec, layout, fmt.Errorf("%w %q for variant %q", ErrUnknownInput, key, v.Name)
		}
	}

	rec.Title = v.answer(sub, v.TitleInput)
	add := func(st presskit.Step) { layout.Steps = append(layout.Steps, st) }
	for _, b := range v.Blocks {
		switch b.Type {
		case BlockTitle:
			add(presskit.Step{Kind: presskit.StepTitle})
		case BlockSection:
			rec.Sections = append(rec.Sections, presskit.Section{Heading: b.Heading, Body: v.answer(sub, b.Input)})
			add(presskit.Step{Kind: presskit.StepSection, Section: b.Heading})
		case BlockFields:
			labels := make([]string, len(b.Fields))
			for i, f := range b.Fields {
				labels[i] = f.Label
				rec.Fields = append(rec.Fields, presskit.Field{Label: f.Label, Value: v.answer(sub, f.Input)})
			}
			add(presskit.Step{Kind: presskit.StepFields, Heading: b.Heading, Labels: labels})
		case BlockRoster:
			rec.Roster = mergeRoster(b.Roles, sub.Roster)
			add(presskit.Step{Kind: presskit.StepRoster, Heading: b.Heading})
		case BlockLinks:
			rec.Links = append(SplitLinks(sub.Values[b.Input]), sub.Links...)
			add(presskit.Step{Kind: presskit.StepLinks, Heading: b.Heading})
		case BlockCodes:
			for _, c := range b.Codes {
				payload := strings.TrimSpace(sub.Values[c.Input])
				if payload == "" {
					continue
				}
				rec.Codes = append(rec.Codes, presskit.Code{Payload: payload, Symbology: c.Symbology, Caption: c.Caption})
			}
			add(presskit.Step{Kind: presskit.StepCodes})
		case BlockImage:
			if len(sub.Image) > 0 {
				rec.Image = &presskit.Image{Data: sub.Image, WidthPt: sub.ImageWidth}
			}
			add(presskit.Step{Kind: presskit.StepImage})
		}
	}
	if len(sub.Attachments) > 0 {
		rec.Attachments = sub.Attachments
		add(presskit.Step{Kind: presskit.StepAttachments})
	}
	return rec, layout, nil
}

func (v *Variant) answer(sub Submission, key string) string {
	s := sub.Values[key]
	if sub.Markdown {
		if in, _ := v.Input(key); in.Kind == InputTextarea {
			return markup.Plain(s)
		}
	}
	return s
}

// mergeRoster lists the fixed roles first, in order, each with the first
// submitted name for that role, followed by the remaining submitted
// entries in submission order.
func mergeRoster(roles []string, submitted []presskit.RosterEntry) []presskit.RosterEntry {
	used := make([]bool, len(submitted))
	out := make([]presskit.RosterEntry, 0, len(roles)+len(submitted))
	for _, role := range roles {
		e := presskit.RosterEntry{Role: role}
		for i, s := range submitted {
			if !used[i] && s.Role == role {
				e.Name = s.Name
				used[i] = true
				break
			}
		}
		out = append(out, e)
	}
	for i, s := range submitted {
		if !used[i] {
			out = append(out, s)
		}
	}
	return out
}
