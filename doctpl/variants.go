package doctpl

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"slices"
	"sync"

	"github.com/lvillar/presskit"
)

// Errors returned by variant lookup, parsing and compilation.
var (
	ErrUnknownVariant = errors.New("doctpl: unknown variant")
	ErrInvalidVariant = errors.New("doctpl: invalid variant")
	ErrUnknownInput   = errors.New("doctpl: unknown input")
)

// Block types.
const (
	BlockTitle   = "title"
	BlockSection = "section"
	BlockFields  = "fields"
	BlockRoster  = "roster"
	BlockLinks   = "links"
	BlockCodes   = "codes"
	BlockImage   = "image"
)

//go:embed variants/*.json
var builtinFS embed.FS

var builtin = sync.OnceValues(func() (map[string]*Variant, error) {
	entries, err := builtinFS.ReadDir("variants")
	if err != nil {
		return nil, err
	}
	m := make(map[string]*Variant, len(entries))
	for _, e := range entries {
		data, err := builtinFS.ReadFile(path.Join("variants", e.Name()))
		if err != nil {
			return nil, err
		}
		v, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		if _, dup := m[v.Name]; dup {
			return nil, fmt.Errorf("%s: %w: duplicate name %q", e.Name(), ErrInvalidVariant, v.Name)
		}
		m[v.Name] = v
	}
	return m, nil
})

// Names returns the names of the built-in variants in sorted order.
func Names() []string {
	m, err := builtin()
	if err != nil {
		panic(err)
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Lookup returns the built-in variant with the given name. The returned
// variant is shared and must not be modified.
func Lookup(name string) (*Variant, error) {
	m, err := builtin()
	if err != nil {
		return nil, err
	}
	v, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownVariant, name)
	}
	return v, nil
}

// Parse decodes and validates a variant definition.
func Parse(data []byte) (*Variant, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var v Variant
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("doctpl: parsing variant: %w", err)
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return &v, nil
}

// Input returns the input with the given key.
func (v *Variant) Input(key string) (Input, bool) {
	for _, in := range v.Inputs {
		if in.Key == key {
			return in, true
		}
	}
	return Input{}, false
}

// Headings returns every heading the variant draws, in drawing order.
// The image caption is not included.
func (v *Variant) Headings() []string {
	var out []string
	for _, b := range v.Blocks {
		if b.Heading != "" {
			out = append(out, b.Heading)
		}
	}
	return out
}

// Validate checks that every block refers to declared inputs of the right
// kind and that the compiled Record is unambiguous: section headings and
// field labels are unique, and each of title, roster, links, codes and
// image appears at most once.
func (v *Variant) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w %q: %s", ErrInvalidVariant, v.Name, fmt.Sprintf(format, args...))
	}
	if v.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidVariant)
	}

	kinds := make(map[string]InputKind, len(v.Inputs))
	for _, in := range v.Inputs {
		if in.Key == "" {
			return invalid("input with empty key")
		}
		if _, dup := kinds[in.Key]; dup {
			return invalid("duplicate input %q", in.Key)
		}
		switch in.Kind {
		case "", InputText, InputTextarea, InputLinks, InputRoster, InputImage:
		default:
			return invalid("input %q has unknown kind %q", in.Key, in.Kind)
		}
		kinds[in.Key] = in.kind()
	}
	need := func(key string, allowed ...InputKind) error {
		kind, ok := kinds[key]
		if !ok {
			return invalid("block refers to undeclared input %q", key)
		}
		if !slices.Contains(allowed, kind) {
			return invalid("input %q is %s, want %v", key, kind, allowed)
		}
		return nil
	}

	if err := need(v.TitleInput, InputText, InputTextarea); err != nil {
		return err
	}

	seen := make(map[string]bool)
	headings := make(map[string]bool)
	labels := make(map[string]bool)
	for i, b := range v.Blocks {
		switch b.Type {
		case BlockTitle, BlockRoster, BlockLinks, BlockCodes, BlockImage:
			if seen[b.Type] {
				return invalid("block %d: more than one %s block", i+1, b.Type)
			}
			seen[b.Type] = true
		}

		var err error
		switch b.Type {
		case BlockTitle, BlockCodes:
		case BlockSection:
			if b.Heading == "" {
				return invalid("block %d: section without heading", i+1)
			}
			if headings[b.Heading] {
				return invalid("block %d: duplicate section %q", i+1, b.Heading)
			}
			headings[b.Heading] = true
			err = need(b.Input, InputText, InputTextarea)
		case BlockFields:
			for _, f := range b.Fields {
				if labels[f.Label] {
					return invalid("block %d: duplicate field label %q", i+1, f.Label)
				}
				labels[f.Label] = true
				if err = need(f.Input, InputText, InputTextarea); err != nil {
					break
				}
			}
		case BlockRoster:
			if b.Input != "" {
				err = need(b.Input, InputRoster)
			}
		case BlockLinks:
			err = need(b.Input, InputLinks)
		case BlockImage:
			if b.Input != "" {
				err = need(b.Input, InputImage)
			}
		default:
			return invalid("block %d: unknown type %q", i+1, b.Type)
		}
		if err != nil {
			return err
		}
		for _, c := range b.Codes {
			if err := need(c.Input, InputText); err != nil {
				return err
			}
			switch c.Symbology {
			case "", presskit.QR, presskit.PDF417:
			default:
				return invalid("block %d: unknown symbology %q", i+1, c.Symbology)
			}
		}
	}
	return nil
}

func (in Input) kind() InputKind {
	if in.Kind == "" {
		return InputText
	}
	return in.Kind
}
