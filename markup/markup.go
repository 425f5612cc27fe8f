// Package markup flattens Markdown answers into the plain text accepted by
// the paragraph renderer.
//
// Block structure survives as line breaks: blocks are separated by a blank
// line, list items start with "- " or their number, and nested lists are
// indented by two spaces. Inline styling is dropped and links keep their
// destination in parentheses.
package markup

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var md = goldmark.New()

// Plain returns the text content of the Markdown document src.
func Plain(src string) string {
	source := []byte(src)
	doc := md.Parser().Parse(text.NewReader(source))
	return children(doc, source, "\n\n")
}

func block(n ast.Node, source []byte) string {
	switch n := n.(type) {
	case *ast.Heading, *ast.Paragraph, *ast.TextBlock:
		return strings.TrimSpace(inline(n, source))
	case *ast.List:
		return list(n, source)
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		return codeLines(n, source)
	case *ast.ThematicBreak, *ast.HTMLBlock:
		return ""
	default:
		return children(n, source, "\n\n")
	}
}

func children(n ast.Node, source []byte, sep string) string {
	var parts []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if s := block(c, source); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, sep)
}

func list(l *ast.List, source []byte) string {
	var items []string
	num := l.Start
	for c := l.FirstChild(); c != nil; c = c.NextSibling() {
		marker := "- "
		if l.IsOrdered() {
			marker = strconv.Itoa(num) + ". "
			num++
		}
		body := children(c, source, "\n")
		items = append(items, marker+strings.ReplaceAll(body, "\n", "\n  "))
	}
	return strings.Join(items, "\n")
}

func codeLines(n ast.Node, source []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(source))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func inline(n ast.Node, source []byte) string {
	var sb strings.Builder
	writeInline(&sb, n, source)
	return sb.String()
}

func writeInline(sb *strings.Builder, n ast.Node, source []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			sb.Write(c.Segment.Value(source))
			switch {
			case c.HardLineBreak():
				sb.WriteByte('\n')
			case c.SoftLineBreak():
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(c.Value)
		case *ast.AutoLink:
			sb.Write(c.URL(source))
		case *ast.Link:
			label := inline(c, source)
			sb.WriteString(label)
			if dest := string(c.Destination); dest != "" && dest != label {
				sb.WriteString(" (" + dest + ")")
			}
		case *ast.RawHTML:
		default:
			writeInline(sb, c, source)
		}
	}
}
