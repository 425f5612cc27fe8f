package mcp

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/lvillar/presskit"
	"github.com/lvillar/presskit/doctpl"
)

// RegisterDefaultTools adds all built-in press kit tools to the server.
func RegisterDefaultTools(s *Server) {
	s.AddTool(renderPresskitTool())
	s.AddTool(listVariantsTool())
	s.AddTool(describeVariantTool())
	s.AddTool(readPresskitTool())
}

func renderPresskitTool() Tool {
	return Tool{
		Name:        "render_presskit",
		Description: "Render a filled-in form (film, sports or artist press kit, character profile, story outline or script) to PDF. Use describe_variant to learn the input keys. Returns the PDF as base64.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"submission": map[string]interface{}{
					"type":        "object",
					"description": "Submission with variant, values (answers by input key), roster ([{role, name}]), links, image (base64) and markdown",
				},
				"pageNumbers": map[string]interface{}{
					"type":        "boolean",
					"description": "Print 'Page N' in the footer of every page",
				},
				"outputPath": map[string]interface{}{
					"type":        "string",
					"description": "Optional file path to save the PDF. If omitted, returns base64.",
				},
			},
			"required": []string{"submission"},
		},
		Handler: handleRenderPresskit,
	}
}

func handleRenderPresskit(args map[string]interface{}) (ToolResult, error) {
	subData, ok := args["submission"]
	if !ok {
		return ToolResult{}, fmt.Errorf("missing 'submission' argument")
	}

	jsonBytes, err := json.Marshal(subData)
	if err != nil {
		return ToolResult{}, fmt.Errorf("encoding submission: %w", err)
	}

	var opts []presskit.Option
	if on, _ := args["pageNumbers"].(bool); on {
		opts = append(opts, presskit.WithPageNumbers("Page %d"))
	}

	var buf bytes.Buffer
	if err := doctpl.Render(&buf, jsonBytes, opts...); err != nil {
		return ToolResult{}, fmt.Errorf("rendering PDF: %w", err)
	}

	if outputPath, ok := args["outputPath"].(string); ok && outputPath != "" {
		if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
			return ToolResult{}, fmt.Errorf("writing file: %w", err)
		}
		return textResult(fmt.Sprintf("PDF created successfully: %s (%d bytes)", outputPath, buf.Len())), nil
	}

	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
	return textResult(fmt.Sprintf("PDF created successfully (%d bytes). Base64 data:\n%s", buf.Len(), encoded)), nil
}

func listVariantsTool() Tool {
	return Tool{
		Name:        "list_variants",
		Description: "List the available form variants with their titles and default file names.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
		Handler: handleListVariants,
	}
}

// variantSummary is the list_variants view of a variant.
type variantSummary struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	FileName    string `json:"fileName"`
}

func variantSummaries() ([]variantSummary, error) {
	var out []variantSummary
	for _, name := range doctpl.Names() {
		v, err := doctpl.Lookup(name)
		if err != nil {
			return nil, err
		}
		out = append(out, variantSummary{Name: v.Name, Title: v.Title, Description: v.Description, FileName: v.FileName})
	}
	return out, nil
}

func handleListVariants(args map[string]interface{}) (ToolResult, error) {
	summaries, err := variantSummaries()
	if err != nil {
		return ToolResult{}, err
	}
	jsonBytes, _ := json.MarshalIndent(summaries, "", "  ")
	return textResult(string(jsonBytes)), nil
}

func describeVariantTool() Tool {
	return Tool{
		Name:        "describe_variant",
		Description: "Return the full definition of a form variant: its inputs (key, label, kind) and the blocks of the rendered document.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Variant name, e.g. film",
				},
			},
			"required": []string{"name"},
		},
		Handler: handleDescribeVariant,
	}
}

func handleDescribeVariant(args map[string]interface{}) (ToolResult, error) {
	name, ok := args["name"].(string)
	if !ok {
		return ToolResult{}, fmt.Errorf("missing 'name' argument")
	}
	v, err := doctpl.Lookup(name)
	if err != nil {
		return ToolResult{}, err
	}
	jsonBytes, _ := json.MarshalIndent(v, "", "  ")
	return textResult(string(jsonBytes)), nil
}

func readPresskitTool() Tool {
	return Tool{
		Name:        "read_presskit",
		Description: "Read a rendered PDF and return its page count and the plain text of each page.",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Path to the PDF file",
				},
			},
			"required": []string{"path"},
		},
		Handler: handleReadPresskit,
	}
}

func handleReadPresskit(args map[string]interface{}) (ToolResult, error) {
	path, ok := args["path"].(string)
	if !ok {
		return ToolResult{}, fmt.Errorf("missing 'path' argument")
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return ToolResult{}, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	fmt.Fprintf(&sb, "Pages: %d\n", r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			fmt.Fprintf(&sb, "--- Page %d (error: %v) ---\n", i, err)
			continue
		}
		fmt.Fprintf(&sb, "--- Page %d ---\n%s\n", i, text)
	}
	return textResult(sb.String()), nil
}

func textResult(text string) ToolResult {
	return ToolResult{Content: []ContentBlock{{Type: "text", Text: text}}}
}
