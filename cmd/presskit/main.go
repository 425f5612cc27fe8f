// Command presskit renders a filled-in form to PDF.
//
// The submission is read as JSON (see doctpl.Submission) from a file or
// stdin. An empty submission renders the blank form.
//
//	presskit -list
//	presskit -variant film -in epk.json -image still.jpg
//	presskit -variant script -out - < script.json > Script.pdf
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/lvillar/presskit"
	"github.com/lvillar/presskit/doctpl"
	"github.com/lvillar/presskit/logging"
)

// fileList collects a repeatable flag.
type fileList []string

func (f *fileList) String() string { return strings.Join(*f, ",") }

func (f *fileList) Set(v string) error {
	*f = append(*f, v)
	return nil
}

func main() {
	err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "presskit: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("presskit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	variant := fs.String("variant", "", "form variant (default: the submission's variant)")
	variantFile := fs.String("variant-file", "", "custom variant definition (JSON)")
	in := fs.String("in", "-", "submission JSON file, - for stdin")
	out := fs.String("out", "", "output PDF file, - for stdout (default: the variant's file name)")
	imagePath := fs.String("image", "", "press shot image file")
	imageWidth := fs.Float64("image-width", 0, "press shot width in points (default: printable width)")
	var attach fileList
	fs.Var(&attach, "attach", "PDF `file` appended after the form (repeatable)")
	markdown := fs.Bool("markdown", false, "treat free-text answers as Markdown")
	pageNumbers := fs.Bool("page-numbers", false, "print page numbers in the footer")
	strict := fs.Bool("strict", false, "fail on characters the font cannot encode")
	list := fs.Bool("list", false, "list the available variants and exit")
	verbose := fs.Bool("v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	log := logging.Logger()

	if *list {
		return listVariants(stdout)
	}

	sub, err := readSubmission(*in, stdin)
	if err != nil {
		return err
	}
	if *variant != "" {
		sub.Variant = *variant
	}

	var v *doctpl.Variant
	if *variantFile != "" {
		data, err := os.ReadFile(*variantFile)
		if err != nil {
			return err
		}
		if v, err = doctpl.Parse(data); err != nil {
			return err
		}
		sub.Variant = v.Name
	} else {
		if sub.Variant == "" {
			return fmt.Errorf("no variant given; use -variant or set \"variant\" in the submission (one of %s)",
				strings.Join(doctpl.Names(), ", "))
		}
		if v, err = doctpl.Lookup(sub.Variant); err != nil {
			return err
		}
	}

	if *imagePath != "" {
		if sub.Image, err = os.ReadFile(*imagePath); err != nil {
			return err
		}
	}
	if *imageWidth > 0 {
		sub.ImageWidth = *imageWidth
	}
	for _, path := range attach {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		sub.Attachments = append(sub.Attachments, data)
	}
	sub.Markdown = sub.Markdown || *markdown

	var opts []presskit.Option
	if *pageNumbers {
		opts = append(opts, presskit.WithPageNumbers("Page %d"))
	}
	if *strict {
		opts = append(opts, presskit.WithStrictEncoding())
	}

	dest := *out
	if dest == "" {
		dest = v.FileName
	}
	if dest == "-" {
		if f, ok := stdout.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return errors.New("refusing to write a PDF to a terminal; redirect stdout or use -out")
		}
	}

	var buf bytes.Buffer
	if err := doctpl.RenderVariant(&buf, v, sub, opts...); err != nil {
		return err
	}
	if dest == "-" {
		_, err = stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(dest, buf.Bytes(), 0644); err != nil {
		return err
	}
	log.Info("wrote document", "variant", v.Name, "file", dest, "bytes", buf.Len())
	return nil
}

func readSubmission(path string, stdin io.Reader) (doctpl.Submission, error) {
	var sub doctpl.Submission
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return sub, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return sub, nil
	}
	if err := json.Unmarshal(data, &sub); err != nil {
		return sub, fmt.Errorf("parsing submission: %w", err)
	}
	return sub, nil
}

func listVariants(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTITLE\tFILE")
	for _, name := range doctpl.Names() {
		v, err := doctpl.Lookup(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", v.Name, v.Title, v.FileName)
	}
	return tw.Flush()
}
