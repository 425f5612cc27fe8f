package presskit

import (
	"log/slog"
	"time"

	"github.com/lvillar/presskit/logging"
)

// mm is the number of points in one millimetre.
const mm = 72.0 / 25.4

// ImagePolicy decides what happens when an image block cannot be decoded.
type ImagePolicy int

const (
	// ImageFail aborts the render pass with ErrImageDecode.
	ImageFail ImagePolicy = iota
	// ImageSkip logs a warning and continues without the image block.
	ImageSkip
)

// Option is a functional option for configuring a Builder via NewBuilder.
type Option func(*config)

type config struct {
	pageWidth, pageHeight float64
	left, top, right      float64
	bottom                float64

	family       string
	titleSize    float64
	headingSize  float64
	bodySize     float64
	titleLineH   float64
	titleBlockH  float64
	lineH        float64
	sectionGap   float64
	caption      string
	pageNumbers  string
	compress     bool
	created      time.Time
	imagePolicy  ImagePolicy
	strictEncode bool
	logger       *slog.Logger
}

// defaultConfig: A4, 10mm margins, 12pt Helvetica on 10mm lines and a
// 16pt bold title in a 20mm block.
func defaultConfig() *config {
	return &config{
		pageWidth:   595.28,
		pageHeight:  841.89,
		left:        10 * mm,
		top:         10 * mm,
		right:       10 * mm,
		bottom:      10 * mm,
		family:      "Helvetica",
		titleSize:   16,
		headingSize: 14,
		bodySize:    12,
		titleLineH:  10 * mm,
		titleBlockH: 20 * mm,
		lineH:       10 * mm,
		sectionGap:  5 * mm,
		caption:     "Press Shot",
		compress:    true,
		created:     time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

// WithPageSize sets a custom page size in points.
func WithPageSize(width, height float64) Option {
	return func(c *config) {
		c.pageWidth = width
		c.pageHeight = height
	}
}

// WithMargins sets the page margins in points.
func WithMargins(left, top, right, bottom float64) Option {
	return func(c *config) {
		c.left, c.top, c.right, c.bottom = left, top, right, bottom
	}
}

// WithFontFamily selects one of the core font families:
// "Helvetica" (alias "Arial"), "Times" or "Courier".
func WithFontFamily(family string) Option {
	return func(c *config) {
		c.family = family
	}
}

// WithFontSizes sets the title, section heading and body sizes in points.
func WithFontSizes(title, heading, body float64) Option {
	return func(c *config) {
		c.titleSize, c.headingSize, c.bodySize = title, heading, body
	}
}

// WithLineHeight sets the height of one body or heading line in points.
func WithLineHeight(h float64) Option {
	return func(c *config) {
		c.lineH = h
	}
}

// WithTitleBlock sets the title line height and the total cursor advance
// of a one-line title, both in points.
func WithTitleBlock(lineH, blockH float64) Option {
	return func(c *config) {
		c.titleLineH = lineH
		c.titleBlockH = blockH
	}
}

// WithSectionGap sets the spacer height used between groups by RenderRecord.
func WithSectionGap(h float64) Option {
	return func(c *config) {
		c.sectionGap = h
	}
}

// WithCaption sets the heading drawn above image blocks.
// An empty caption disables it.
func WithCaption(caption string) Option {
	return func(c *config) {
		c.caption = caption
	}
}

// WithPageNumbers draws a footer on every page. The format receives the
// one-based page number, e.g. "Page %d".
func WithPageNumbers(format string) Option {
	return func(c *config) {
		c.pageNumbers = format
	}
}

// WithCompression toggles content stream compression. Uncompressed output
// is easier to inspect.
func WithCompression(on bool) Option {
	return func(c *config) {
		c.compress = on
	}
}

// WithCreationDate sets the creation date written to the document
// information dictionary. Output bytes depend on it, so it defaults to a
// fixed date rather than the wall clock.
func WithCreationDate(t time.Time) Option {
	return func(c *config) {
		c.created = t
	}
}

// WithImagePolicy chooses between failing and skipping on undecodable images.
func WithImagePolicy(p ImagePolicy) Option {
	return func(c *config) {
		c.imagePolicy = p
	}
}

// WithStrictEncoding makes unsupported characters fail the render with
// ErrEncoding instead of being substituted.
func WithStrictEncoding() Option {
	return func(c *config) {
		c.strictEncode = true
	}
}

// WithLogger sets the logger used by the builder. When unset the
// package-level logger from the logging package is used.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

func (c *config) validate() error {
	switch {
	case c.pageWidth <= 0 || c.pageHeight <= 0:
		return ErrInvalidParam
	case c.left < 0 || c.top < 0 || c.right < 0 || c.bottom < 0:
		return ErrInvalidParam
	case c.pageWidth-c.left-c.right <= 0:
		return ErrInvalidParam
	case c.top+c.titleBlockH > c.pageHeight-c.bottom:
		return ErrInvalidParam
	case c.lineH <= 0 || c.titleLineH <= 0 || c.titleBlockH < c.titleLineH:
		return ErrInvalidParam
	case c.top+c.lineH > c.pageHeight-c.bottom:
		return ErrInvalidParam
	case c.bodySize <= 0 || c.headingSize <= 0 || c.titleSize <= 0:
		return ErrInvalidParam
	}
	return nil
}

func (c *config) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return logging.Logger()
}
