// Package writer turns render plans into document artifacts.
//
// One [Writer] is chosen per deployment through configuration; the HTTP
// API and the CLI resolve it once with [New] and reuse it for every job.
// Available backends:
//
//   - pdf: native PDF via gofpdf, with CMYK spot colors in CMYK mode
//   - svg: a single SVG document with pages stacked vertically
//   - svg-pdf: the SVG output converted to PDF by rsvg-convert
//   - png: a raster proof rendered with gg, pages stacked vertically
//   - json: the plan itself, for debugging and external renderers
//
// [WriteFile] gives every backend the same all-or-nothing file semantics:
// either a complete artifact exists at the destination or nothing does.
package writer

import (
	"context"
	"io"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/aanbieding/folder/pkg/core/plan"
	"github.com/aanbieding/folder/pkg/errors"
	"github.com/aanbieding/folder/pkg/folder"
)

// Format names a writer backend.
type Format string

const (
	FormatPDF    Format = "pdf"
	FormatSVG    Format = "svg"
	FormatSVGPDF Format = "svg-pdf"
	FormatPNG    Format = "png"
	FormatJSON   Format = "json"
)

// DefaultFormat is used when no backend is configured.
const DefaultFormat = FormatPDF

// Options carries the per-request output settings.
type Options struct {
	ColorMode folder.ColorMode
	DPI       int
}

// OptionsFor extracts writer options from a request.
func OptionsFor(req *folder.Request) Options {
	return Options{ColorMode: req.ColorMode, DPI: req.DPI}
}

// Writer renders a plan into a byte stream.
type Writer interface {
	Format() Format
	Render(ctx context.Context, p *plan.Plan, opts Options, w io.Writer) error
}

// Extension returns the file extension, including the leading dot, for
// artifacts of format f. It matches what filepath.Ext reports for them.
func Extension(f Format) string {
	switch f {
	case FormatSVGPDF:
		return ".pdf"
	case "":
		return "." + string(DefaultFormat)
	default:
		return "." + string(f)
	}
}

// ContentType returns the MIME type for artifacts of format f.
func ContentType(f Format) string {
	switch f {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatJSON:
		return "application/json"
	default:
		return "application/pdf"
	}
}

var constructors = map[Format]func(*log.Logger) Writer{
	FormatPDF:    func(l *log.Logger) Writer { return NewPDF(l) },
	FormatSVG:    func(l *log.Logger) Writer { return NewSVG(l) },
	FormatSVGPDF: func(l *log.Logger) Writer { return NewSVGPDF(l) },
	FormatPNG:    func(l *log.Logger) Writer { return NewPNG(l) },
	FormatJSON:   func(*log.Logger) Writer { return NewJSON() },
}

// Formats returns the supported backend names in sorted order.
func Formats() []string {
	out := make([]string, 0, len(constructors))
	for f := range constructors {
		out = append(out, string(f))
	}
	sort.Strings(out)
	return out
}

// New returns the writer for format. An empty format selects the default.
func New(format Format, logger *log.Logger) (Writer, error) {
	if format == "" {
		format = DefaultFormat
	}
	ctor, ok := constructors[format]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown writer %q (supported: %v)", format, Formats())
	}
	return ctor(logger), nil
}

func orDiscard(logger *log.Logger) *log.Logger {
	if logger == nil {
		return log.New(io.Discard)
	}
	return logger
}
