package writer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"

	"github.com/charmbracelet/log"

	"github.com/aanbieding/folder/pkg/core/plan"
	"github.com/aanbieding/folder/pkg/errors"
	"github.com/aanbieding/folder/pkg/folder"
)

// SVGPDF renders the SVG output and converts it to PDF with rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
type SVGPDF struct {
	svg *SVG
}

// NewSVGPDF creates an SVG-to-PDF writer.
func NewSVGPDF(logger *log.Logger) *SVGPDF { return &SVGPDF{svg: NewSVG(logger)} }

// Format implements Writer.
func (*SVGPDF) Format() Format { return FormatSVGPDF }

// Render implements Writer.
func (w *SVGPDF) Render(ctx context.Context, p *plan.Plan, opts Options, out io.Writer) error {
	if opts.ColorMode == folder.ColorCMYK {
		w.svg.logger.Warn("svg-pdf output is RGB only, ignoring CMYK color mode")
	}
	svg, err := RenderSVG(ctx, p)
	if err != nil {
		return err
	}
	pdf, err := ToPDF(ctx, svg)
	if err != nil {
		return err
	}
	_, err = out.Write(pdf)
	return err
}

// RSVGAvailable reports whether rsvg-convert is on PATH.
func RSVGAvailable() bool {
	_, err := exec.LookPath("rsvg-convert")
	return err == nil
}

// ToPDF converts SVG bytes to PDF using rsvg-convert.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return rsvgConvert(ctx, svg, "pdf")
}

// ToPNG converts SVG bytes to PNG using rsvg-convert with the given scale factor.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	return rsvgConvert(ctx, svg, "png", "-z", fmt.Sprintf("%.2f", scale))
}

// rsvgConvert shells out to rsvg-convert for format conversion.
func rsvgConvert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if !RSVGAvailable() {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, "rsvg-convert", args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeWriterFailed, err, "rsvg-convert: %s", errBuf.String())
	}
	return out.Bytes(), nil
}

var _ Writer = (*SVGPDF)(nil)
