package writer

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/aanbieding/folder/pkg/core/card"
	"github.com/aanbieding/folder/pkg/core/color"
	"github.com/aanbieding/folder/pkg/core/plan"
	"github.com/aanbieding/folder/pkg/folder"
	"github.com/aanbieding/folder/pkg/fonts"
)

// pageGap separates stacked pages in SVG and PNG output, in millimetres.
const pageGap = 10.0

var (
	sheetColor = color.MustParse("#ffffff")
	deskColor  = color.MustParse("#f0f0f0")
)

// SVG writes all physical pages into one SVG document, stacked top to
// bottom. Units are millimetres.
type SVG struct {
	logger *log.Logger
}

// NewSVG creates an SVG writer.
func NewSVG(logger *log.Logger) *SVG { return &SVG{logger: orDiscard(logger)} }

// Format implements Writer.
func (*SVG) Format() Format { return FormatSVG }

// Render implements Writer.
func (w *SVG) Render(ctx context.Context, p *plan.Plan, opts Options, out io.Writer) error {
	if opts.ColorMode == folder.ColorCMYK {
		w.logger.Warn("svg output is RGB only, ignoring CMYK color mode")
	}
	data, err := RenderSVG(ctx, p)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

// RenderSVG renders the plan to SVG bytes.
func RenderSVG(ctx context.Context, p *plan.Plan) ([]byte, error) {
	width, height := stackedSize(p, len(p.Pages))

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.2fmm" height="%.2fmm">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.2f" height="%.2f" fill="%s"/>`+"\n", width, height, deskColor.Hex())

	for i, pg := range p.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		offset := float64(i) * (p.Bounds.Height + pageGap)
		fmt.Fprintf(&buf, `  <g id="page-%d" transform="translate(0 %.2f)">`+"\n", pg.Number, offset)
		renderSVGPage(&buf, p, pg)
		buf.WriteString("  </g>\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

// stackedSize is the size of the first n pages of p stacked vertically.
func stackedSize(p *plan.Plan, n int) (width, height float64) {
	f := float64(n)
	return p.Bounds.Width, f*p.Bounds.Height + (f-1)*pageGap
}

func renderSVGPage(buf *bytes.Buffer, p *plan.Plan, pg plan.Page) {
	fill := sheetColor
	if pg.Fill != nil {
		fill = *pg.Fill
	}
	fmt.Fprintf(buf, `    <rect x="0" y="0" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
		p.Bounds.Width, p.Bounds.Height, fill.Hex())

	if pg.Title != nil {
		renderSVGText(buf, *pg.Title)
	}
	for _, c := range pg.Cards {
		fmt.Fprintf(buf, `    <g class="card" data-product="%s">`+"\n", escapeXML(c.ProductID))
		fmt.Fprintf(buf, `      <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="%s" stroke-width="%.2f"/>`+"\n",
			c.Region.X, c.Region.Y, c.Region.Width, c.Region.Height, c.Border.Hex(), c.BorderWidth)
		if c.Image != nil {
			renderSVGImage(buf, *c.Image)
		}
		for _, t := range c.Texts {
			renderSVGText(buf, t)
		}
		buf.WriteString("    </g>\n")
	}
	renderSVGText(buf, pg.Footer)
}

func renderSVGImage(buf *bytes.Buffer, img card.Image) {
	r := img.Region
	if _, ok := localImage(img.Ref); ok {
		fmt.Fprintf(buf, `      <image x="%.2f" y="%.2f" width="%.2f" height="%.2f" href="%s" preserveAspectRatio="xMidYMid meet"/>`+"\n",
			r.X, r.Y, r.Width, r.Height, escapeXML(img.Ref))
		return
	}
	fmt.Fprintf(buf, `      <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
		r.X, r.Y, r.Width, r.Height, placeholderColor.Hex())
}

func renderSVGText(buf *bytes.Buffer, t card.Text) {
	if t.Content == "" {
		return
	}
	size := mm(t.Size)
	x, anchor := t.X, "start"
	switch t.Align {
	case card.AlignCenter:
		x, anchor = t.X+t.Width/2, "middle"
	case card.AlignRight:
		x, anchor = t.X+t.Width, "end"
	}
	weight := "normal"
	if t.Bold {
		weight = "bold"
	}
	lineHeight := size * lineSpacing
	for i, line := range lines(t) {
		// y is the baseline; the ascent of the Go fonts is about 0.9em.
		y := t.Y + float64(i)*lineHeight + size*0.9
		fmt.Fprintf(buf, `      <text x="%.2f" y="%.2f" font-family="%s" font-size="%.2f" font-weight="%s" text-anchor="%s" fill="%s">%s</text>`+"\n",
			x, y, fonts.FallbackFontFamily, size, weight, anchor, t.Color.Hex(), escapeXML(line))
	}
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

var _ Writer = (*SVG)(nil)
