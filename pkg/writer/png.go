package writer

import (
	"context"
	"io"
	"math"

	"github.com/charmbracelet/log"
	"github.com/gogpu/gg"

	"github.com/aanbieding/folder/pkg/core/card"
	"github.com/aanbieding/folder/pkg/core/color"
	"github.com/aanbieding/folder/pkg/core/plan"
	"github.com/aanbieding/folder/pkg/errors"
	"github.com/aanbieding/folder/pkg/folder"
	"github.com/aanbieding/folder/pkg/fonts"
)

// MaxPNGDPI caps raster proofs; all pages share one canvas.
const MaxPNGDPI = 150

// MaxPNGPixels bounds the proof canvas (about 128 MB of RGBA). Long folders
// are drawn below the requested resolution, down to folder.MinDPI; pages
// that still do not fit are left off the proof.
const MaxPNGPixels = 32_000_000

// PNG renders a raster proof of the plan with all pages stacked vertically.
type PNG struct {
	logger *log.Logger
}

// NewPNG creates a PNG writer.
func NewPNG(logger *log.Logger) *PNG { return &PNG{logger: orDiscard(logger)} }

// Format implements Writer.
func (*PNG) Format() Format { return FormatPNG }

// PNGDPI returns the effective raster resolution for a requested DPI.
func PNGDPI(requested int) int {
	switch {
	case requested <= 0:
		return MaxPNGDPI
	case requested < folder.MinDPI:
		return folder.MinDPI
	case requested > MaxPNGDPI:
		return MaxPNGDPI
	default:
		return requested
	}
}

// PNGFit returns the resolution and the number of leading pages of p that a
// proof uses for a requested DPI, keeping the canvas within MaxPNGPixels.
// At least one page is always drawn.
func PNGFit(p *plan.Plan, requested int) (dpi, pages int) {
	dpi = PNGDPI(requested)
	pages = len(p.Pages)
	for dpi > folder.MinDPI && canvasPixels(p, pages, dpi) > MaxPNGPixels {
		dpi--
	}
	for pages > 1 && canvasPixels(p, pages, dpi) > MaxPNGPixels {
		pages--
	}
	return dpi, pages
}

func canvasPixels(p *plan.Plan, pages, dpi int) int {
	r := &pngRenderer{scale: float64(dpi) / 25.4}
	width, height := stackedSize(p, pages)
	return r.px(width) * r.px(height)
}

// Render implements Writer.
func (w *PNG) Render(ctx context.Context, p *plan.Plan, opts Options, out io.Writer) error {
	if opts.ColorMode == folder.ColorCMYK {
		w.logger.Warn("png proofs are RGB only, ignoring CMYK color mode")
	}
	dpi, pages := PNGFit(p, opts.DPI)
	if dpi != opts.DPI && opts.DPI != 0 {
		w.logger.Debug("png dpi adjusted", "requested", opts.DPI, "used", dpi)
	}
	if pages < len(p.Pages) {
		w.logger.Warn("png proof truncated", "pages", len(p.Pages), "drawn", pages, "dpi", dpi)
	}

	r := &pngRenderer{scale: float64(dpi) / 25.4}
	width, height := stackedSize(p, pages)
	dc := gg.NewContext(r.px(width), r.px(height))
	defer dc.Close()
	r.dc = dc

	dc.ClearWithColor(rgba(deskColor))
	for i, pg := range p.Pages[:pages] {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.offset = float64(i) * (p.Bounds.Height + pageGap)
		if err := r.page(p, pg); err != nil {
			return errors.Wrap(errors.ErrCodeWriterFailed, err, "draw page %d", pg.Number)
		}
	}

	if err := dc.EncodePNG(out); err != nil {
		return errors.Wrap(errors.ErrCodeWriterFailed, err, "encode png")
	}
	return nil
}

type pngRenderer struct {
	dc     *gg.Context
	scale  float64
	offset float64
}

func (r *pngRenderer) px(v float64) int { return int(math.Ceil(v * r.scale)) }

func (r *pngRenderer) x(v float64) float64 { return v * r.scale }

func (r *pngRenderer) y(v float64) float64 { return (v + r.offset) * r.scale }

func (r *pngRenderer) setColor(c color.RGB8) {
	r.dc.SetRGB(c.Floats())
}

func (r *pngRenderer) rect(x, y, w, h float64) {
	r.dc.DrawRectangle(r.x(x), r.y(y), w*r.scale, h*r.scale)
}

func (r *pngRenderer) page(p *plan.Plan, pg plan.Page) error {
	fill := sheetColor
	if pg.Fill != nil {
		fill = *pg.Fill
	}
	r.setColor(fill)
	r.rect(0, 0, p.Bounds.Width, p.Bounds.Height)
	if err := r.dc.Fill(); err != nil {
		return err
	}

	if pg.Title != nil {
		if err := r.text(*pg.Title); err != nil {
			return err
		}
	}
	for _, c := range pg.Cards {
		if err := r.card(c); err != nil {
			return err
		}
	}
	return r.text(pg.Footer)
}

func (r *pngRenderer) card(b card.Block) error {
	r.setColor(b.Border)
	r.dc.SetLineWidth(math.Max(b.BorderWidth*r.scale, 1))
	r.rect(b.Region.X, b.Region.Y, b.Region.Width, b.Region.Height)
	if err := r.dc.Stroke(); err != nil {
		return err
	}

	if b.Image != nil {
		if err := r.image(*b.Image); err != nil {
			return err
		}
	}
	for _, t := range b.Texts {
		if err := r.text(t); err != nil {
			return err
		}
	}
	return nil
}

func (r *pngRenderer) image(img card.Image) error {
	reg := img.Region
	if path, ok := localImage(img.Ref); ok {
		if buf, err := gg.LoadImage(path); err == nil {
			r.dc.DrawImageEx(buf, gg.DrawImageOptions{
				X:         r.x(reg.X),
				Y:         r.y(reg.Y),
				DstWidth:  reg.Width * r.scale,
				DstHeight: reg.Height * r.scale,
			})
			return nil
		}
	}
	r.setColor(placeholderColor)
	r.rect(reg.X, reg.Y, reg.Width, reg.Height)
	return r.dc.Fill()
}

func (r *pngRenderer) text(t card.Text) error {
	if t.Content == "" {
		return nil
	}
	size := mm(t.Size)
	face, err := fonts.Face(t.Bold, size*r.scale)
	if err != nil {
		return err
	}
	r.dc.SetFont(face)
	r.setColor(t.Color)

	lineHeight := size * lineSpacing
	for i, line := range lines(t) {
		baseline := t.Y + float64(i)*lineHeight + size*0.9
		x := t.X
		switch t.Align {
		case card.AlignCenter, card.AlignRight:
			w, _ := r.dc.MeasureString(line)
			w /= r.scale
			if t.Align == card.AlignCenter {
				x = t.X + (t.Width-w)/2
			} else {
				x = t.X + t.Width - w
			}
		}
		r.dc.DrawString(line, r.x(x), r.y(baseline))
	}
	return nil
}

func rgba(c color.RGB8) gg.RGBA {
	return gg.RGB(c.Floats())
}

var _ Writer = (*PNG)(nil)
