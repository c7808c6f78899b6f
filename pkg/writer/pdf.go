package writer

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jung-kurt/gofpdf"

	"github.com/aanbieding/folder/pkg/buildinfo"
	"github.com/aanbieding/folder/pkg/core/card"
	"github.com/aanbieding/folder/pkg/core/color"
	"github.com/aanbieding/folder/pkg/core/plan"
	"github.com/aanbieding/folder/pkg/errors"
	"github.com/aanbieding/folder/pkg/folder"
)

var placeholderColor = color.MustParse("#eeeeee")

// PDF writes native PDF documents. In CMYK mode every color is registered
// as a spot color with its CMYK components, so print shops receive device
// CMYK values rather than RGB.
type PDF struct {
	logger *log.Logger
}

// NewPDF creates a PDF writer.
func NewPDF(logger *log.Logger) *PDF { return &PDF{logger: orDiscard(logger)} }

// Format implements Writer.
func (*PDF) Format() Format { return FormatPDF }

// Render implements Writer.
func (w *PDF) Render(ctx context.Context, p *plan.Plan, opts Options, out io.Writer) error {
	orientation := "P"
	if p.Orientation == folder.Landscape {
		orientation = "L"
	}
	doc := gofpdf.New(orientation, "mm", "A4", "")
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetCreator("folder "+buildinfo.Version, true)

	r := &pdfRenderer{
		doc:     doc,
		tr:      doc.UnicodeTranslatorFromDescriptor(""),
		cmyk:    opts.ColorMode == folder.ColorCMYK,
		spots:   make(map[color.RGB8]string),
		logger:  w.logger,
		missing: make(map[string]bool),
		images:  make(map[string]bool),
	}

	for _, pg := range p.Pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		doc.AddPage()
		if pg.Fill != nil {
			r.setFill(*pg.Fill)
			doc.Rect(0, 0, p.Bounds.Width, p.Bounds.Height, "F")
		}
		if pg.Title != nil {
			r.text(*pg.Title)
		}
		for _, c := range pg.Cards {
			r.card(c)
		}
		r.text(pg.Footer)
	}

	if err := doc.Error(); err != nil {
		return errors.Wrap(errors.ErrCodeWriterFailed, err, "build pdf")
	}
	if err := doc.Output(out); err != nil {
		return errors.Wrap(errors.ErrCodeWriterFailed, err, "write pdf")
	}
	w.logger.Debug("wrote pdf", "pages", len(p.Pages), "cmyk", r.cmyk, "spots", len(r.spots))
	return nil
}

type pdfRenderer struct {
	doc     *gofpdf.Fpdf
	tr      func(string) string
	cmyk    bool
	spots   map[color.RGB8]string
	logger  *log.Logger
	missing map[string]bool
	images  map[string]bool
}

func (r *pdfRenderer) spot(c color.RGB8) string {
	if name, ok := r.spots[c]; ok {
		return name
	}
	k := c.CMYK()
	name := "cmyk-" + strings.TrimPrefix(c.Hex(), "#")
	r.doc.AddSpotColor(name, k.C, k.M, k.Y, k.K)
	r.spots[c] = name
	return name
}

func (r *pdfRenderer) setFill(c color.RGB8) {
	if r.cmyk {
		r.doc.SetFillSpotColor(r.spot(c), 100)
		return
	}
	r.doc.SetFillColor(int(c.R), int(c.G), int(c.B))
}

func (r *pdfRenderer) setDraw(c color.RGB8) {
	if r.cmyk {
		r.doc.SetDrawSpotColor(r.spot(c), 100)
		return
	}
	r.doc.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func (r *pdfRenderer) setText(c color.RGB8) {
	if r.cmyk {
		r.doc.SetTextSpotColor(r.spot(c), 100)
		return
	}
	r.doc.SetTextColor(int(c.R), int(c.G), int(c.B))
}

func (r *pdfRenderer) card(b card.Block) {
	r.setDraw(b.Border)
	r.doc.SetLineWidth(b.BorderWidth)
	r.doc.Rect(b.Region.X, b.Region.Y, b.Region.Width, b.Region.Height, "D")

	if b.Image != nil {
		r.image(*b.Image)
	}
	for _, t := range b.Texts {
		r.text(t)
	}
}

func (r *pdfRenderer) image(img card.Image) {
	reg := img.Region
	if path, ok := localImage(img.Ref); ok && r.register(path) {
		r.doc.ImageOptions(path, reg.X, reg.Y, reg.Width, reg.Height, false,
			gofpdf.ImageOptions{ImageType: imageType(path), ReadDpi: true}, 0, "")
		return
	}
	if !r.missing[img.Ref] {
		r.missing[img.Ref] = true
		r.logger.Debug("image not embedded, drawing placeholder", "ref", img.Ref)
	}
	r.setFill(placeholderColor)
	r.doc.Rect(reg.X, reg.Y, reg.Width, reg.Height, "F")
}

// register loads a local image into the document once. An image that does
// not decode is logged and reported as unusable; the document error it
// leaves behind is cleared so the rest of the folder still renders.
func (r *pdfRenderer) register(path string) bool {
	if ok, seen := r.images[path]; seen {
		return ok
	}
	r.doc.RegisterImageOptions(path, gofpdf.ImageOptions{ImageType: imageType(path), ReadDpi: true})
	ok := r.doc.Ok()
	if !ok {
		r.logger.Warn("image not embedded, drawing placeholder", "path", path, "err", r.doc.Error())
		r.doc.ClearError()
	}
	r.images[path] = ok
	return ok
}

func (r *pdfRenderer) text(t card.Text) {
	if t.Content == "" {
		return
	}
	style := ""
	if t.Bold {
		style = "B"
	}
	r.doc.SetFont("Helvetica", style, t.Size)
	r.setText(t.Color)

	lineHeight := mm(t.Size) * lineSpacing
	align := pdfAlign(t.Align)
	for i, line := range lines(t) {
		r.doc.SetXY(t.X, t.Y+float64(i)*lineHeight)
		r.doc.CellFormat(t.Width, lineHeight, r.tr(line), "", 0, align+"T", false, 0, "")
	}
}

func pdfAlign(a card.Align) string {
	switch a {
	case card.AlignCenter:
		return "C"
	case card.AlignRight:
		return "R"
	default:
		return "L"
	}
}

func imageType(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "jpeg" {
		return "jpg"
	}
	return ext
}

var _ Writer = (*PDF)(nil)
