package plan

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/aanbieding/folder/pkg/core/card"
	"github.com/aanbieding/folder/pkg/core/color"
	"github.com/aanbieding/folder/pkg/core/layout"
	"github.com/aanbieding/folder/pkg/folder"
)

var (
	titleColor  = color.MustParse("#333333")
	footerColor = color.MustParse("#666666")
)

// Assembler turns requests into plans. The zero value is not usable; call
// [NewAssembler].
type Assembler struct {
	logger *log.Logger
}

// NewAssembler creates an assembler that reports recoverable problems,
// such as unparseable background colors, to logger. A nil logger discards
// them.
func NewAssembler(logger *log.Logger) *Assembler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Assembler{logger: logger}
}

// Assemble lays out every logical page of req. The request must already be
// validated; Assemble never fails.
func Assemble(req *folder.Request) *Plan {
	return NewAssembler(nil).Assemble(req)
}

// Assemble lays out every logical page of req.
func (a *Assembler) Assemble(req *folder.Request) *Plan {
	b := layout.A4(req.Orientation == folder.Landscape)
	p := &Plan{Bounds: b, Orientation: req.Orientation}
	if p.Orientation == "" {
		p.Orientation = folder.Portrait
	}

	for _, src := range req.Pages {
		p.Pages = append(p.Pages, a.assemblePage(src, b)...)
	}
	if len(p.Pages) == 0 {
		p.Pages = []Page{{Cards: []card.Block{}}}
	}

	total := len(p.Pages)
	for i := range p.Pages {
		p.Pages[i].Number = i + 1
		p.Pages[i].Footer = footer(b, i+1, total)
	}
	return p
}

func (a *Assembler) assemblePage(src folder.Page, b layout.Bounds) []Page {
	first := Page{Source: src.PageNumber, Cards: []card.Block{}}
	if fill, ok := a.background(src); ok {
		first.Fill = &fill
	}

	cursor := layout.Cursor{Y: b.Top()}
	if src.Title != "" {
		first.Title = &card.Text{
			X:       b.Left(),
			Y:       cursor.Y,
			Width:   b.ContentWidth(),
			Content: src.Title,
			Size:    TitleSize,
			Bold:    true,
			Color:   titleColor,
		}
		cursor.Y += TitleHeight + TitleSpacing
	}

	strategy := layout.ForMode(src.Layout)
	res := strategy.Layout(src.Products, b, cursor)

	pages := make([]Page, res.Cursor.Page+1)
	pages[0] = first
	for i := 1; i < len(pages); i++ {
		pages[i] = Page{Source: src.PageNumber, Continuation: true, Cards: []card.Block{}}
	}
	for _, pl := range res.Placements {
		pg := &pages[pl.Page]
		pg.Cards = append(pg.Cards, card.Layout(pl.Product, pl.Region))
	}

	a.logger.Debug("page laid out",
		"page", src.PageNumber,
		"layout", strategy.Name(),
		"products", len(src.Products),
		"physical", len(pages))
	return pages
}

// background resolves the fill for a logical page. White and empty specs
// need no fill; anything else that does not parse is skipped with a warning.
func (a *Assembler) background(src folder.Page) (color.RGB8, bool) {
	spec := strings.TrimSpace(src.BackgroundColor)
	if spec == "" || strings.EqualFold(spec, folder.DefaultBackgroundColor) {
		return color.RGB8{}, false
	}
	c, err := color.Parse(spec)
	if err != nil {
		a.logger.Warn("skipping background fill", "page", src.PageNumber, "color", spec, "err", err)
		return color.RGB8{}, false
	}
	return c, true
}

func footer(b layout.Bounds, n, total int) card.Text {
	return card.Text{
		X:       b.Left(),
		Y:       b.Height - b.Margin/2 - FooterSize*25.4/72/2,
		Width:   b.ContentWidth(),
		Content: fmt.Sprintf("Page %d of %d", n, total),
		Size:    FooterSize,
		Color:   footerColor,
		Align:   card.AlignCenter,
	}
}
