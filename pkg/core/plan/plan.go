// Package plan assembles a folder request into a render plan.
//
// A [Plan] is the backend-independent description of the finished document:
// an ordered list of physical pages, each holding an optional background
// fill, an optional title, positioned card blocks and a page footer. Every
// logical page starts on a fresh physical page and may spill onto more when
// its products overflow. Backgrounds and titles are only drawn on the first
// physical page of a logical page.
//
// Assembly is deterministic and free of I/O, so a plan can be cached,
// compared and handed to any writer, including again after a failed write.
package plan

import (
	"github.com/aanbieding/folder/pkg/core/card"
	"github.com/aanbieding/folder/pkg/core/color"
	"github.com/aanbieding/folder/pkg/core/layout"
	"github.com/aanbieding/folder/pkg/folder"
)

// Title and footer styling, in millimetres and points.
const (
	TitleHeight  = 12.0
	TitleSpacing = 6.0
	TitleSize    = 24.0
	FooterSize   = 9.0
)

// Plan is the render plan for one request.
type Plan struct {
	Bounds      layout.Bounds      `json:"bounds"`
	Orientation folder.Orientation `json:"orientation"`
	Pages       []Page             `json:"pages"`
}

// Page is one physical page.
type Page struct {
	// Number is the 1-based physical page number.
	Number int `json:"number"`
	// Source is the page number of the logical page this page belongs to.
	Source int `json:"source"`
	// Continuation is set on overflow pages after the first.
	Continuation bool         `json:"continuation,omitempty"`
	Fill         *color.RGB8  `json:"fill,omitempty"`
	Title        *card.Text   `json:"title,omitempty"`
	Cards        []card.Block `json:"cards"`
	Footer       card.Text    `json:"footer"`
}

// PageCount returns the number of physical pages.
func (p *Plan) PageCount() int { return len(p.Pages) }

// CardCount returns the number of card blocks across all pages.
func (p *Plan) CardCount() int {
	n := 0
	for _, pg := range p.Pages {
		n += len(pg.Cards)
	}
	return n
}
