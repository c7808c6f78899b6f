package layout

import "github.com/aanbieding/folder/pkg/folder"

// List lays products out one per row across the full content width.
type List struct{}

// Name implements Strategy.
func (List) Name() folder.LayoutMode { return folder.LayoutList }

// Layout implements Strategy.
func (List) Layout(products []folder.Product, b Bounds, c Cursor) Result {
	res := Result{Cursor: c}
	for i, p := range products {
		if needsBreak(c, c.Y+ListCardHeight, b) {
			res.Breaks = append(res.Breaks, i-1)
			c = nextPage(c, b)
		}
		res.Placements = append(res.Placements, Placement{
			Index:   i,
			Product: p,
			Region:  Region{X: b.Left(), Y: c.Y, Width: b.ContentWidth(), Height: ListCardHeight},
			Page:    c.Page,
		})
		c.Y += ListCardHeight + ListGap
		c.Occupied = true
	}
	res.Cursor = c
	return res
}
