package layout

import "github.com/aanbieding/folder/pkg/folder"

// Featured places the first product as a full-width hero card and hands the
// remainder to [Grid], starting directly below the hero.
type Featured struct{}

// Name implements Strategy.
func (Featured) Name() folder.LayoutMode { return folder.LayoutFeatured }

// Layout implements Strategy.
func (Featured) Layout(products []folder.Product, b Bounds, c Cursor) Result {
	res := Result{Cursor: c}
	if len(products) == 0 {
		return res
	}

	if needsBreak(c, c.Y+FeaturedHeight, b) {
		res.Breaks = append(res.Breaks, -1)
		c = nextPage(c, b)
	}
	hero := Placement{
		Index:   0,
		Product: products[0],
		Region:  Region{X: b.Left(), Y: c.Y, Width: b.ContentWidth(), Height: FeaturedHeight},
		Page:    c.Page,
	}
	res.Placements = append(res.Placements, hero)
	c.Y += FeaturedHeight + FeaturedGap
	c.Occupied = true

	rest := Grid{}.Layout(products[1:], b, c)
	for _, pl := range rest.Placements {
		pl.Index++
		res.Placements = append(res.Placements, pl)
	}
	for _, br := range rest.Breaks {
		res.Breaks = append(res.Breaks, br+1)
	}
	res.Cursor = rest.Cursor
	return res
}
