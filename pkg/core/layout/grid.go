package layout

import "github.com/aanbieding/folder/pkg/folder"

// Grid lays products out in two columns of fixed-height rows.
//
// Product i always lands in column i mod 2. Rows restart at the top margin
// after a page break; the column assignment follows the input index, so it
// is stable across breaks.
type Grid struct{}

// Name implements Strategy.
func (Grid) Name() folder.LayoutMode { return folder.LayoutGrid }

// ColumnWidth is the width of one grid cell before the gap is removed.
func (Grid) ColumnWidth(b Bounds) float64 { return b.ContentWidth() / 2 }

// Layout implements Strategy.
func (g Grid) Layout(products []folder.Product, b Bounds, c Cursor) Result {
	res := Result{Cursor: c}
	if len(products) == 0 {
		return res
	}

	colW := g.ColumnWidth(b)
	rowTop := c.Y
	for i, p := range products {
		col := i % 2
		if col == 0 {
			if i > 0 {
				rowTop += GridRowHeight
			}
			next := c
			next.Occupied = c.Occupied || i > 0
			if needsBreak(next, rowTop+GridRowHeight, b) {
				res.Breaks = append(res.Breaks, i-1)
				c = nextPage(c, b)
				rowTop = c.Y
			}
		}
		res.Placements = append(res.Placements, Placement{
			Index:   i,
			Product: p,
			Region:  g.cell(b, colW, col, rowTop),
			Page:    c.Page,
			Column:  col,
		})
		c.Occupied = true
	}

	c.Y = rowTop + GridRowHeight
	res.Cursor = c
	return res
}

// cell returns the card region for a column: the cell minus the gap, split
// so the outer edges stay flush with the content margins.
func (Grid) cell(b Bounds, colW float64, col int, top float64) Region {
	x := b.Left() + float64(col)*colW
	if col == 1 {
		x += GridGap / 2
	}
	return Region{
		X:      x,
		Y:      top,
		Width:  colW - GridGap/2,
		Height: GridRowHeight - GridGap,
	}
}
