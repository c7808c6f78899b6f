// Package layout places products into page regions.
//
// Three strategies share one shape: [Strategy.Layout] folds over a product
// sequence starting at an explicit [Cursor] and returns the placements, the
// indices after which a new physical page must begin, and the cursor after
// the last card. Strategies hold no state between calls, so they are safe
// to share and trivially testable in isolation.
//
// # Strategies
//
//   - [Grid]: two columns of fixed-height rows
//   - [List]: one full-width card per row
//   - [Featured]: one large card, then the rest as a grid
//
// Use [ForMode] to resolve a page's layout mode; unknown modes fall back to
// the grid.
package layout

import "github.com/aanbieding/folder/pkg/folder"

// Policy constants, in millimetres.
const (
	GridRowHeight  = 60.0
	GridGap        = 5.0
	ListCardHeight = 35.0
	ListGap        = 5.0
	FeaturedHeight = 80.0
	FeaturedGap    = 5.0
)

// Cursor is the layout position on the current physical page.
type Cursor struct {
	// Y is the next free y coordinate.
	Y float64
	// Page counts page breaks taken so far (0 on the first physical page).
	Page int
	// Occupied is set once a card has been placed on the current page.
	// A break is never requested on an unoccupied page.
	Occupied bool
}

// Placement is one product positioned on a physical page.
type Placement struct {
	// Index is the product's position in the input sequence.
	Index   int
	Product folder.Product
	Region  Region
	// Page is the physical page offset relative to the starting cursor.
	Page int
	// Column is set by the grid strategy; 0 elsewhere.
	Column int
}

// Result is the outcome of laying out one product sequence.
type Result struct {
	Placements []Placement
	// Breaks lists product indices after which a new physical page begins.
	// An index of -1 requests a new page before the first product; it only
	// occurs when the starting cursor is already occupied.
	Breaks []int
	Cursor Cursor
}

// Strategy places a sequence of products onto a stream of pages.
type Strategy interface {
	Name() folder.LayoutMode
	Layout(products []folder.Product, bounds Bounds, cursor Cursor) Result
}

// ForMode returns the strategy for mode, defaulting to Grid.
func ForMode(mode folder.LayoutMode) Strategy {
	switch mode {
	case folder.LayoutList:
		return List{}
	case folder.LayoutFeatured:
		return Featured{}
	default:
		return Grid{}
	}
}

// needsBreak reports whether a card ending at bottom overflows the page.
// An empty page always accepts its first card.
func needsBreak(c Cursor, bottom float64, b Bounds) bool {
	return c.Occupied && bottom > b.Bottom()
}

// nextPage returns the cursor at the top margin of a fresh page.
func nextPage(c Cursor, b Bounds) Cursor {
	return Cursor{Y: b.Top(), Page: c.Page + 1}
}
