// Package card lays out a single product card inside a region.
//
// [Layout] is a pure function: it never fails, and a missing optional field
// simply omits its block. Text is fitted to the card's character budgets
// with [textfit.Fit]; wrapping and font metrics are left to the writer.
package card

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/aanbieding/folder/pkg/core/color"
	"github.com/aanbieding/folder/pkg/core/layout"
	"github.com/aanbieding/folder/pkg/core/textfit"
	"github.com/aanbieding/folder/pkg/folder"
)

// Character budgets for card text.
const (
	NameBudget        = 30
	DescriptionBudget = 60
)

// CurrencyPrefix is written before every price. It is a plain token rather
// than a glyph so restricted font sets can render it.
const CurrencyPrefix = "EUR"

// Card styling, in millimetres and points.
const (
	Padding         = 5.0
	NameSize        = 14.0
	DescriptionSize = 10.0
	PriceSize       = 16.0
	QuantitySize    = 10.0
	BorderWidth     = 0.3
	ImageSize       = 25.0
)

// Card colors.
var (
	BorderColor   = color.MustParse("#dddddd")
	TextColor     = color.MustParse("#333333")
	MutedColor    = color.MustParse("#666666")
	PriceColor    = color.MustParse("#0066cc")
	QuantityColor = color.MustParse("#999999")
)

// Align is the horizontal anchor of a text block.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// String returns the lowercase alignment name.
func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// Text is a positioned run of text. X and Y locate the top-left of the
// text box; Width bounds it. Size is in points.
type Text struct {
	X, Y    float64
	Width   float64
	Content string
	Size    float64
	Bold    bool
	Color   color.RGB8
	Align   Align
	// Wrap asks the writer to wrap Content to Width.
	Wrap bool
}

// Image is a reserved slot for a product image. Ref is opaque to the core.
type Image struct {
	Region layout.Region
	Ref    string
}

// Block is one laid-out product card.
type Block struct {
	ProductID   string
	Region      layout.Region
	Border      color.RGB8
	BorderWidth float64
	Texts       []Text
	Image       *Image
}

// Layout produces the card block for p inside r.
func Layout(p folder.Product, r layout.Region) Block {
	inner := r.Inset(Padding)
	b := Block{
		ProductID:   p.ID,
		Region:      r,
		Border:      BorderColor,
		BorderWidth: BorderWidth,
	}

	textWidth := inner.Width
	if p.ImageURL != "" {
		size := math.Min(ImageSize, inner.Height)
		b.Image = &Image{
			Region: layout.Region{X: inner.Right() - size, Y: inner.Y, Width: size, Height: size},
			Ref:    p.ImageURL,
		}
		textWidth = math.Max(inner.Width-size-Padding, 0)
	}

	b.Texts = append(b.Texts, Text{
		X:       inner.X,
		Y:       inner.Y,
		Width:   textWidth,
		Content: textfit.Fit(p.Name, NameBudget),
		Size:    NameSize,
		Bold:    true,
		Color:   TextColor,
	})

	if p.Description != "" {
		b.Texts = append(b.Texts, Text{
			X:       inner.X,
			Y:       inner.Y + pt(NameSize) + 2,
			Width:   textWidth,
			Content: textfit.Fit(p.Description, DescriptionBudget),
			Size:    DescriptionSize,
			Color:   MutedColor,
			Wrap:    true,
		})
	}

	if p.HasPrice() {
		b.Texts = append(b.Texts, Text{
			X:       inner.X,
			Y:       inner.Bottom() - pt(PriceSize),
			Width:   inner.Width / 2,
			Content: FormatPrice(*p.Price),
			Size:    PriceSize,
			Bold:    true,
			Color:   PriceColor,
		})
	}

	if p.Quantity > 1 {
		b.Texts = append(b.Texts, Text{
			X:       inner.X + inner.Width/2,
			Y:       inner.Bottom() - pt(QuantitySize),
			Width:   inner.Width / 2,
			Content: "x" + strconv.Itoa(p.Quantity),
			Size:    QuantitySize,
			Color:   QuantityColor,
			Align:   AlignRight,
		})
	}

	return b
}

// FormatPrice renders a price as "EUR 0.00". Values are rounded half away
// from zero to two decimals; negative and non-finite values render as zero.
func FormatPrice(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		v = 0
	}
	return CurrencyPrefix + " " + decimal.NewFromFloat(v).StringFixed(2)
}

// pt converts a point size to millimetres.
func pt(size float64) float64 { return size * 25.4 / 72 }
