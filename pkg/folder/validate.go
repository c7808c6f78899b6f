package folder

import (
	"math"

	"github.com/aanbieding/folder/pkg/errors"
)

// ValidLayouts is the set of supported page layout modes.
var ValidLayouts = map[LayoutMode]bool{
	LayoutGrid:     true,
	LayoutList:     true,
	LayoutFeatured: true,
}

// ValidColorModes is the set of supported color modes.
var ValidColorModes = map[ColorMode]bool{
	ColorRGB:  true,
	ColorCMYK: true,
}

// ValidOrientations is the set of supported orientations.
var ValidOrientations = map[Orientation]bool{
	Portrait:  true,
	Landscape: true,
}

// Validate applies defaults and checks the request contract: field ranges,
// enum membership and required fields. The layout core relies on a request
// that passed Validate.
func (r *Request) Validate() error {
	if r.Pages == nil {
		return errors.New(errors.ErrCodeInvalidInput, "pages is required")
	}
	r.SetDefaults()

	if err := errors.ValidateFilename(r.OutputFilename); err != nil {
		return err
	}
	if !ValidColorModes[r.ColorMode] {
		return errors.New(errors.ErrCodeInvalidColorMode,
			"invalid color_mode: %q (must be one of: RGB, CMYK)", r.ColorMode)
	}
	if r.DPI < MinDPI || r.DPI > MaxDPI {
		return errors.New(errors.ErrCodeInvalidDPI,
			"invalid dpi: %d (must be between %d and %d)", r.DPI, MinDPI, MaxDPI)
	}
	if !ValidOrientations[r.Orientation] {
		return errors.New(errors.ErrCodeInvalidOrientation,
			"invalid orientation: %q (must be one of: portrait, landscape)", r.Orientation)
	}

	for i, p := range r.Pages {
		if err := p.validate(i); err != nil {
			return err
		}
	}
	return nil
}

func (p Page) validate(index int) error {
	if p.PageNumber < 1 {
		return errors.New(errors.ErrCodeInvalidPage,
			"pages[%d]: page_number must be >= 1, got %d", index, p.PageNumber)
	}
	if !ValidLayouts[p.Layout] {
		return errors.New(errors.ErrCodeInvalidLayout,
			"pages[%d]: invalid layout: %q (must be one of: grid, list, featured)", index, p.Layout)
	}
	for j, prod := range p.Products {
		if err := prod.validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidProduct, err, "pages[%d].products[%d]", index, j)
		}
	}
	return nil
}

func (p Product) validate() error {
	if p.ID == "" {
		return errors.New(errors.ErrCodeInvalidProduct, "id is required")
	}
	if p.Name == "" {
		return errors.New(errors.ErrCodeInvalidProduct, "name is required")
	}
	if p.Quantity < 1 {
		return errors.New(errors.ErrCodeInvalidProduct, "quantity must be >= 1, got %d", p.Quantity)
	}
	if p.Price != nil {
		if v := *p.Price; v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeInvalidProduct, "price must be a non-negative number")
		}
	}
	return nil
}
