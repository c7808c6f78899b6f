// Package folder defines the document request model for catalog folders.
//
// A folder is a multi-page product catalog. Requests arrive as JSON (HTTP API)
// or JSON/YAML files (CLI) and are decoded into a [Request], defaulted with
// [Request.SetDefaults] and checked with [Request.Validate] before they reach
// the layout core. The core treats a validated request as read-only.
//
// # Example
//
//	req, err := folder.DecodeFile("spring.yaml")
//	if err != nil {
//	    return err
//	}
//	if err := req.Validate(); err != nil {
//	    return err
//	}
package folder

// LayoutMode selects the page layout strategy for a page's products.
type LayoutMode string

const (
	LayoutGrid     LayoutMode = "grid"
	LayoutList     LayoutMode = "list"
	LayoutFeatured LayoutMode = "featured"
)

// ColorMode is the color space requested for the final artifact.
type ColorMode string

const (
	ColorRGB  ColorMode = "RGB"
	ColorCMYK ColorMode = "CMYK"
)

// Orientation is the physical page orientation.
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// Defaults applied by SetDefaults.
const (
	DefaultOutputFilename  = "aanbieding.pdf"
	DefaultBackgroundColor = "white"
	DefaultDPI             = 300
	MinDPI                 = 72
	MaxDPI                 = 600
)

// Product is one catalog entry on a page.
type Product struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Price       *float64 `json:"price,omitempty" yaml:"price,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	ImageURL    string   `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	Quantity    int      `json:"quantity,omitempty" yaml:"quantity,omitempty"`
}

// HasPrice reports whether the product carries a price.
func (p Product) HasPrice() bool { return p.Price != nil }

// Page is one logical page of the folder.
type Page struct {
	PageNumber      int        `json:"page_number" yaml:"page_number"`
	Title           string     `json:"title,omitempty" yaml:"title,omitempty"`
	Products        []Product  `json:"products" yaml:"products"`
	Layout          LayoutMode `json:"layout,omitempty" yaml:"layout,omitempty"`
	BackgroundColor string     `json:"background_color,omitempty" yaml:"background_color,omitempty"`
}

// Request is the complete input for one folder generation.
type Request struct {
	Pages          []Page      `json:"pages" yaml:"pages"`
	OutputFilename string      `json:"output_filename,omitempty" yaml:"output_filename,omitempty"`
	ColorMode      ColorMode   `json:"color_mode,omitempty" yaml:"color_mode,omitempty"`
	DPI            int         `json:"dpi,omitempty" yaml:"dpi,omitempty"`
	Orientation    Orientation `json:"orientation,omitempty" yaml:"orientation,omitempty"`
}

// ProductCount returns the number of products across all pages.
func (r *Request) ProductCount() int {
	n := 0
	for _, p := range r.Pages {
		n += len(p.Products)
	}
	return n
}

// SetDefaults fills unset optional fields with their documented defaults.
// It is idempotent.
func (r *Request) SetDefaults() {
	if r.OutputFilename == "" {
		r.OutputFilename = DefaultOutputFilename
	}
	if r.ColorMode == "" {
		r.ColorMode = ColorRGB
	}
	if r.DPI == 0 {
		r.DPI = DefaultDPI
	}
	if r.Orientation == "" {
		r.Orientation = Portrait
	}
	for i := range r.Pages {
		p := &r.Pages[i]
		if p.PageNumber == 0 {
			p.PageNumber = i + 1
		}
		if p.Layout == "" {
			p.Layout = LayoutGrid
		}
		if p.BackgroundColor == "" {
			p.BackgroundColor = DefaultBackgroundColor
		}
		for j := range p.Products {
			if p.Products[j].Quantity == 0 {
				p.Products[j].Quantity = 1
			}
		}
	}
}
