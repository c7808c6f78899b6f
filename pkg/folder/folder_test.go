package folder

import (
	"strings"
	"testing"

	"github.com/aanbieding/folder/pkg/errors"
)

func price(v float64) *float64 { return &v }

func validRequest() *Request {
	return &Request{
		Pages: []Page{
			{
				PageNumber: 1,
				Title:      "Featured Products",
				Products: []Product{
					{ID: "prod-001", Name: "Test Product", Price: price(99.99), Description: "A test product"},
				},
				Layout: LayoutGrid,
			},
		},
		OutputFilename: "test.pdf",
		ColorMode:      ColorRGB,
		DPI:            150,
	}
}

func TestSetDefaults(t *testing.T) {
	req := &Request{Pages: []Page{{Products: []Product{{ID: "a", Name: "A"}}}}}
	req.SetDefaults()

	if req.OutputFilename != DefaultOutputFilename {
		t.Errorf("OutputFilename = %q, want %q", req.OutputFilename, DefaultOutputFilename)
	}
	if req.ColorMode != ColorRGB {
		t.Errorf("ColorMode = %q, want %q", req.ColorMode, ColorRGB)
	}
	if req.DPI != DefaultDPI {
		t.Errorf("DPI = %d, want %d", req.DPI, DefaultDPI)
	}
	if req.Orientation != Portrait {
		t.Errorf("Orientation = %q, want %q", req.Orientation, Portrait)
	}
	p := req.Pages[0]
	if p.Layout != LayoutGrid {
		t.Errorf("Layout = %q, want %q", p.Layout, LayoutGrid)
	}
	if p.BackgroundColor != DefaultBackgroundColor {
		t.Errorf("BackgroundColor = %q, want %q", p.BackgroundColor, DefaultBackgroundColor)
	}
	if p.PageNumber != 1 {
		t.Errorf("PageNumber = %d, want 1", p.PageNumber)
	}
	if p.Products[0].Quantity != 1 {
		t.Errorf("Quantity = %d, want 1", p.Products[0].Quantity)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
		code   errors.Code
	}{
		{"valid", func(*Request) {}, ""},
		{"empty pages", func(r *Request) { r.Pages = []Page{} }, ""},
		{"nil pages", func(r *Request) { r.Pages = nil }, errors.ErrCodeInvalidInput},
		{"dpi too low", func(r *Request) { r.DPI = 71 }, errors.ErrCodeInvalidDPI},
		{"dpi too high", func(r *Request) { r.DPI = 601 }, errors.ErrCodeInvalidDPI},
		{"dpi lower bound", func(r *Request) { r.DPI = 72 }, ""},
		{"dpi upper bound", func(r *Request) { r.DPI = 600 }, ""},
		{"bad color mode", func(r *Request) { r.ColorMode = "rgb" }, errors.ErrCodeInvalidColorMode},
		{"cmyk", func(r *Request) { r.ColorMode = ColorCMYK }, ""},
		{"bad orientation", func(r *Request) { r.Orientation = "sideways" }, errors.ErrCodeInvalidOrientation},
		{"bad layout", func(r *Request) { r.Pages[0].Layout = "mosaic" }, errors.ErrCodeInvalidLayout},
		{"bad page number", func(r *Request) { r.Pages[0].PageNumber = -1 }, errors.ErrCodeInvalidPage},
		{"missing name", func(r *Request) { r.Pages[0].Products[0].Name = "" }, errors.ErrCodeInvalidProduct},
		{"missing id", func(r *Request) { r.Pages[0].Products[0].ID = "" }, errors.ErrCodeInvalidProduct},
		{"negative quantity", func(r *Request) { r.Pages[0].Products[0].Quantity = -2 }, errors.ErrCodeInvalidProduct},
		{"negative price", func(r *Request) { r.Pages[0].Products[0].Price = price(-1) }, errors.ErrCodeInvalidProduct},
		{"zero price", func(r *Request) { r.Pages[0].Products[0].Price = price(0) }, ""},
		{"unsafe filename", func(r *Request) { r.OutputFilename = "../x.pdf" }, errors.ErrCodeInvalidFilename},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			err := req.Validate()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate() error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	doc := `{
		"pages": [
			{"page_number": 1, "products": [{"id": "prod-001", "name": "Download Test", "price": 49.99}]}
		],
		"orientation": "landscape"
	}`
	req, err := Decode(strings.NewReader(doc), FormatJSON)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if req.Orientation != Landscape {
		t.Errorf("Orientation = %q, want %q", req.Orientation, Landscape)
	}
	p := req.Pages[0].Products[0]
	if !p.HasPrice() || *p.Price != 49.99 {
		t.Errorf("Price = %v, want 49.99", p.Price)
	}
	if p.Description != "" {
		t.Errorf("Description = %q, want empty", p.Description)
	}
}

func TestDecodeJSONUnknownField(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"pages": [], "colour_mode": "CMYK"}`), FormatJSON)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Decode() error = %v, want INVALID_INPUT", err)
	}
}

func TestDecodeYAML(t *testing.T) {
	doc := `
output_filename: spring.pdf
color_mode: CMYK
pages:
  - page_number: 1
    title: Spring
    layout: featured
    background_color: "#ffeecc"
    products:
      - id: a
        name: Garden Chair
        price: 19.995
        quantity: 4
      - id: b
        name: Parasol
`
	req, err := Decode(strings.NewReader(doc), FormatYAML)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if req.ColorMode != ColorCMYK {
		t.Errorf("ColorMode = %q, want CMYK", req.ColorMode)
	}
	if got := req.Pages[0].Layout; got != LayoutFeatured {
		t.Errorf("Layout = %q, want featured", got)
	}
	if got := req.ProductCount(); got != 2 {
		t.Errorf("ProductCount() = %d, want 2", got)
	}
	if got := req.Pages[0].Products[1].Quantity; got != 1 {
		t.Errorf("default Quantity = %d, want 1", got)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"req.json":  FormatJSON,
		"req.yaml":  FormatYAML,
		"req.YML":   FormatYAML,
		"req":       FormatJSON,
		"a/b/c.txt": FormatJSON,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestCanonicalStable(t *testing.T) {
	a := validRequest()
	b := validRequest()
	a.SetDefaults()
	b.SetDefaults()

	ca, err := a.Canonical()
	if err != nil {
		t.Fatalf("Canonical() error: %v", err)
	}
	cb, _ := b.Canonical()
	if string(ca) != string(cb) {
		t.Error("Canonical() differs for identical requests")
	}

	b.Pages[0].Products[0].Name = "Other"
	cb, _ = b.Canonical()
	if string(ca) == string(cb) {
		t.Error("Canonical() equal for different requests")
	}
}
