package layout

// Region is a rectangle in page-local millimetres. Y grows downwards from
// the top edge of the physical page.
type Region struct {
	X, Y          float64
	Width, Height float64
}

// Right returns the x coordinate of the right edge.
func (r Region) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Region) Bottom() float64 { return r.Y + r.Height }

// Inset shrinks the region by d on every side. The result never has a
// negative size.
func (r Region) Inset(d float64) Region {
	out := Region{X: r.X + d, Y: r.Y + d, Width: r.Width - 2*d, Height: r.Height - 2*d}
	if out.Width < 0 {
		out.Width = 0
	}
	if out.Height < 0 {
		out.Height = 0
	}
	return out
}

// Bounds describes a physical page and its uniform margin.
type Bounds struct {
	Width, Height float64
	Margin        float64
}

// A4 page dimensions and the default margin, in millimetres.
const (
	A4Width       = 210.0
	A4Height      = 297.0
	DefaultMargin = 20.0
)

// A4 returns A4 bounds in portrait or, when landscape is set, landscape.
func A4(landscape bool) Bounds {
	if landscape {
		return Bounds{Width: A4Height, Height: A4Width, Margin: DefaultMargin}
	}
	return Bounds{Width: A4Width, Height: A4Height, Margin: DefaultMargin}
}

// Top is the first usable y coordinate.
func (b Bounds) Top() float64 { return b.Margin }

// Bottom is the last usable y coordinate.
func (b Bounds) Bottom() float64 { return b.Height - b.Margin }

// Left is the first usable x coordinate.
func (b Bounds) Left() float64 { return b.Margin }

// ContentWidth is the usable width between the side margins.
func (b Bounds) ContentWidth() float64 { return b.Width - 2*b.Margin }
