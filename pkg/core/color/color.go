// Package color parses color specifications into 8-bit RGB triples.
//
// Only the 6-digit hex form ("#RRGGBB" or "RRGGBB") is understood. Named
// colors and every other form are unparseable; callers treat that as "no
// fill" rather than as an error of the request.
package color

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrUnparseable is returned by Parse for any spec outside the hex form.
var ErrUnparseable = errors.New("unparseable color")

// RGB8 is an opaque color with 8-bit channels.
type RGB8 struct {
	R, G, B uint8
}

// CMYK is a device color with each channel in percent (0–100).
type CMYK struct {
	C, M, Y, K uint8
}

// Parse decodes a 6-hex-digit spec with an optional leading '#'.
func Parse(spec string) (RGB8, error) {
	hex := strings.TrimPrefix(spec, "#")
	if len(hex) != 6 {
		return RGB8{}, fmt.Errorf("%w: %q", ErrUnparseable, spec)
	}
	var ch [3]uint8
	for i := range ch {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return RGB8{}, fmt.Errorf("%w: %q", ErrUnparseable, spec)
		}
		ch[i] = uint8(v)
	}
	return RGB8{R: ch[0], G: ch[1], B: ch[2]}, nil
}

// MustParse is like Parse but panics on failure. Intended for constants.
func MustParse(spec string) RGB8 {
	c, err := Parse(spec)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex returns the color as "#rrggbb".
func (c RGB8) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Floats returns the channels scaled to [0, 1].
func (c RGB8) Floats() (r, g, b float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255
}

// CMYK converts to device CMYK with the naive (profile-free) formula
// K = 1 - max(R,G,B), C = (1-R-K)/(1-K) and so on, rounded to whole percent.
func (c RGB8) CMYK() CMYK {
	r, g, b := c.Floats()
	k := 1 - math.Max(r, math.Max(g, b))
	if k >= 1 {
		return CMYK{K: 100}
	}
	pct := func(v float64) uint8 {
		return uint8(math.Round((1 - v - k) / (1 - k) * 100))
	}
	return CMYK{C: pct(r), M: pct(g), Y: pct(b), K: uint8(math.Round(k * 100))}
}

// String formats the CMYK color for diagnostics and spot color names.
func (c CMYK) String() string {
	return fmt.Sprintf("cmyk(%d,%d,%d,%d)", c.C, c.M, c.Y, c.K)
}
