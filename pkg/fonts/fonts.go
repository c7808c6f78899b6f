// Package fonts provides the embedded font faces used by the raster and
// vector writers.
//
// The Go fonts ship inside golang.org/x/image, so they are available without
// any system font installation. Sources are parsed once on first use.
package fonts

import (
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// FontFamily is the CSS font-family name written into SVG output.
const FontFamily = "Go"

// FallbackFontFamily lists fallbacks for viewers without the Go fonts.
const FallbackFontFamily = `'Go', Helvetica, Arial, sans-serif`

var (
	regular     *text.FontSource
	regularErr  error
	regularOnce sync.Once

	bold     *text.FontSource
	boldErr  error
	boldOnce sync.Once
)

// Regular returns the parsed Go Regular font source.
func Regular() (*text.FontSource, error) {
	regularOnce.Do(func() {
		regular, regularErr = text.NewFontSource(goregular.TTF)
	})
	return regular, regularErr
}

// Bold returns the parsed Go Bold font source.
func Bold() (*text.FontSource, error) {
	boldOnce.Do(func() {
		bold, boldErr = text.NewFontSource(gobold.TTF)
	})
	return bold, boldErr
}

// Face returns a face of the given size from the regular or bold source.
func Face(isBold bool, size float64) (text.Face, error) {
	src, err := Regular()
	if isBold {
		src, err = Bold()
	}
	if err != nil {
		return nil, err
	}
	return src.Face(size), nil
}
