package writer

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/gg/text"

	"github.com/aanbieding/folder/pkg/core/card"
	"github.com/aanbieding/folder/pkg/fonts"
)

// lineSpacing is the line height as a multiple of the font size.
const lineSpacing = 1.2

// mm converts a point size to millimetres.
func mm(pt float64) float64 { return pt * 25.4 / 72 }

// lines splits a text block into the lines a writer should draw. Wrapped
// blocks are broken to the block width using the Go font metrics, measured
// in millimetres; other blocks are a single line.
func lines(t card.Text) []string {
	if !t.Wrap || t.Width <= 0 {
		return []string{t.Content}
	}
	face, err := fonts.Face(t.Bold, mm(t.Size))
	if err != nil {
		return []string{t.Content}
	}
	wrapped := text.WrapText(t.Content, face, t.Width, text.WrapWordChar)
	if len(wrapped) == 0 {
		return []string{t.Content}
	}
	out := make([]string, len(wrapped))
	for i, w := range wrapped {
		out[i] = strings.TrimRight(w.Text, " ")
	}
	return out
}

// imageExtensions are the image types every backend can embed.
var imageExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true}

// localImage resolves an image reference to a readable local file. Remote
// references are not fetched; writers draw a placeholder for them.
func localImage(ref string) (string, bool) {
	path := ref
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" {
		if u.Scheme != "file" {
			return "", false
		}
		path = u.Path
	}
	if !imageExtensions[strings.ToLower(filepath.Ext(path))] {
		return "", false
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}
