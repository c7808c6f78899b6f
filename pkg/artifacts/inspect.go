package artifacts

import (
	"os"
	"strings"

	"github.com/tsawler/tabula"

	"github.com/aanbieding/folder/pkg/errors"
)

// Summary describes a generated PDF.
type Summary struct {
	Path     string   `json:"path"`
	Size     int64    `json:"size"`
	Pages    int      `json:"pages"`
	Footers  []string `json:"footers,omitempty"`
	Warnings int      `json:"warnings,omitempty"`
	Text     string   `json:"-"`
}

// Inspect reads a PDF artifact back and reports its page count, text and
// the "Page n of N" footers found in it.
func Inspect(path string) (*Summary, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "artifact %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "stat %s", path)
	}

	ext := tabula.Open(path)
	defer ext.Close()

	pages, err := ext.PageCount()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "count pages in %s", path)
	}
	text, warnings, err := ext.Text()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "extract text from %s", path)
	}

	return &Summary{
		Path:     path,
		Size:     info.Size(),
		Pages:    pages,
		Footers:  footers(text),
		Warnings: len(warnings),
		Text:     text,
	}, nil
}

func footers(text string) []string {
	var out []string
	for line := range strings.Lines(text) {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "Page ") && strings.Contains(line, " of ") {
			out = append(out, line)
		}
	}
	return out
}
