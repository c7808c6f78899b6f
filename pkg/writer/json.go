package writer

import (
	"context"
	"encoding/json"
	"io"

	"github.com/aanbieding/folder/pkg/core/plan"
)

// JSON writes the render plan itself.
type JSON struct{}

// NewJSON creates a JSON writer.
func NewJSON() *JSON { return &JSON{} }

// Format implements Writer.
func (*JSON) Format() Format { return FormatJSON }

// Render implements Writer.
func (*JSON) Render(ctx context.Context, p *plan.Plan, _ Options, out io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(p)
}

var _ Writer = (*JSON)(nil)
