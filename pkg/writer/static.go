package writer

import (
	"context"
	"io"

	"github.com/aanbieding/folder/pkg/core/plan"
)

// Static returns a writer that ignores the plan and emits data verbatim.
// It replays cached artifacts through WriteFile.
func Static(format Format, data []byte) Writer {
	return staticWriter{format: format, data: data}
}

type staticWriter struct {
	format Format
	data   []byte
}

func (s staticWriter) Format() Format { return s.format }

func (s staticWriter) Render(ctx context.Context, _ *plan.Plan, _ Options, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := w.Write(s.data)
	return err
}
