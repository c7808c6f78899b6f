package writer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/aanbieding/folder/pkg/core/plan"
	"github.com/aanbieding/folder/pkg/errors"
)

// WriteFile renders p into dst. The artifact is written to a temporary file
// in the destination directory and renamed into place, so a failed or
// cancelled write never leaves a partial file behind.
func WriteFile(ctx context.Context, w Writer, p *plan.Plan, opts Options, dst string) error {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeWriterFailed, err, "create output directory")
	}

	tmp, err := os.CreateTemp(dir, ".folder-*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriterFailed, err, "create temp file")
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if err := w.Render(ctx, p, opts, tmp); err != nil {
		_ = tmp.Close()
		cleanup()
		if errors.GetCode(err) != "" {
			return err
		}
		return errors.Wrap(errors.ErrCodeWriterFailed, err, "%s writer", w.Format())
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return errors.Wrap(errors.ErrCodeWriterFailed, err, "close temp file")
	}
	if err := ctx.Err(); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		cleanup()
		return errors.Wrap(errors.ErrCodeWriterFailed, err, "move artifact into place")
	}
	return nil
}

// Bytes renders p into memory.
func Bytes(ctx context.Context, w Writer, p *plan.Plan, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := w.Render(ctx, p, opts, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
