package folder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aanbieding/folder/pkg/errors"
)

// Format is the serialization of a request document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the request format from a file extension.
// Unknown extensions are read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode reads a request document. Unknown JSON fields are rejected so
// typos in field names surface instead of silently falling back to defaults.
func Decode(r io.Reader, format Format) (*Request, error) {
	var req Request
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&req); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode yaml request")
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json request")
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported request format: %q", format)
	}
	return &req, nil
}

// DecodeFile reads a request from path, choosing the format by extension.
func DecodeFile(path string) (*Request, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f, FormatFromPath(path))
}

// Canonical returns a stable JSON encoding of the request, used for
// content hashing. Call SetDefaults first so equivalent requests hash equal.
func (r *Request) Canonical() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
