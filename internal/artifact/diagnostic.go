// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package artifact

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/powerdms-catalog/internal/catalog"
)

// Diagnostic file names.
const (
	MalformedResponseFile = "error_response.html"
	UnexpectedShapeFile   = "debug.json"
)

// WriteDiagnostic saves the payload carried by a fetch error into dir: the
// raw body for a malformed response, the indented JSON for an unexpected
// shape. Other errors are ignored and yield an empty path.
func WriteDiagnostic(dir string, err error) (string, error) {
	if dir == "" {
		dir = "."
	}

	var (
		malformed *catalog.ErrMalformedResponse
		shape     *catalog.ErrUnexpectedShape
		name      string
		data      []byte
	)
	switch {
	case errors.As(err, &malformed):
		name, data = MalformedResponseFile, malformed.Body
	case errors.As(err, &shape):
		name = UnexpectedShapeFile
		var buf bytes.Buffer
		if json.Indent(&buf, shape.Body, "", "  ") == nil {
			buf.WriteByte('\n')
			data = buf.Bytes()
		} else {
			data = shape.Body
		}
	default:
		return "", nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", p, err)
	}
	return p, nil
}
