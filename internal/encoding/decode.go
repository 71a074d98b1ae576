package encoding

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

// Decode reads a whole uploaded file and returns its text as trimmed UTF-8.
// Clients that can only ship file contents as base64 (mobile file APIs, JSON
// bodies) set base64Encoded; the payload is decoded before charset detection.
func Decode(r io.Reader, base64Encoded bool) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}

	if base64Encoded {
		raw, err = base64.StdEncoding.DecodeString(string(bytes.TrimSpace(raw)))
		if err != nil {
			return "", fmt.Errorf("decode base64: %w", err)
		}
	}

	utf8r, _, err := NewUTF8Reader(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("detect encoding: %w", err)
	}

	text, err := io.ReadAll(utf8r)
	if err != nil {
		return "", fmt.Errorf("decode text: %w", err)
	}

	return strings.TrimSpace(string(text)), nil
}
