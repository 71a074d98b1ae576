package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// ErrCancelled is returned by a Picker when the user backs out of file
// selection. It is not an import failure.
var ErrCancelled = errors.New("file selection cancelled")

// Picker hands over the file the user chose to import.
type Picker interface {
	Pick(ctx context.Context) (io.ReadCloser, error)
}

// Notifier surfaces a message to the user.
type Notifier interface {
	Notify(title, body string)
}

// encodedPicker is implemented by pickers whose content arrives base64 encoded.
type encodedPicker interface {
	Base64Encoded() bool
}

// PathPicker opens a file that was already chosen, e.g. in the terminal file
// browser. An empty path means the user cancelled.
type PathPicker string

func (p PathPicker) Pick(context.Context) (io.ReadCloser, error) {
	if p == "" {
		return nil, ErrCancelled
	}

	f, err := os.Open(string(p))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", string(p), err)
	}

	return f, nil
}

// ReaderPicker serves content that is already in memory, such as an upload.
// A nil Reader means nothing was selected.
type ReaderPicker struct {
	Reader io.Reader
	Base64 bool
}

func (p ReaderPicker) Pick(context.Context) (io.ReadCloser, error) {
	if p.Reader == nil {
		return nil, ErrCancelled
	}

	if rc, ok := p.Reader.(io.ReadCloser); ok {
		return rc, nil
	}

	return io.NopCloser(p.Reader), nil
}

func (p ReaderPicker) Base64Encoded() bool {
	return p.Base64
}

// LogNotifier writes notifications to the default logger.
type LogNotifier struct{}

func (LogNotifier) Notify(title, body string) {
	slog.Warn(title, "message", body)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(title, body string)

func (f NotifierFunc) Notify(title, body string) {
	f(title, body)
}
