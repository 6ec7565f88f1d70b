package storage

import (
	"context"
	"errors"
	"io"
)

var ErrInvalidPath = errors.New("invalid report path")

// ReportStore keeps rendered report files such as roster workbooks.
type ReportStore interface {
	// Save writes content under name and returns where it was stored.
	Save(ctx context.Context, name string, content io.Reader) (string, error)

	// Open retrieves a stored report.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// Exists checks if a report was stored under name.
	Exists(ctx context.Context, name string) (bool, error)
}
