package dictionary

import (
	"context"
	"fmt"
	"os"
)

// Domain identifies one of the two independent dictionaries.
type Domain string

const (
	Degrees       Domain = "degrees"
	Eligibilities Domain = "eligibilities"
)

// Source supplies the raw bytes of one dictionary document.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]byte, error)
}

// FileSource reads a dictionary document from disk.
type FileSource struct {
	Path string
}

// Name implements Source.
func (s FileSource) Name() string {
	return "file:" + s.Path
}

// Load implements Source.
func (s FileSource) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary file %s: %w", s.Path, err)
	}
	return data, nil
}

// BytesSource serves an in-memory document. A non-nil Err is returned from Load.
type BytesSource struct {
	Label string
	Data  []byte
	Err   error
}

// Name implements Source.
func (s BytesSource) Name() string {
	if s.Label == "" {
		return "memory"
	}
	return s.Label
}

// Load implements Source.
func (s BytesSource) Load(_ context.Context) ([]byte, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Data, nil
}
