package pipeline

import (
	"fmt"
	"io"
	"os"
)

// Reader acquires the raw trace blob. The whole trace is held in memory as
// one unit before parsing begins; a run's console output is small enough
// that streaming would buy nothing.
type Reader struct {
	maxBytes int64
	stdin    io.Reader
}

// NewReader creates a new reader with the given size cap
func NewReader(maxBytes int64) *Reader {
	return &Reader{maxBytes: maxBytes, stdin: os.Stdin}
}

// Read returns the trace content from the given file, or from STDIN when
// path is empty or "-".
func (r *Reader) Read(path string) (string, error) {
	if path == "" || path == "-" {
		return r.readAll(r.stdin, "stdin")
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open trace: %w", err)
	}
	defer func() { _ = f.Close() }()

	return r.readAll(f, path)
}

func (r *Reader) readAll(src io.Reader, name string) (string, error) {
	data, err := io.ReadAll(io.LimitReader(src, r.maxBytes))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(data), nil
}
