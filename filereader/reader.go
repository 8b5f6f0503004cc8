// Package filereader turns a single user-supplied file handle into UTF-8 text.
//
// A [Reader] makes exactly one attempt per call and never returns partial
// content: any I/O, size or decoding problem is reported as a [*ReadError].
// Input with a UTF-8 byte order mark has it removed; UTF-16 input with a byte
// order mark is transcoded to UTF-8.
package filereader

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultMaxSize is the largest file a Reader accepts unless configured otherwise.
const DefaultMaxSize int64 = 10 << 20

var (
	// ErrTooLarge is returned when a file exceeds the configured size limit.
	ErrTooLarge = errors.New("file exceeds size limit")

	// ErrInvalidEncoding is returned when content is not valid UTF-8 (or BOM-marked UTF-16).
	ErrInvalidEncoding = errors.New("file is not valid UTF-8 text")

	// ErrNilFile is returned when Read is called without a file.
	ErrNilFile = errors.New("no file given")
)

// File is a readable, named file handle.
type File interface {
	// Name returns the file name as presented to the user.
	Name() string
	// Open returns a fresh reader over the file contents.
	Open() (io.ReadCloser, error)
}

// ReadError reports a failed read of a single file.
type ReadError struct {
	Name string
	Err  error
}

func (e *ReadError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Name == "" {
		return fmt.Sprintf("read file: %v", e.Err)
	}

	return fmt.Sprintf("read file %q: %v", e.Name, e.Err)
}

func (e *ReadError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.Err
}

// Reader reads whole files as text.
type Reader struct {
	maxSize int64
}

// Option configures a Reader.
type Option func(*Reader)

// WithMaxSize sets the size limit in bytes. Values <= 0 keep the default.
func WithMaxSize(n int64) Option {
	return func(r *Reader) {
		if n > 0 {
			r.maxSize = n
		}
	}
}

// New creates a Reader.
func New(opts ...Option) *Reader {
	r := &Reader{maxSize: DefaultMaxSize}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// MaxSize returns the configured size limit in bytes.
func (r *Reader) MaxSize() int64 {
	return r.maxSize
}

// Read returns the full content of f as UTF-8 text.
func (r *Reader) Read(_ context.Context, f File) (string, error) {
	if f == nil {
		return "", &ReadError{Err: ErrNilFile}
	}

	raw, err := r.readAll(f)
	if err != nil {
		return "", &ReadError{Name: f.Name(), Err: err}
	}

	text, err := decodeText(raw)
	if err != nil {
		return "", &ReadError{Name: f.Name(), Err: err}
	}

	return text, nil
}

func (r *Reader) readAll(f File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = rc.Close() }()

	// one extra byte distinguishes "exactly at the limit" from "over it"
	data, err := io.ReadAll(io.LimitReader(rc, r.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if int64(len(data)) > r.maxSize {
		return nil, fmt.Errorf("%w (%d bytes)", ErrTooLarge, r.maxSize)
	}

	return data, nil
}

// decodeText validates UTF-8, strips a UTF-8 BOM and transcodes BOM-marked UTF-16.
func decodeText(raw []byte) (string, error) {
	decoder := unicode.BOMOverride(encoding.UTF8Validator)
	out, _, err := transform.Bytes(decoder, raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}

	return string(out), nil
}
