package filereader

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingFile struct {
	openErr error
	readErr error
}

func (failingFile) Name() string { return "broken.json" }

func (f failingFile) Open() (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}

	return io.NopCloser(errReader{err: f.readErr}), nil
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }

func TestReader_ReadMemFile(t *testing.T) {
	r := New()
	text, err := r.Read(context.Background(), NewMemFile("a.json", []byte(`{"a": 1}`)))
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, text)
}

func TestReader_ReadFSFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/scenarios/basel.yaml", []byte("scenarioName: basel\n"), 0o644))

	f := OpenFS(fs, "/scenarios/basel.yaml")
	assert.Equal(t, "basel.yaml", f.Name())

	size, err := f.Size()
	require.NoError(t, err)
	assert.Equal(t, int64(20), size)

	text, err := New().Read(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, "scenarioName: basel\n", text)
}

func TestReader_MissingFile(t *testing.T) {
	_, err := New().Read(context.Background(), OpenFS(afero.NewMemMapFs(), "/nope.json"))

	var rerr *ReadError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "nope.json", rerr.Name)
	assert.Contains(t, err.Error(), `read file "nope.json"`)
}

func TestReader_IOFailures(t *testing.T) {
	boom := errors.New("device unplugged")

	tests := []struct {
		name string
		file File
	}{
		{"open", failingFile{openErr: boom}},
		{"read", failingFile{readErr: boom}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := New().Read(context.Background(), tt.file)
			assert.Empty(t, text)

			var rerr *ReadError
			require.ErrorAs(t, err, &rerr)
			assert.ErrorIs(t, err, boom)
		})
	}
}

func TestReader_NilFile(t *testing.T) {
	_, err := New().Read(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNilFile)
}

func TestReader_SizeLimit(t *testing.T) {
	r := New(WithMaxSize(8))
	assert.Equal(t, int64(8), r.MaxSize())

	text, err := r.Read(context.Background(), NewMemFile("ok", []byte("12345678")))
	require.NoError(t, err)
	assert.Equal(t, "12345678", text)

	_, err = r.Read(context.Background(), NewMemFile("big", []byte("123456789")))
	assert.ErrorIs(t, err, ErrTooLarge)

	assert.Equal(t, DefaultMaxSize, New(WithMaxSize(0)).MaxSize())
}

func TestReader_Encodings(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"plain utf8", []byte("name: Zürich"), "name: Zürich"},
		{"utf8 bom", append([]byte{0xEF, 0xBB, 0xBF}, []byte("{}")...), "{}"},
		{"utf16 le bom", []byte{0xFF, 0xFE, '{', 0x00, '}', 0x00}, "{}"},
		{"utf16 be bom", []byte{0xFE, 0xFF, 0x00, '{', 0x00, '}'}, "{}"},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := New().Read(context.Background(), NewMemFile(tt.name, tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestReader_InvalidUTF8(t *testing.T) {
	_, err := New().Read(context.Background(), NewMemFile("latin1.txt", []byte{'Z', 0xFC, 'r', 'i', 'c', 'h'}))
	assert.ErrorIs(t, err, ErrInvalidEncoding)
	assert.True(t, strings.HasPrefix(err.Error(), `read file "latin1.txt"`))
}
