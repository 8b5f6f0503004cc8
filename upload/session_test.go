package upload

import (
	"context"
	"errors"
	"testing"

	"github.com/arloliu/epiload/filereader"
	"github.com/arloliu/epiload/scenario"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSession_EmptyDocument(t *testing.T) {
	s := NewSession(NewPipeline(&recordingSink{}))

	err := s.Drop(context.Background(), []filereader.File{filereader.NewMemFile("a.json", []byte("{}"))}, nil)
	require.NoError(t, err)
	assert.Equal(t, emptyDocumentMessages, s.Errors())
	assert.Equal(t, StateFailed, s.State())
}

func TestSession_TooManyFiles(t *testing.T) {
	sink := &recordingSink{}
	s := NewSession(NewPipeline(sink))

	require.NoError(t, s.Drop(context.Background(), memFiles(2), nil))
	assert.Equal(t, []string{MessageTooManyFiles}, s.Errors())
	assert.Empty(t, sink.Calls())
}

func TestSession_ListLifecycle(t *testing.T) {
	sink := &recordingSink{}
	s := NewSession(NewPipeline(sink))
	ctx := context.Background()

	// each attempt starts from an empty list
	require.NoError(t, s.Drop(ctx, []filereader.File{fixture(t, "invalid.json")}, nil))
	assert.Len(t, s.Errors(), 2)
	require.NoError(t, s.Drop(ctx, []filereader.File{fixture(t, "invalid.json")}, nil))
	assert.Len(t, s.Errors(), 2)

	// success clears
	require.NoError(t, s.Drop(ctx, []filereader.File{fixture(t, "basel.json")}, nil))
	assert.Empty(t, s.Errors())
	assert.Equal(t, StateSuccess, s.State())
	assert.Equal(t, []string{"state", "severity", "close"}, sink.Calls())
}

func TestSession_UnrecognizedErrorIsReturned(t *testing.T) {
	boom := errors.New("unexpected")
	p := NewPipeline(&recordingSink{}, WithDeserializer(DeserializerFunc(func(string) (*scenario.Bundle, error) {
		return nil, boom
	})))
	s := NewSession(p)

	err := s.Drop(context.Background(), []filereader.File{fixture(t, "basel.json")}, nil)
	assert.Same(t, boom, err)
	assert.Empty(t, s.Errors())
}

func TestSession_BoundedList(t *testing.T) {
	s := NewSession(NewPipeline(&recordingSink{}), WithMaxErrors(3))

	require.NoError(t, s.Drop(context.Background(), []filereader.File{filereader.NewMemFile("a.json", []byte("{}"))}, nil))
	assert.Equal(t, emptyDocumentMessages[1:], s.Errors())
	assert.Equal(t, 1, s.Dropped())

	require.NoError(t, s.Drop(context.Background(), []filereader.File{fixture(t, "basel.json")}, nil))
	assert.Zero(t, s.Dropped())
}

func TestSession_LogsWarning(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	s := NewSession(NewPipeline(&recordingSink{}), WithSessionLogger(zap.New(core)))

	require.NoError(t, s.Drop(context.Background(), []filereader.File{fixture(t, "invalid.json")}, nil))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "scenario upload failed\n"+
		"- scenario.population.hospitalBeds: must be at least 0\n"+
		"- severity[2].fatal: must be at most 100", entries[0].Message)
	assert.Equal(t, "validation", entries[0].ContextMap()["kind"])
}

func TestErrorList(t *testing.T) {
	l := NewErrorList(0)
	l.Append("a")
	assert.Equal(t, []string{"a"}, l.Items())

	l = NewErrorList(2)
	l.Append("a", "b")
	l.Append("c")
	assert.Equal(t, []string{"b", "c"}, l.Items())
	assert.Equal(t, 1, l.Dropped())
	assert.Equal(t, 2, l.Len())

	items := l.Items()
	items[0] = "mutated"
	assert.Equal(t, []string{"b", "c"}, l.Items())

	l.Reset()
	assert.Empty(t, l.Items())
	assert.Zero(t, l.Dropped())
}

func TestDashList(t *testing.T) {
	assert.Equal(t, "", dashList(nil))
	assert.Equal(t, "- a\n- b", dashList([]string{"a", "b"}))
}
