package search

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestReporterFormatsMatches(t *testing.T) {
	results := NewUnbounded[SearchResult]()
	require.NoError(t, results.Push(ContentMatch("/tmp/notes.txt", 5)))
	require.NoError(t, results.Push(NameMatch("/tmp/hello")))
	results.Close()

	var out bytes.Buffer
	rep := newReporter(&out, zap.NewNop())
	rep.run(results)

	assert.Equal(t, "/tmp/notes.txt::5\n/tmp/hello\n", out.String())
}

func TestReporterLogsErrorsOffTheOutputStream(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	logger := zap.New(core)

	item := WorkItem{Path: "/tmp/gone", Query: "hello"}
	results := NewUnbounded[SearchResult]()
	require.NoError(t, results.Push(ErrorResult(IOf("open /tmp/gone: no such file"), item)))
	require.NoError(t, results.Push(NameMatch("/tmp/hello")))
	results.Close()

	var out bytes.Buffer
	rep := newReporter(&out, logger)
	rep.run(results)

	assert.Equal(t, "/tmp/hello\n", out.String(), "errors must never reach the output sink")

	entries := logs.FilterMessage("error while searching").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/tmp/gone", fields["path"])
	assert.Equal(t, "hello", fields["query"])
	assert.Equal(t, "file_io", fields["kind"])
}

func TestReporterExitsOnlyAfterClose(t *testing.T) {
	results := NewUnbounded[SearchResult]()
	var out bytes.Buffer
	rep := newReporter(&out, zap.NewNop())

	done := make(chan struct{})
	go func() {
		defer close(done)
		rep.run(results)
	}()

	require.NoError(t, results.Push(NameMatch("/a")))
	require.NoError(t, results.Push(NameMatch("/b")))
	results.Close()

	<-done
	assert.Equal(t, "/a\n/b\n", out.String())
}
