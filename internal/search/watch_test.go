package search

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

// syncBuffer guards an output buffer read while the watcher is still
// writing to it.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchScansNewFiles(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, "existing.txt"), "hello old friend")

	ctx, cancel := context.WithCancel(context.Background())
	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, tmp, "hello", Options{
			NumWorkers: 2,
			Output:     out,
			Logger:     zap.NewNop(),
			Mapper:     &readAllMapper{},
		})
	}()

	// The initial pass must find the existing file.
	initial := filepath.Join(tmp, "existing.txt") + "::5"
	waitForLine(t, out, initial)

	// A file created after the watch begins must be scanned too.
	created := filepath.Join(tmp, "late_hello.txt")
	writeFile(t, created, "hello again!")
	waitForLine(t, out, created+"::5")
	waitForLine(t, out, created) // name match: base name contains the query

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Watch failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not stop after cancellation")
	}
}

func TestWatchMissingRoot(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope"), "q", Options{
		Output: &syncBuffer{},
		Mapper: &readAllMapper{},
	})
	if err == nil {
		t.Fatal("expected an error for a missing root")
	}
}

func TestWatchPicksUpNewDirectories(t *testing.T) {
	tmp := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, tmp, "hello", Options{
			Output: out,
			Logger: zap.NewNop(),
			Mapper: &readAllMapper{},
		})
	}()

	// Give the watcher a moment to register the root.
	time.Sleep(100 * time.Millisecond)

	sub := filepath.Join(tmp, "hello")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}
	// The new directory's path ends with the query.
	waitForLine(t, out, sub)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not stop after cancellation")
	}
}

func waitForLine(t *testing.T, out *syncBuffer, line string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		for _, got := range strings.Split(out.String(), "\n") {
			if got == line {
				return
			}
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("never observed output line %q; output so far:\n%s", line, out.String())
}
