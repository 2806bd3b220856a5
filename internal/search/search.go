// Package search implements a parallel, streaming find+grep engine:
// a work queue drives tree traversal, a fixed worker pool scans file
// contents, and results stream through a single reporter.
package search

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/karrick/godirwalk"
	"go.uber.org/zap"
)

// Options configures a Searcher. The zero value is usable: stdout
// output, a nop logger, mmap-backed file contents, and the default
// worker count.
type Options struct {
	NumWorkers int         // worker goroutines scanning file contents
	Output     io.Writer   // match output sink
	Logger     *zap.Logger // error/debug sink; results never go here
	Mapper     FileMapper  // file-contents collaborator
}

func (o Options) withDefaults() Options {
	if o.NumWorkers < 1 {
		o.NumWorkers = DefaultWorkers
	}
	if o.Output == nil {
		o.Output = os.Stdout
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Mapper == nil {
		o.Mapper = MmapFiles{}
	}
	return o
}

// Searcher owns one traversal's shared state: the work queue, the
// result queue, and the worker pool. The dispatch loop is the queue's
// only consumer; results are consumed only by the reporter.
type Searcher struct {
	queue   *Unbounded[WorkItem]
	results *Unbounded[SearchResult]
	pool    *pool
	logger  *zap.Logger
	mapper  FileMapper
	scratch []byte // directory-read buffer, dispatch goroutine only

	// onDir, when set, observes every directory the dispatcher
	// expands. Watch mode uses it to grow the watch set.
	onDir func(path string)
}

// NewSearcher builds a Searcher and starts its worker pool.
func NewSearcher(opts Options) *Searcher {
	opts = opts.withDefaults()
	s := &Searcher{
		queue:   NewUnbounded[WorkItem](),
		results: NewUnbounded[SearchResult](),
		logger:  opts.Logger,
		mapper:  opts.Mapper,
		scratch: make([]byte, godirwalk.MinimumScratchBufferSize),
	}
	s.pool = newPool(opts.NumWorkers, s.scan)
	return s
}

// Run performs the full traversal/search/report pipeline rooted at
// root and returns only a failure to process the initial path;
// per-item failures during traversal are logged, never returned.
// Once the seed dispatch succeeds the search always runs to
// completion: queue exhaustion, then the pool-join barrier, then the
// reporter's final flush.
func Run(root, query string, opts Options) error {
	opts = opts.withDefaults()
	s := NewSearcher(opts)

	if err := s.dispatch(WorkItem{Path: root, Query: query}); err != nil {
		s.teardown()
		return err
	}

	var dispatcherWg sync.WaitGroup
	dispatcherWg.Add(1)
	go func() {
		defer dispatcherWg.Done()
		s.drain()
	}()

	rep := newReporter(opts.Output, opts.Logger)
	reporterDone := make(chan struct{})
	go func() {
		defer close(reporterDone)
		rep.run(s.results)
	}()

	s.logger.Debug("waiting for queries")
	dispatcherWg.Wait()
	s.logger.Debug("waiting for results")
	<-reporterDone
	return nil
}

// drain empties the work queue, then joins the pool and closes both
// queues. Directory expansion is synchronous within the dispatch of
// the item that discovered it, so an empty poll means no further
// items can appear: workers never produce work items.
func (s *Searcher) drain() {
	s.drainAvailable()
	s.pool.Join()
	s.teardown()
}

// drainAvailable dispatches items until the queue reads empty.
// Dispatch failures become Error results; no item is silently
// dropped.
func (s *Searcher) drainAvailable() {
	for {
		item, ok := s.queue.TryPop()
		if !ok {
			return
		}
		if err := s.dispatch(item); err != nil {
			s.send(ErrorResult(err, item), item)
		}
	}
}

// teardown stops the workers and closes both queues. Call only after
// every producer has finished.
func (s *Searcher) teardown() {
	s.pool.Shutdown()
	s.queue.Close()
	s.results.Close()
}

// dispatch classifies one work item: directories expand back into the
// work queue, files fan out to the worker pool.
func (s *Searcher) dispatch(item WorkItem) error {
	info, err := os.Stat(item.Path)
	if err != nil {
		return IOf("stat %s: %v", item.Path, err)
	}
	s.logger.Debug("dispatching", zap.String("path", item.Path), zap.Bool("dir", info.IsDir()))
	if info.IsDir() {
		return s.searchDir(item)
	}
	s.searchFile(item)
	return nil
}

// searchDir reports a name match when the directory's full path ends
// with the query, then re-enqueues every immediate child. Per-child
// enqueue failures aggregate into a single error for the directory;
// children already enqueued stay enqueued.
func (s *Searcher) searchDir(item WorkItem) error {
	if strings.HasSuffix(item.Path, item.Query) {
		s.send(NameMatch(item.Path), item)
	}
	if s.onDir != nil {
		s.onDir(item.Path)
	}

	dirents, err := godirwalk.ReadDirents(item.Path, s.scratch)
	if err != nil {
		return IOf("read dir %s: %v", item.Path, err)
	}

	pushed := make([]Result[struct{}], 0, len(dirents))
	for _, de := range dirents {
		child := WorkItem{Path: filepath.Join(item.Path, de.Name()), Query: item.Query}
		pushed = append(pushed, Result[struct{}]{Err: s.queue.Push(child)})
	}
	_, err = Lift(pushed)
	return err
}

// searchFile submits an asynchronous content scan, then checks the
// base name synchronously: a file name merely containing the query is
// a name match, unlike the suffix predicate used for directories.
func (s *Searcher) searchFile(item WorkItem) {
	s.pool.Submit(item)
	if strings.Contains(filepath.Base(item.Path), item.Query) {
		s.send(NameMatch(item.Path), item)
	}
}

// scan runs on a pool worker: map the file's bytes and stream a
// content match for every query occurrence. All failures flow out as
// Error results; the task returns nothing to the dispatcher.
func (s *Searcher) scan(item WorkItem) {
	f, err := os.Open(item.Path)
	if err != nil {
		s.send(ErrorResult(IOf("open %s: %v", item.Path, err), item), item)
		return
	}
	defer f.Close()

	data, release, err := s.mapper.Map(f)
	if err != nil {
		s.send(ErrorResult(IOf("map %s: %v", item.Path, err), item), item)
		return
	}
	defer func() {
		if err := release(); err != nil {
			s.logger.Warn("could not release mapping", zap.String("path", item.Path), zap.Error(err))
		}
	}()

	Scan(data, []byte(item.Query), func(end int) {
		s.send(ContentMatch(item.Path, end), item)
	})
}

// send pushes a result, converting a failed push into a Send error
// that is itself reported best-effort; if that fails too it is only
// logged. Send failures mean the reporter has already terminated.
func (s *Searcher) send(res SearchResult, item WorkItem) {
	err := s.results.Push(res)
	if err == nil {
		return
	}
	if res.Kind != ResultError {
		if retry := s.results.Push(ErrorResult(err, item)); retry == nil {
			return
		}
	}
	s.logger.Error("could not report result",
		zap.String("path", item.Path),
		zap.String("query", item.Query),
		zap.Error(err),
	)
}
