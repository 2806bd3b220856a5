package search

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Watch performs a full search of root, then keeps watching the tree:
// created or modified files are re-searched (content and name), and
// created directories join the watch set and are searched in full.
// It returns after ctx is canceled and every outstanding scan has
// drained, or immediately with a startup error when the watcher or
// the initial search cannot begin.
func Watch(ctx context.Context, root, query string, opts Options) error {
	opts = opts.withDefaults()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return Startupf("could not create watcher: %v", err)
	}
	defer watcher.Close()

	s := NewSearcher(opts)
	s.onDir = func(path string) {
		if err := watcher.Add(path); err != nil {
			s.logger.Warn("could not watch directory", zap.String("path", path), zap.Error(err))
		}
	}

	if err := s.dispatch(WorkItem{Path: root, Query: query}); err != nil {
		s.teardown()
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	rep := newReporter(opts.Output, opts.Logger)
	g.Go(func() error {
		rep.run(s.results)
		return nil
	})

	g.Go(func() error {
		defer s.finishWatch()
		s.drainAvailable()
		for {
			select {
			case <-gctx.Done():
				return nil
			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
					continue
				}
				s.logger.Debug("filesystem event", zap.String("path", ev.Name), zap.Stringer("op", ev.Op))
				if err := s.queue.Push(WorkItem{Path: ev.Name, Query: query}); err != nil {
					s.logger.Error("could not enqueue changed path", zap.String("path", ev.Name), zap.Error(err))
					continue
				}
				s.drainAvailable()
			case werr, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				s.logger.Warn("watch error", zap.Error(werr))
			}
		}
	})

	return g.Wait()
}

// finishWatch drains whatever is still queued, waits out the pool,
// and closes both queues so the reporter can finish.
func (s *Searcher) finishWatch() {
	s.drainAvailable()
	s.pool.Join()
	s.teardown()
}
