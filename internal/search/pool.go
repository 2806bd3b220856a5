package search

import "sync"

// DefaultWorkers is the worker count used when none is configured.
const DefaultWorkers = 16

// pool runs scan tasks on a fixed set of worker goroutines. Tasks are
// independent, share no mutable state, and communicate only through
// the result queue: submission is fire-and-forget and Join is purely
// a completion barrier, never a result-collection point.
type pool struct {
	tasks     chan WorkItem
	tasksWg   sync.WaitGroup
	workersWg sync.WaitGroup
}

// newPool starts n workers, each executing run for every submitted
// item.
func newPool(n int, run func(WorkItem)) *pool {
	if n < 1 {
		n = DefaultWorkers
	}
	p := &pool{tasks: make(chan WorkItem, n)}
	for i := 0; i < n; i++ {
		p.workersWg.Add(1)
		go func() {
			defer p.workersWg.Done()
			for item := range p.tasks {
				run(item)
				p.tasksWg.Done()
			}
		}()
	}
	return p
}

// Submit hands item to the pool. It may block briefly on the task
// channel but never waits for the task to execute.
func (p *pool) Submit(item WorkItem) {
	p.tasksWg.Add(1)
	p.tasks <- item
}

// Join blocks until every submitted task has finished. The pool stays
// usable afterwards.
func (p *pool) Join() {
	p.tasksWg.Wait()
}

// Shutdown stops the workers after the pending tasks drain.
func (p *pool) Shutdown() {
	close(p.tasks)
	p.workersWg.Wait()
}
