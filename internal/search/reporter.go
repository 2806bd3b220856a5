package search

import (
	"bufio"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// reporter is the single consumer of the result queue. Content
// matches print as "<path>::<offset>", name matches as "<path>";
// error results are logged with full context and never touch the
// output stream.
type reporter struct {
	out    *bufio.Writer
	logger *zap.Logger
}

func newReporter(out io.Writer, logger *zap.Logger) *reporter {
	return &reporter{out: bufio.NewWriter(out), logger: logger}
}

// run drains results until the queue is closed, then flushes the
// output a final time. It must only return after every producer has
// released the queue.
func (r *reporter) run(results *Unbounded[SearchResult]) {
	for {
		res, ok := results.Pop()
		if !ok {
			break
		}
		r.report(res)
	}
	if err := r.out.Flush(); err != nil {
		r.logger.Error("could not flush output", zap.Error(err))
	}
}

func (r *reporter) report(res SearchResult) {
	var err error
	switch res.Kind {
	case ResultContent:
		if _, err = fmt.Fprintf(r.out, "%s::%d\n", res.Path, res.Offset); err == nil {
			err = r.out.Flush()
		}
	case ResultName:
		if _, err = fmt.Fprintf(r.out, "%s\n", res.Path); err == nil {
			err = r.out.Flush()
		}
	case ResultError:
		r.logger.Error("error while searching",
			zap.String("path", res.Item.Path),
			zap.String("query", res.Item.Query),
			zap.Stringer("kind", KindOf(res.Err)),
			zap.Error(res.Err),
		)
	}
	if err != nil {
		r.logger.Error("error while reporting result",
			zap.String("path", res.Path),
			zap.Error(err),
		)
	}
}
