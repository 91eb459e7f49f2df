package fennecs

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// jobChunk is one worker's slice of one binding's rows. Pooled so a Job with many small
// archetypes does not allocate a descriptor per chunk on every call.
type jobChunk struct {
	binding binding
	start   int
	end     int
}

var jobChunkPool = sync.Pool{New: func() any { return new(jobChunk) }}

// Job runs action over every row of every matching binding in parallel, using
// runtime.GOMAXPROCS(0) workers. Rows are partitioned per-archetype into chunks of
// max(1, total/concurrency) rows, where total is the row count summed over every binding; a
// chunk never spans two bindings. Each chunk runs on its own goroutine via errgroup. Values passed
// to action alias live storage, the same as For; a chunk boundary never splits a row, so two
// workers never touch the same element.
func (q *Query) Job(action func(e EntityId, values []any)) error {
	return q.JobWithConcurrency(action, runtime.GOMAXPROCS(0))
}

// JobWithUniform is Job, additionally passing uniform to every call.
func (q *Query) JobWithUniform(action func(e EntityId, values []any, uniform any), uniform any) error {
	return q.JobWithConcurrencyAndUniform(action, runtime.GOMAXPROCS(0), uniform)
}

// JobWithConcurrency is Job with an explicit worker count.
func (q *Query) JobWithConcurrency(action func(e EntityId, values []any), concurrency int) error {
	return q.JobWithConcurrencyAndUniform(func(e EntityId, values []any, _ any) {
		action(e, values)
	}, concurrency, nil)
}

// JobWithConcurrencyAndUniform is JobWithConcurrency, additionally passing uniform to every
// call.
func (q *Query) JobWithConcurrencyAndUniform(action func(e EntityId, values []any, uniform any), concurrency int, uniform any) error {
	if concurrency < 1 {
		concurrency = 1
	}
	q.world.beginIteration()
	defer q.world.endIteration()

	bindings := q.bindings()
	total := 0
	for _, b := range bindings {
		total += b.archetype.Count()
	}
	if total == 0 {
		return nil
	}

	chunkSize := total / concurrency
	if chunkSize < 1 {
		chunkSize = 1
	}

	var chunks []*jobChunk
	for _, b := range bindings {
		n := b.archetype.Count()
		for start := 0; start < n; start += chunkSize {
			end := start + chunkSize
			if end > n {
				end = n
			}
			c := jobChunkPool.Get().(*jobChunk)
			c.binding, c.start, c.end = b, start, end
			chunks = append(chunks, c)
		}
	}

	g, _ := errgroup.WithContext(context.Background())
	for _, c := range chunks {
		c := c
		g.Go(func() error {
			defer jobChunkPool.Put(c)
			entities := c.binding.archetype.Entities()
			values := make([]any, len(c.binding.columns))
			for row := c.start; row < c.end; row++ {
				for i, col := range c.binding.columns {
					values[i] = col.Addr(row)
				}
				action(entities[row], values, uniform)
			}
			return nil
		})
	}
	return g.Wait()
}
