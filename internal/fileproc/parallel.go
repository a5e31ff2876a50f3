// Package fileproc provides concurrent per-file processing utilities.
package fileproc

import (
	"runtime"
	"sync"

	"github.com/sourcegraph/conc/pool"
)

// DefaultWorkerMultiplier is the multiplier applied to NumCPU for the
// worker count. 2x suits mixed I/O and CGO workloads.
const DefaultWorkerMultiplier = 2

// ProgressFunc is called after each item is processed.
type ProgressFunc func()

// ErrorFunc is called when processing an item fails. If nil, failures
// are silently skipped.
type ErrorFunc func(item string, err error)

// Map processes items in parallel and collects the results in
// arbitrary order. Callers that need ordered output must sort
// explicitly. If maxWorkers is <= 0, 2x NumCPU workers are used.
func Map[S, T any](items []S, maxWorkers int, fn func(S) (T, error), onProgress ProgressFunc, onError func(S, error)) []T {
	if len(items) == 0 {
		return nil
	}

	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU() * DefaultWorkerMultiplier
	}

	results := make([]T, 0, len(items))
	var mu sync.Mutex

	p := pool.New().WithMaxGoroutines(maxWorkers)
	for _, item := range items {
		p.Go(func() {
			result, err := fn(item)

			if onProgress != nil {
				onProgress()
			}

			if err != nil {
				if onError != nil {
					onError(item, err)
				}
				return
			}

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		})
	}
	p.Wait()

	return results
}
