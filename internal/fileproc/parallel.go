// Package fileproc provides concurrent file processing utilities.
package fileproc

import (
	"context"
	"runtime"
	"sync"

	"github.com/sourcegraph/conc/pool"
)

// DefaultWorkerMultiplier is the multiplier applied to NumCPU for worker count.
// 2x is optimal for mixed I/O and CPU workloads.
const DefaultWorkerMultiplier = 2

// ProgressFunc is called after each file is processed.
type ProgressFunc func()

// ErrorFunc is called when a file processing error occurs.
// Receives the file path and the error. If nil, errors are silently skipped.
type ErrorFunc func(path string, err error)

// ForEachFile processes files in parallel, calling fn for each file.
// Results are collected and returned in arbitrary order. Individual file
// errors never stop the run; they are reported through onError.
func ForEachFile[T any](ctx context.Context, files []string, fn func(string) (T, error), onProgress ProgressFunc, onError ErrorFunc) []T {
	return ForEachFileN(ctx, files, 0, fn, onProgress, onError)
}

// ForEachFileN processes files with a configurable worker count.
// If maxWorkers is <= 0, defaults to 2x NumCPU. Once ctx is cancelled no new
// files are started; results collected so far are returned.
func ForEachFileN[T any](ctx context.Context, files []string, maxWorkers int, fn func(string) (T, error), onProgress ProgressFunc, onError ErrorFunc) []T {
	if len(files) == 0 {
		return nil
	}

	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU() * DefaultWorkerMultiplier
	}

	results := make([]T, 0, len(files))
	var mu sync.Mutex

	p := pool.New().WithMaxGoroutines(maxWorkers)
	for _, path := range files {
		p.Go(func() {
			select {
			case <-ctx.Done():
				if onError != nil {
					onError(path, ctx.Err())
				}
				return
			default:
			}

			result, err := fn(path)

			if onProgress != nil {
				onProgress()
			}

			if err != nil {
				if onError != nil {
					onError(path, err)
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
