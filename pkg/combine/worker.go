// File: pkg/combine/worker.go
package combine

import (
	"runtime"
	"sync"

	"go.uber.org/zap"
)

type job struct {
	index int
	path  string
}

// ProcessFilesConcurrently reads files with a worker pool. The returned slice
// is aligned with files; failures are reported through FileContent.Err.
func ProcessFilesConcurrently(files []string, opts WriteOptions, logger *zap.Logger) []FileContent {
	results := make([]FileContent, len(files))
	if len(files) == 0 {
		return results
	}

	maxWorkers := opts.Workers
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
		logger.Debug("Adjusted worker count", zap.Int("workers", maxWorkers))
	}
	if maxWorkers > len(files) {
		maxWorkers = len(files)
	}

	jobs := make(chan job, len(files))
	var wg sync.WaitGroup

	logger.Debug("Initializing worker pool", zap.Int("workers", maxWorkers))
	for w := 0; w < maxWorkers; w++ {
		wg.Add(1)
		go worker(w, jobs, results, opts, &wg, logger.With(zap.Int("workerID", w)))
	}

	for i, file := range files {
		jobs <- job{index: i, path: file}
	}
	close(jobs)

	wg.Wait()
	logger.Debug("All files processed", zap.Int("processedFiles", len(files)))
	return results
}

// worker reads files from jobs. Each job owns its result slot, so no locking is needed.
func worker(id int, jobs <-chan job, results []FileContent, opts WriteOptions, wg *sync.WaitGroup, logger *zap.Logger) {
	defer wg.Done()

	for j := range jobs {
		results[j.index] = ProcessSingleFile(j.path, opts, logger)
		if results[j.index].Err != nil {
			logger.Warn("Worker failed to read file",
				zap.String("filePath", j.path),
				zap.Error(results[j.index].Err))
		}
	}

	logger.Debug("Worker finished processing", zap.Int("workerID", id))
}
