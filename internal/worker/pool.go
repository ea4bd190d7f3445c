// Package worker builds icosphere patches in parallel.
package worker

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/MeKo-Tech/planetgen/internal/icosphere"
)

// Builder builds a single patch.
// This matches the signature of icosphere.Builder.Build.
type Builder interface {
	Build(ctx context.Context, face int) (*icosphere.Patch, error)
}

// Task represents a single patch build.
type Task struct {
	Face int
}

// Result represents the outcome of a patch build.
type Result struct {
	Patch   *icosphere.Patch
	Err     error
	Task    Task
	Elapsed time.Duration
}

// ProgressFunc is called after each task completes.
type ProgressFunc func(completed, total, failed int)

// Config configures the worker pool.
type Config struct {
	Workers    int
	Builder    Builder
	OnProgress ProgressFunc
}

// Pool manages parallel patch generation. Patches share nothing but the
// read-only builder, so no locking is needed around the geometry.
type Pool struct {
	workers    int
	builder    Builder
	onProgress ProgressFunc
}

// New creates a new worker pool.
func New(cfg Config) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	return &Pool{
		workers:    workers,
		builder:    cfg.Builder,
		onProgress: cfg.OnProgress,
	}
}

// Run executes all tasks and returns results in completion order.
// Tasks are processed in parallel by the configured number of workers.
// Tasks not yet started when the context is cancelled report ctx.Err().
func (p *Pool) Run(ctx context.Context, tasks []Task) []Result {
	if len(tasks) == 0 {
		return nil
	}

	taskCh := make(chan Task, len(tasks))
	resultCh := make(chan Result, len(tasks))

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.worker(ctx, taskCh, resultCh)
		}()
	}

	// The channel holds every task, so feeding never blocks.
	for _, task := range tasks {
		taskCh <- task
	}
	close(taskCh)

	results := make([]Result, 0, len(tasks))
	done := make(chan struct{})

	go func() {
		completed, failed := 0, 0
		for result := range resultCh {
			results = append(results, result)

			completed++
			if result.Err != nil {
				failed++
			}

			if p.onProgress != nil {
				p.onProgress(completed, len(tasks), failed)
			}
		}
		close(done)
	}()

	wg.Wait()
	close(resultCh)
	<-done

	return results
}

// Generate builds all twenty faces and returns the patches in face order.
// If any face fails, the error of the lowest failing face is returned.
func (p *Pool) Generate(ctx context.Context) ([]*icosphere.Patch, error) {
	tasks := make([]Task, icosphere.FaceCount)
	for i := range tasks {
		tasks[i] = Task{Face: i}
	}

	results := p.Run(ctx, tasks)
	sort.Slice(results, func(i, j int) bool { return results[i].Task.Face < results[j].Task.Face })

	patches := make([]*icosphere.Patch, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			return nil, fmt.Errorf("failed to build patch %d: %w", r.Task.Face, r.Err)
		}
		patches = append(patches, r.Patch)
	}

	return patches, nil
}

// worker processes tasks from the task channel and sends results to the result channel.
func (p *Pool) worker(ctx context.Context, tasks <-chan Task, results chan<- Result) {
	for task := range tasks {
		select {
		case <-ctx.Done():
			results <- Result{
				Task: task,
				Err:  ctx.Err(),
			}
			continue
		default:
		}

		start := time.Now()
		patch, err := p.builder.Build(ctx, task.Face)
		elapsed := time.Since(start)

		results <- Result{
			Task:    task,
			Patch:   patch,
			Err:     err,
			Elapsed: elapsed,
		}
	}
}
