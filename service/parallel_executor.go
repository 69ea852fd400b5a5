package service

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/ludo-technologies/pystyle/domain"
	"github.com/ludo-technologies/pystyle/internal/config"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultMaxConcurrency is used when a request does not bound the workers
	DefaultMaxConcurrency = config.DefaultMaxGoroutines

	// DefaultTimeout is the deadline of a run when a request asks for a negative one
	DefaultTimeout = config.DefaultTimeoutSeconds * time.Second

	defaultDescription = "Checking files"
)

// TaskError records the failure of one file task
type TaskError struct {
	TaskName string
	Err      error
}

// Error implements the error interface
func (e TaskError) Error() string {
	return fmt.Sprintf("[%s] %v", e.TaskName, e.Err)
}

// Unwrap returns the underlying error
func (e TaskError) Unwrap() error {
	return e.Err
}

// AggregatedError holds every task failure of one Execute call, in
// completion order
type AggregatedError struct {
	Errors []TaskError
}

// Error implements the error interface
func (e *AggregatedError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d tasks failed:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Unwrap returns the first failure so errors.Is and errors.As see it
func (e *AggregatedError) Unwrap() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e.Errors[0].Err
}

// ParallelExecutorImpl runs file tasks on a bounded pool of goroutines.
// A zero timeout means tasks run until the parent context ends.
type ParallelExecutorImpl struct {
	maxConcurrency int
	timeout        time.Duration
	description    string
	progress       domain.ProgressManager
	mu             sync.RWMutex
}

// NewParallelExecutor creates an executor using every CPU and the default
// deadline
func NewParallelExecutor() *ParallelExecutorImpl {
	return &ParallelExecutorImpl{
		maxConcurrency: runtime.NumCPU(),
		timeout:        DefaultTimeout,
		description:    defaultDescription,
	}
}

// NewParallelExecutorForRequest creates an executor bounded by the
// performance settings of req. Progress is reported to pm only when the
// request asks for it.
func NewParallelExecutorForRequest(req domain.StyleRequest, pm domain.ProgressManager) *ParallelExecutorImpl {
	executor := NewParallelExecutor()
	executor.maxConcurrency = DefaultMaxConcurrency
	executor.SetMaxConcurrency(req.MaxGoroutines)
	executor.SetTimeout(req.Timeout)
	if req.ShowProgress {
		executor.progress = pm
	}
	return executor
}

// Execute runs every enabled task and waits for all of them. A failing task
// does not stop the others; failures come back as one *AggregatedError.
func (e *ParallelExecutorImpl) Execute(ctx context.Context, tasks []domain.ExecutableTask) error {
	enabled := make([]domain.ExecutableTask, 0, len(tasks))
	for _, t := range tasks {
		if t.IsEnabled() {
			enabled = append(enabled, t)
		}
	}
	if len(enabled) == 0 {
		return nil
	}

	e.mu.RLock()
	maxConcurrency := e.maxConcurrency
	timeout := e.timeout
	description := e.description
	e.mu.RUnlock()

	var runCtx context.Context
	var cancel context.CancelFunc
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		runCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	var bar domain.TaskProgress = &NoOpTaskProgress{}
	if e.progress != nil {
		bar = e.progress.StartTask(description, len(enabled))
	}
	defer bar.Complete()

	g, gCtx := errgroup.WithContext(runCtx)
	g.SetLimit(maxConcurrency)

	var errMu sync.Mutex
	var failures []TaskError

	for _, t := range enabled {
		t := t
		g.Go(func() error {
			// A task still queued when the run is cancelled counts as failed
			err := gCtx.Err()
			if err == nil {
				_, err = t.Execute(gCtx)
			}
			bar.Increment(1)

			if err != nil {
				errMu.Lock()
				failures = append(failures, TaskError{TaskName: t.Name(), Err: err})
				errMu.Unlock()
			}
			// nil keeps the group from cancelling the remaining files
			return nil
		})
	}
	_ = g.Wait()

	if len(failures) > 0 {
		return &AggregatedError{Errors: failures}
	}
	return nil
}

// SetMaxConcurrency sets the number of files checked at once; values below
// one are ignored
func (e *ParallelExecutorImpl) SetMaxConcurrency(max int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if max > 0 {
		e.maxConcurrency = max
	}
}

// SetTimeout sets the deadline for a whole Execute call; 0 removes it and
// negative values are ignored
func (e *ParallelExecutorImpl) SetTimeout(timeout time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if timeout >= 0 {
		e.timeout = timeout
	}
}

// SetDescription sets the label shown on the progress bar
func (e *ParallelExecutorImpl) SetDescription(description string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.description = description
}
