package engine

import (
	"context"

	"github.com/piwi3910/CrateFill/internal/model"
)

// Progress is one progress notification of a background run.
type Progress struct {
	Completed int
	Total     int
}

// Outcome is the final result of a background run.
type Outcome struct {
	Result model.PackResult
	Err    error
}

// Run is a pack running on its own goroutine.
//
// Progress carries the most recent notification only: the worker never
// blocks on it, and an unread value is replaced by a newer one. The channel
// is closed after the final notification (Completed == Total), so a reader
// that drains it until close always sees the last one. Done delivers the
// outcome exactly once.
type Run struct {
	Progress <-chan Progress
	Done     <-chan Outcome

	packer *Packer
}

// RunAsync starts packing in the background. Any progress option in opts is
// replaced by the run's own channel.
func RunAsync(ctx context.Context, settings model.PackSettings, c model.Container, items []model.Item, opts ...Option) *Run {
	progress := make(chan Progress, 1)
	done := make(chan Outcome, 1)

	publish := func(completed, total int) {
		select {
		case <-progress:
		default:
		}
		progress <- Progress{Completed: completed, Total: total}
	}

	all := append(opts[:len(opts):len(opts)], WithProgress(publish))
	p := New(settings, all...)

	go func() {
		defer close(done)
		res, err := p.PackContext(ctx, c, items)
		close(progress)
		done <- Outcome{Result: res, Err: err}
	}()

	return &Run{Progress: progress, Done: done, packer: p}
}

// State returns the lifecycle stage of the background packer.
func (r *Run) State() State {
	return r.packer.State()
}

// Wait blocks until the run finishes.
func (r *Run) Wait() (model.PackResult, error) {
	out := <-r.Done
	return out.Result, out.Err
}
