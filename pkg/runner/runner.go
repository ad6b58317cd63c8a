package runner

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/luaufmt/pkg/config"
	"github.com/yaklabco/luaufmt/pkg/format"
)

// Runner formats many files concurrently through one format.Pipeline.
type Runner struct {
	Pipeline *format.Pipeline
}

// New creates a Runner around pipeline.
func New(pipeline *format.Pipeline) *Runner {
	return &Runner{Pipeline: pipeline}
}

// Run discovers scripts under opts.Paths and formats them concurrently.
// Outcomes keep discovery order whatever order workers finish in. After
// cancellation the files already processed are returned with the error.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result, nil
	}

	pipelineOpts := format.PipelineOptionsFromConfig(opts.Config, opts.Write)

	// Each worker writes only its own slot.
	outcomes := make([]FileOutcome, len(files))
	finished := make([]bool, len(files))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workerCount(opts, len(files)))
	for i, path := range files {
		if groupCtx.Err() != nil {
			break
		}
		group.Go(func() error {
			if groupCtx.Err() != nil {
				return nil
			}
			outcomes[i] = r.process(groupCtx, path, opts.Config, pipelineOpts)
			finished[i] = true
			return nil
		})
	}
	_ = group.Wait()

	for i := range files {
		if finished[i] {
			result.accumulate(outcomes[i])
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}

func (r *Runner) process(ctx context.Context, path string, cfg *config.Config, opts format.PipelineOptions) FileOutcome {
	outcome := FileOutcome{Path: path}
	pr, err := r.Pipeline.ProcessFile(ctx, path, cfg, opts)
	if err != nil {
		outcome.Error = err
		return outcome
	}
	outcome.Result = pr
	return outcome
}

// workerCount resolves the jobs setting: the flag, then config, then one
// worker per CPU, never more than there are files.
func workerCount(opts Options, files int) int {
	jobs := opts.Jobs
	if jobs <= 0 && opts.Config != nil {
		jobs = opts.Config.Jobs
	}
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	return max(1, min(jobs, files))
}
