// Package pipeline runs one subtitle file through parse, translate and write.
package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/guiyumin/srt-translator/internal/core/srt"
	"github.com/guiyumin/srt-translator/internal/core/translate"
)

// Dispatcher translates a parsed file in place.
type Dispatcher interface {
	Dispatch(ctx context.Context, f *srt.File, progress translate.ProgressFunc) error
}

// Job describes one input/output pair.
type Job struct {
	Input    string
	Output   string
	Renumber bool
	Progress translate.ProgressFunc
}

// Result summarizes a finished job.
type Result struct {
	Input   string
	Output  string
	Cues    int
	Elapsed time.Duration
}

// Runner wires the parser, a dispatcher and the writer together.
type Runner struct {
	dispatcher Dispatcher
	log        *zap.SugaredLogger
}

// New creates a Runner. A nil logger discards output.
func New(d Dispatcher, log *zap.SugaredLogger) *Runner {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Runner{dispatcher: d, log: log}
}

// Run parses job.Input, translates it and writes job.Output. The output file
// is only created once every cue has been translated.
func (r *Runner) Run(ctx context.Context, job Job) (*Result, error) {
	if job.Input == "" || job.Output == "" {
		return nil, errors.New("input and output paths are required")
	}
	start := time.Now()
	log := r.log.With("input", filepath.Base(job.Input))

	f, err := srt.ParseFile(job.Input)
	if err != nil {
		return nil, err
	}
	log.Debugw("parsed", "cues", f.Len())

	if err := r.dispatcher.Dispatch(ctx, f, job.Progress); err != nil {
		return nil, err
	}

	if job.Renumber {
		f.Renumber()
	}

	if err := srt.WriteFile(job.Output, f); err != nil {
		return nil, err
	}

	res := &Result{
		Input:   job.Input,
		Output:  job.Output,
		Cues:    f.Len(),
		Elapsed: time.Since(start),
	}
	log.Infow("translated", "output", job.Output, "cues", res.Cues, "elapsed", res.Elapsed.Round(time.Millisecond))
	return res, nil
}
