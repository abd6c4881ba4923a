package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/guiyumin/srt-translator/internal/core/srt"
)

const (
	DefaultChunkSize      = 10
	DefaultConcurrency    = 1
	DefaultMaxRetries     = 3
	defaultInitialBackoff = time.Second
	defaultMaxBackoff     = 30 * time.Second
)

// Options controls how a Dispatcher splits and sends work.
type Options struct {
	SourceLang string
	TargetLang string
	Hint       string

	ChunkSize   int
	Concurrency int
	MaxRetries  int

	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	Logger *zap.SugaredLogger
}

// ProgressFunc is called after each chunk completes with the number of cues
// translated so far. Calls are serialized.
type ProgressFunc func(done, total int)

// Dispatcher translates a subtitle file chunk by chunk.
type Dispatcher struct {
	tr   Translator
	opts Options
	log  *zap.SugaredLogger
}

// NewDispatcher creates a Dispatcher. Zero-valued options take defaults.
func NewDispatcher(tr Translator, opts Options) (*Dispatcher, error) {
	if tr == nil {
		return nil, errors.New("translator is required")
	}
	if opts.TargetLang == "" {
		return nil, errors.New("target language is required")
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = defaultInitialBackoff
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = defaultMaxBackoff
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Dispatcher{tr: tr, opts: opts, log: log}, nil
}

type chunk struct {
	cues []*srt.Cue
	out  map[int]string
}

func (c *chunk) span() (int, int) {
	return c.cues[0].Index, c.cues[len(c.cues)-1].Index
}

// Dispatch translates every cue of f. Text is replaced only after all chunks
// succeed; on error f is left unchanged. Index and timing are never touched.
func (d *Dispatcher) Dispatch(ctx context.Context, f *srt.File, progress ProgressFunc) error {
	if f == nil || f.Len() == 0 {
		return errors.New("no cues to translate")
	}
	seen := make(map[int]bool, f.Len())
	for _, c := range f.Cues {
		if seen[c.Index] {
			return fmt.Errorf("duplicate cue index %d", c.Index)
		}
		seen[c.Index] = true
	}

	chunks := d.split(f)
	total := f.Len()
	d.log.Infow("dispatching",
		"provider", d.tr.Name(),
		"cues", total,
		"chunks", len(chunks),
		"concurrency", d.opts.Concurrency,
	)

	var (
		mu   sync.Mutex
		done int
	)
	if progress != nil {
		progress(0, total)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.Concurrency)
	for i, ch := range chunks {
		g.Go(func() error {
			first, last := ch.span()
			start := time.Now()
			out, err := d.translateChunk(gctx, ch)
			if err != nil {
				return fmt.Errorf("cues %d-%d: %w", first, last, err)
			}
			ch.out = out
			d.log.Debugw("chunk translated",
				"chunk", i+1,
				"first", first,
				"last", last,
				"elapsed", time.Since(start).Round(time.Millisecond),
			)

			mu.Lock()
			done += len(ch.cues)
			if progress != nil {
				progress(done, total)
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, ch := range chunks {
		for _, c := range ch.cues {
			c.SetText(ch.out[c.Index])
		}
	}
	return nil
}

func (d *Dispatcher) split(f *srt.File) []*chunk {
	n := d.opts.ChunkSize
	chunks := make([]*chunk, 0, (f.Len()+n-1)/n)
	for i := 0; i < f.Len(); i += n {
		end := min(i+n, f.Len())
		chunks = append(chunks, &chunk{cues: f.Cues[i:end]})
	}
	return chunks
}

func (d *Dispatcher) translateChunk(ctx context.Context, ch *chunk) (map[int]string, error) {
	req := &Request{
		SourceLang: d.opts.SourceLang,
		TargetLang: d.opts.TargetLang,
		Hint:       d.opts.Hint,
		Items:      make([]Item, len(ch.cues)),
	}
	for i, c := range ch.cues {
		req.Items[i] = Item{Index: c.Index, Text: c.Text()}
	}

	var out map[int]string
	op := func() error {
		res, err := d.tr.Translate(ctx, req)
		if err != nil {
			if ctx.Err() != nil || !IsTransient(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		if err := checkCoverage(req.Items, res); err != nil {
			return malformed(d.tr.Name(), err)
		}
		out = res
		return nil
	}

	first, last := ch.span()
	notify := func(err error, wait time.Duration) {
		d.log.Warnw("retrying chunk",
			"first", first,
			"last", last,
			"wait", wait,
			"error", err,
		)
	}

	if err := backoff.RetryNotify(op, d.newBackOff(ctx), notify); err != nil {
		return nil, err
	}
	return out, nil
}

func (d *Dispatcher) newBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = d.opts.InitialBackoff
	b.MaxInterval = d.opts.MaxBackoff
	b.Multiplier = 2
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(d.opts.MaxRetries)), ctx)
}

func checkCoverage(items []Item, res map[int]string) error {
	for _, it := range items {
		text, ok := res[it.Index]
		if !ok {
			return fmt.Errorf("missing translation for index %d", it.Index)
		}
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("empty translation for index %d", it.Index)
		}
		if srt.ContainsCueHeader(text) {
			return fmt.Errorf("translation for index %d contains a cue header", it.Index)
		}
	}
	return nil
}
