package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/guiyumin/srt-translator/internal/core/srt"
)

// fakeTranslator upper-cases text, failing the first failures calls with err.
type fakeTranslator struct {
	mu       sync.Mutex
	calls    int
	failures int
	err      error
	requests []*Request
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	delay    time.Duration
	drop     bool
}

func (f *fakeTranslator) Name() string { return "fake" }

func (f *fakeTranslator) Translate(ctx context.Context, req *Request) (map[int]string, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		cur := f.maxSeen.Load()
		if n <= cur || f.maxSeen.CompareAndSwap(cur, n) {
			break
		}
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	f.calls++
	call := f.calls
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if call <= f.failures {
		return nil, f.err
	}
	out := make(map[int]string, len(req.Items))
	for i, it := range req.Items {
		if f.drop && i == 0 {
			continue
		}
		out[it.Index] = strings.ToUpper(it.Text)
	}
	return out, nil
}

func makeFile(n int) *srt.File {
	f := &srt.File{}
	for i := 1; i <= n; i++ {
		f.Cues = append(f.Cues, &srt.Cue{
			Index: i,
			Start: srt.NewTimestamp(0, 0, i, 0),
			End:   srt.NewTimestamp(0, 0, i, 500),
			Lines: []string{fmt.Sprintf("line %d", i)},
		})
	}
	return f
}

func fastOptions() Options {
	return Options{
		TargetLang:     "zh",
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
		MaxRetries:     DefaultMaxRetries,
	}
}

func TestNewDispatcherValidation(t *testing.T) {
	if _, err := NewDispatcher(nil, fastOptions()); err == nil {
		t.Error("NewDispatcher(nil) should fail")
	}
	if _, err := NewDispatcher(&fakeTranslator{}, Options{}); err == nil {
		t.Error("NewDispatcher() without a target language should fail")
	}

	d, err := NewDispatcher(&fakeTranslator{}, Options{TargetLang: "zh"})
	if err != nil {
		t.Fatal(err)
	}
	if d.opts.ChunkSize != DefaultChunkSize || d.opts.Concurrency != DefaultConcurrency {
		t.Errorf("defaults not applied: %+v", d.opts)
	}
}

func TestDispatch(t *testing.T) {
	tr := &fakeTranslator{}
	d, err := NewDispatcher(tr, fastOptions())
	if err != nil {
		t.Fatal(err)
	}

	f := makeFile(25)
	orig := f.Clone()
	var progress []int
	if err := d.Dispatch(context.Background(), f, func(done, total int) {
		if total != 25 {
			t.Errorf("total = %d, want 25", total)
		}
		progress = append(progress, done)
	}); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	if len(tr.requests) != 3 {
		t.Fatalf("requests = %d, want 3 chunks", len(tr.requests))
	}
	if got := len(tr.requests[2].Items); got != 5 {
		t.Errorf("last chunk size = %d, want 5", got)
	}
	if tr.requests[0].TargetLang != "zh" {
		t.Errorf("TargetLang = %q", tr.requests[0].TargetLang)
	}

	for i, c := range f.Cues {
		o := orig.Cues[i]
		if c.Index != o.Index || c.Start != o.Start || c.End != o.End {
			t.Errorf("cue %d timing or index changed", o.Index)
		}
		if want := strings.ToUpper(o.Text()); c.Text() != want {
			t.Errorf("cue %d text = %q, want %q", o.Index, c.Text(), want)
		}
	}

	want := []int{0, 10, 20, 25}
	if fmt.Sprint(progress) != fmt.Sprint(want) {
		t.Errorf("progress = %v, want %v", progress, want)
	}
}

func TestDispatchRetriesTransientErrors(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	tr := &fakeTranslator{
		failures: 2,
		err:      &Error{Kind: ErrRateLimit, Provider: "fake", Status: 429},
	}
	opts := fastOptions()
	opts.Logger = zap.New(core).Sugar()
	d, err := NewDispatcher(tr, opts)
	if err != nil {
		t.Fatal(err)
	}

	f := makeFile(3)
	if err := d.Dispatch(context.Background(), f, nil); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if tr.calls != 3 {
		t.Errorf("calls = %d, want 3", tr.calls)
	}
	if got := logs.FilterMessage("retrying chunk").Len(); got != 2 {
		t.Errorf("retry warnings = %d, want 2", got)
	}
	if f.Cues[0].Text() != "LINE 1" {
		t.Errorf("text = %q", f.Cues[0].Text())
	}
}

func TestDispatchFailsWholeFile(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCalls int
		kind      error
	}{
		{"auth is permanent", &Error{Kind: ErrAuth, Status: 401}, 1, ErrAuth},
		{"bad request is permanent", &Error{Kind: ErrAPI, Status: 400}, 1, ErrAPI},
		{"retries exhausted", &Error{Kind: ErrNetwork}, DefaultMaxRetries + 1, ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &fakeTranslator{failures: 100, err: tt.err}
			d, err := NewDispatcher(tr, fastOptions())
			if err != nil {
				t.Fatal(err)
			}

			f := makeFile(4)
			err = d.Dispatch(context.Background(), f, nil)
			if !errors.Is(err, tt.kind) {
				t.Fatalf("Dispatch() error = %v, want %v", err, tt.kind)
			}
			if !strings.HasPrefix(err.Error(), "cues 1-4: ") {
				t.Errorf("error should name the failing cues, got %q", err)
			}
			if tr.calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", tr.calls, tt.wantCalls)
			}
			if f.Cues[0].Text() != "line 1" {
				t.Errorf("file was modified after a failed run: %q", f.Cues[0].Text())
			}
		})
	}
}

func TestDispatchLeavesFileUntouchedWhenOneChunkFails(t *testing.T) {
	d, err := NewDispatcher(&chunkFailer{fail: 11}, fastOptions())
	if err != nil {
		t.Fatal(err)
	}
	f := makeFile(20)
	if err := d.Dispatch(context.Background(), f, nil); err == nil {
		t.Fatal("Dispatch() should fail")
	}
	for _, c := range f.Cues {
		if c.Text() != fmt.Sprintf("line %d", c.Index) {
			t.Fatalf("cue %d was modified: %q", c.Index, c.Text())
		}
	}
}

// chunkFailer fails any request containing cue fail.
type chunkFailer struct {
	fail int
}

func (c *chunkFailer) Name() string { return "chunk-failer" }

func (c *chunkFailer) Translate(ctx context.Context, req *Request) (map[int]string, error) {
	for _, it := range req.Items {
		if it.Index == c.fail {
			return nil, &Error{Kind: ErrAuth, Status: 401}
		}
	}
	out := make(map[int]string, len(req.Items))
	for _, it := range req.Items {
		out[it.Index] = "ok"
	}
	return out, nil
}

func TestDispatchIncompleteResultIsRetried(t *testing.T) {
	tr := &fakeTranslator{drop: true}
	opts := fastOptions()
	opts.MaxRetries = 1
	d, err := NewDispatcher(tr, opts)
	if err != nil {
		t.Fatal(err)
	}
	err = d.Dispatch(context.Background(), makeFile(2), nil)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("Dispatch() error = %v, want ErrMalformedResponse", err)
	}
	if tr.calls != 2 {
		t.Errorf("calls = %d, want 2", tr.calls)
	}
}

// headerTranslator answers every item with text that embeds a cue header.
type headerTranslator struct{ calls atomic.Int32 }

func (h *headerTranslator) Name() string { return "header" }

func (h *headerTranslator) Translate(ctx context.Context, req *Request) (map[int]string, error) {
	h.calls.Add(1)
	out := make(map[int]string, len(req.Items))
	for _, it := range req.Items {
		out[it.Index] = "Count\n3\n00:00:09,000 --> 00:00:10,000"
	}
	return out, nil
}

func TestDispatchRejectsEmbeddedCueHeader(t *testing.T) {
	tr := &headerTranslator{}
	opts := fastOptions()
	opts.MaxRetries = 1
	d, err := NewDispatcher(tr, opts)
	if err != nil {
		t.Fatal(err)
	}
	f := makeFile(1)
	err = d.Dispatch(context.Background(), f, nil)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("Dispatch() error = %v, want ErrMalformedResponse", err)
	}
	if got := tr.calls.Load(); got != 2 {
		t.Errorf("calls = %d, want 2", got)
	}
	if f.Cues[0].Text() != "line 1" {
		t.Errorf("cue text = %q, want it untouched", f.Cues[0].Text())
	}
}

func TestDispatchConcurrencyLimit(t *testing.T) {
	tr := &fakeTranslator{delay: 20 * time.Millisecond}
	opts := fastOptions()
	opts.ChunkSize = 1
	opts.Concurrency = 3
	d, err := NewDispatcher(tr, opts)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Dispatch(context.Background(), makeFile(9), nil); err != nil {
		t.Fatal(err)
	}
	if got := tr.maxSeen.Load(); got > 3 {
		t.Errorf("max in-flight requests = %d, want <= 3", got)
	}
	if tr.calls != 9 {
		t.Errorf("calls = %d, want 9", tr.calls)
	}
}

func TestDispatchCanceled(t *testing.T) {
	tr := &fakeTranslator{delay: time.Second}
	d, err := NewDispatcher(tr, fastOptions())
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	f := makeFile(3)
	err = d.Dispatch(ctx, f, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Dispatch() error = %v, want context.Canceled", err)
	}
	if f.Cues[0].Text() != "line 1" {
		t.Error("file was modified after cancellation")
	}
}

func TestDispatchRejectsBadInput(t *testing.T) {
	d, err := NewDispatcher(&fakeTranslator{}, fastOptions())
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Dispatch(context.Background(), &srt.File{}, nil); err == nil {
		t.Error("Dispatch() on an empty file should fail")
	}

	f := makeFile(2)
	f.Cues[1].Index = 1
	if err := d.Dispatch(context.Background(), f, nil); err == nil {
		t.Error("Dispatch() with duplicate indices should fail")
	}
}
