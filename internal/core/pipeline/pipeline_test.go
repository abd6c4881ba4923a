package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/guiyumin/srt-translator/internal/core/srt"
	"github.com/guiyumin/srt-translator/internal/core/translate"
)

type stubDispatcher struct {
	calls int
	err   error
	words map[string]string
}

func (s *stubDispatcher) Dispatch(_ context.Context, f *srt.File, progress translate.ProgressFunc) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	for i, c := range f.Cues {
		if w, ok := s.words[c.Text()]; ok {
			c.SetText(w)
		}
		if progress != nil {
			progress(i+1, f.Len())
		}
	}
	return nil
}

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.srt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun(t *testing.T) {
	in := writeInput(t, "1\n00:00:01,000 --> 00:00:03,000\nHello\n\n")
	out := filepath.Join(t.TempDir(), "out.srt")
	d := &stubDispatcher{words: map[string]string{"Hello": "你好"}}

	var last int
	res, err := New(d, nil).Run(context.Background(), Job{
		Input:    in,
		Output:   out,
		Progress: func(done, total int) { last = done },
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Cues != 1 || last != 1 {
		t.Errorf("Cues = %d, progress = %d", res.Cues, last)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	want := "1\n00:00:01,000 --> 00:00:03,000\n你好\n\n"
	if string(data) != want {
		t.Errorf("output = %q, want %q", data, want)
	}
}

func TestRunRenumber(t *testing.T) {
	in := writeInput(t, "7\n00:00:01,000 --> 00:00:02,000\nA\n\n9\n00:00:03,000 --> 00:00:04,000\nB\n")
	out := filepath.Join(t.TempDir(), "out.srt")

	if _, err := New(&stubDispatcher{}, nil).Run(context.Background(), Job{Input: in, Output: out, Renumber: true}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "1\n") || !strings.Contains(string(data), "\n2\n00:00:03,000") {
		t.Errorf("output not renumbered: %q", data)
	}
}

func TestRunFailures(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		dispErr error
		want    error
		calls   int
	}{
		{"empty input", "", nil, srt.ErrParse, 0},
		{"missing separator", "1\n00:00:01,000 --> 00:00:02,000\nA\n2\n00:00:03,000 --> 00:00:04,000\nB\n", nil, srt.ErrParse, 0},
		{"translation failure", "1\n00:00:01,000 --> 00:00:02,000\nA\n", &translate.Error{Kind: translate.ErrAuth}, translate.ErrAuth, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := writeInput(t, tt.input)
			out := filepath.Join(t.TempDir(), "out.srt")
			d := &stubDispatcher{err: tt.dispErr}

			_, err := New(d, nil).Run(context.Background(), Job{Input: in, Output: out})
			if !errors.Is(err, tt.want) {
				t.Fatalf("Run() error = %v, want %v", err, tt.want)
			}
			if d.calls != tt.calls {
				t.Errorf("dispatcher calls = %d, want %d", d.calls, tt.calls)
			}
			if _, err := os.Stat(out); !os.IsNotExist(err) {
				t.Error("no output should be written on failure")
			}
		})
	}
}

func TestRunRequiresPaths(t *testing.T) {
	if _, err := New(&stubDispatcher{}, nil).Run(context.Background(), Job{Input: "a.srt"}); err == nil {
		t.Error("Run() without an output path should fail")
	}
}
