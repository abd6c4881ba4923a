// Package srt reads and writes SubRip subtitle files.
package srt

import (
	"fmt"
	"strings"
	"time"
)

// Timestamp is a cue boundary with millisecond precision.
type Timestamp time.Duration

// NewTimestamp builds a Timestamp from its clock components.
func NewTimestamp(h, m, s, ms int) Timestamp {
	d := time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second +
		time.Duration(ms)*time.Millisecond
	return Timestamp(d)
}

// Duration returns the timestamp as a time.Duration.
func (t Timestamp) Duration() time.Duration {
	return time.Duration(t)
}

// String formats the timestamp as HH:MM:SS,mmm.
func (t Timestamp) String() string {
	total := time.Duration(t).Milliseconds()
	h := total / 3600000
	total %= 3600000
	m := total / 60000
	total %= 60000
	s := total / 1000
	ms := total % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// Cue is one timed subtitle entry.
type Cue struct {
	Index int
	Start Timestamp
	End   Timestamp
	Lines []string
}

// Text returns the cue text with lines joined by newlines.
func (c *Cue) Text() string {
	return strings.Join(c.Lines, "\n")
}

// SetText replaces the cue text. Line endings are normalized and trailing
// blank lines dropped so the cue block stays well formed.
func (c *Cue) SetText(text string) {
	text = normalizeNewlines(text)
	text = strings.TrimRight(text, " \t\n")
	lines := strings.Split(text, "\n")
	// A blank line inside the text would end the cue block on re-read.
	kept := lines[:0]
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		kept = append(kept, l)
	}
	c.Lines = kept
}

// File is an ordered sequence of cues.
type File struct {
	Cues []*Cue
}

// Len returns the number of cues.
func (f *File) Len() int {
	return len(f.Cues)
}

// Clone returns a deep copy of the file.
func (f *File) Clone() *File {
	out := &File{Cues: make([]*Cue, len(f.Cues))}
	for i, c := range f.Cues {
		cp := *c
		cp.Lines = append([]string(nil), c.Lines...)
		out.Cues[i] = &cp
	}
	return out
}

// Renumber assigns sequential indices starting at 1.
func (f *File) Renumber() {
	for i, c := range f.Cues {
		c.Index = i + 1
	}
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
