package srt

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxHours is the largest hour field a timestamp may carry; any clock
// value up to MaxHours:59:59,999 fits in a time.Duration.
const MaxHours = 2562046

var (
	timingRe    = regexp.MustCompile(`^(\d{2,}):(\d{2}):(\d{2})[,.](\d{3})\s*-->\s*(\d{2,}):(\d{2}):(\d{2})[,.](\d{3})(?:\s+.*)?$`)
	timestampRe = regexp.MustCompile(`^(\d{2,}):(\d{2}):(\d{2})[,.](\d{3})$`)
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseFile reads and parses the SRT file at path.
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ParseError{Path: path, Kind: KindNotFound, Msg: "subtitle file not found", Err: err}
		}
		return nil, &ParseError{Path: path, Kind: KindUnreadable, Msg: "cannot open subtitle file", Err: err}
	}
	defer f.Close()

	file, err := Parse(f)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return file, nil
}

// Parse reads SRT content from r. Cues are returned in file order.
// Any structural problem is reported as a *ParseError; no cue is skipped.
func Parse(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Kind: KindUnreadable, Msg: "read failed", Err: err}
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, &ParseError{Kind: KindUnreadable, Msg: "content is not valid UTF-8"}
	}

	lines := strings.Split(normalizeNewlines(string(data)), "\n")
	p := &parser{lines: lines}
	file, err := p.parse()
	if err != nil {
		return nil, err
	}
	if err := validate(file, p.cueLines); err != nil {
		return nil, err
	}
	return file, nil
}

// ParseTimestamp parses a single HH:MM:SS,mmm value.
func ParseTimestamp(s string) (Timestamp, error) {
	m := timestampRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}
	return clock(m[1], m[2], m[3], m[4])
}

type parser struct {
	lines    []string
	pos      int
	cueLines []int
}

func (p *parser) parse() (*File, error) {
	file := &File{}
	for {
		p.skipBlank()
		if p.pos >= len(p.lines) {
			break
		}
		cue, err := p.cue()
		if err != nil {
			return nil, err
		}
		file.Cues = append(file.Cues, cue)
	}
	if len(file.Cues) == 0 {
		return nil, &ParseError{Kind: KindEmpty, Msg: "no subtitle cues found"}
	}
	return file, nil
}

func (p *parser) skipBlank() {
	for p.pos < len(p.lines) && isBlank(p.lines[p.pos]) {
		p.pos++
	}
}

func (p *parser) cue() (*Cue, error) {
	indexLine := p.pos + 1
	raw := strings.TrimSpace(p.lines[p.pos])
	index, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &ParseError{Line: indexLine, Kind: KindIndex, Msg: fmt.Sprintf("expected cue number, got %q", raw)}
	}
	if index <= 0 {
		return nil, &ParseError{Line: indexLine, Kind: KindIndex, Msg: fmt.Sprintf("cue number must be positive, got %d", index)}
	}
	p.pos++

	if p.pos >= len(p.lines) || isBlank(p.lines[p.pos]) {
		return nil, &ParseError{Line: indexLine + 1, Kind: KindTimestamp, Msg: fmt.Sprintf("cue %d has no timing line", index)}
	}
	start, end, err := parseTiming(p.lines[p.pos])
	if err != nil {
		return nil, &ParseError{Line: p.pos + 1, Kind: KindTimestamp, Msg: err.Error()}
	}
	if start > end {
		return nil, &ParseError{Line: p.pos + 1, Kind: KindTimestamp, Msg: fmt.Sprintf("cue %d ends (%s) before it starts (%s)", index, end, start)}
	}
	p.pos++

	cue := &Cue{Index: index, Start: start, End: end}
	for p.pos < len(p.lines) && !isBlank(p.lines[p.pos]) {
		line := p.lines[p.pos]
		if p.startsCue(p.pos) {
			return nil, &ParseError{Line: p.pos + 1, Kind: KindStructure, Msg: "missing blank line before cue " + strings.TrimSpace(line)}
		}
		cue.Lines = append(cue.Lines, strings.TrimRight(line, " \t"))
		p.pos++
	}
	if len(cue.Lines) == 0 {
		return nil, &ParseError{Line: indexLine, Kind: KindStructure, Msg: fmt.Sprintf("cue %d has no text", index)}
	}
	p.cueLines = append(p.cueLines, indexLine)
	return cue, nil
}

// startsCue reports whether lines[i] and lines[i+1] look like the head of a new cue.
func (p *parser) startsCue(i int) bool {
	if i+1 >= len(p.lines) {
		return false
	}
	if _, err := strconv.Atoi(strings.TrimSpace(p.lines[i])); err != nil {
		return false
	}
	_, _, err := parseTiming(p.lines[i+1])
	return err == nil
}

func parseTiming(line string) (Timestamp, Timestamp, error) {
	m := timingRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return 0, 0, fmt.Errorf("expected \"HH:MM:SS,mmm --> HH:MM:SS,mmm\", got %q", strings.TrimSpace(line))
	}
	start, err := clock(m[1], m[2], m[3], m[4])
	if err != nil {
		return 0, 0, err
	}
	end, err := clock(m[5], m[6], m[7], m[8])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func clock(hs, ms, ss, frac string) (Timestamp, error) {
	var parts [4]int
	for i, v := range []string{hs, ms, ss, frac} {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid clock value %s:%s:%s,%s: %w", hs, ms, ss, frac, err)
		}
		parts[i] = n
	}
	h, m, s, f := parts[0], parts[1], parts[2], parts[3]
	if h > MaxHours {
		return 0, fmt.Errorf("hour value %s exceeds %d", hs, MaxHours)
	}
	if m > 59 || s > 59 {
		return 0, fmt.Errorf("invalid clock value %s:%s:%s,%s", hs, ms, ss, frac)
	}
	return NewTimestamp(h, m, s, f), nil
}

// ContainsCueHeader reports whether text holds a number line directly
// followed by a timing line. Such text would split its cue when re-read.
func ContainsCueHeader(text string) bool {
	return hasCueHeader(strings.Split(normalizeNewlines(text), "\n"))
}

func hasCueHeader(lines []string) bool {
	p := &parser{lines: lines}
	for i := range lines {
		if p.startsCue(i) {
			return true
		}
	}
	return false
}

func validate(file *File, lines []int) error {
	seen := make(map[int]bool, len(file.Cues))
	for i, c := range file.Cues {
		if seen[c.Index] {
			return &ParseError{Line: lines[i], Kind: KindIndex, Msg: fmt.Sprintf("duplicate cue number %d", c.Index)}
		}
		seen[c.Index] = true
		if i > 0 && c.Start < file.Cues[i-1].Start {
			return &ParseError{Line: lines[i], Kind: KindOrder, Msg: fmt.Sprintf("cue %d starts before cue %d", c.Index, file.Cues[i-1].Index)}
		}
	}
	return nil
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
