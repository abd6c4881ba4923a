package srt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format renders the file as SRT text.
func Format(f *File) (string, error) {
	var b strings.Builder
	if err := Write(&b, f); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Write serializes cues to w. Indices and timings are written exactly as held;
// every cue block, including the last, ends with a blank line.
func Write(w io.Writer, f *File) error {
	bw := bufio.NewWriter(w)
	for _, c := range f.Cues {
		if len(c.Lines) == 0 {
			return &WriteError{Op: "encode", Err: fmt.Errorf("cue %d has no text", c.Index)}
		}
		if c.Start > c.End {
			return &WriteError{Op: "encode", Err: fmt.Errorf("cue %d ends before it starts", c.Index)}
		}
		if hasCueHeader(c.Lines) {
			return &WriteError{Op: "encode", Err: fmt.Errorf("cue %d text contains a cue header", c.Index)}
		}
		fmt.Fprintf(bw, "%d\n%s --> %s\n", c.Index, c.Start, c.End)
		for _, line := range c.Lines {
			bw.WriteString(line)
			bw.WriteByte('\n')
		}
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return &WriteError{Op: "write", Err: err}
	}
	return nil
}

// WriteFile writes f to path. Content goes to a temporary file in the same
// directory first and is renamed into place, so path is either left untouched
// or fully written.
func WriteFile(path string, f *File) error {
	content, err := Format(f)
	if err != nil {
		if we, ok := err.(*WriteError); ok {
			we.Path = path
		}
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &WriteError{Path: path, Op: "create directory", Err: err}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &WriteError{Path: path, Op: "create", Err: err}
	}
	tmpName := tmp.Name()
	cleanup := func() { os.Remove(tmpName) }

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		cleanup()
		return &WriteError{Path: path, Op: "write", Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return &WriteError{Path: path, Op: "sync", Err: err}
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return &WriteError{Path: path, Op: "close", Err: err}
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		cleanup()
		return &WriteError{Path: path, Op: "chmod", Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return &WriteError{Path: path, Op: "rename", Err: err}
	}
	return nil
}
