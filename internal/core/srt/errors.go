package srt

import (
	"errors"
	"fmt"
)

var (
	// ErrParse matches every *ParseError.
	ErrParse = errors.New("srt: parse error")

	// ErrWrite matches every *WriteError.
	ErrWrite = errors.New("srt: write error")
)

// ErrorKind classifies a parse failure.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindUnreadable
	KindEmpty
	KindIndex
	KindTimestamp
	KindStructure
	KindOrder
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindUnreadable:
		return "unreadable"
	case KindEmpty:
		return "empty"
	case KindIndex:
		return "bad index"
	case KindTimestamp:
		return "bad timestamp"
	case KindStructure:
		return "bad structure"
	case KindOrder:
		return "out of order"
	default:
		return "unknown"
	}
}

// ParseError reports why an input could not be read as SRT.
// Line is 1-based and zero when the error is not tied to a line.
type ParseError struct {
	Path string
	Line int
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	where := e.Path
	if where == "" {
		where = "input"
	}
	if e.Line > 0 {
		where = fmt.Sprintf("%s:%d", where, e.Line)
	}
	msg := fmt.Sprintf("%s: %s: %s", where, e.Kind, e.Msg)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// WriteError reports a failure while writing an output file.
type WriteError struct {
	Path string
	Op   string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %s: %v", e.Path, e.Op, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

func (e *WriteError) Is(target error) bool { return target == ErrWrite }
