// Package trace provides the single error kind used by the SRL kernel.
//
// A trace error is a manual backtrace: every layer that forwards a failure
// appends a frame naming where it was and what it was trying to do. Callers
// never branch on the identity of a failure; they report it and move on.
//
// Frames are stored innermost first (the frame created by New comes first,
// each Wrap appends). Error() renders them outermost first, matching the
// "outer: inner" shape of fmt.Errorf("...: %w") chains elsewhere in the code.
package trace

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// Frame is one layer of a trace.
type Frame struct {
	// Location is "file.go:line" of the code that created the frame.
	Location string

	// Message describes the unmet precondition or the failed step.
	// May be empty when a layer only records that the failure passed through.
	Message string
}

func (f Frame) String() string {
	if f.Message == "" {
		return f.Location
	}
	return fmt.Sprintf("%s %q", f.Location, f.Message)
}

// Error is a chained failure value.
type Error struct {
	frames []Frame

	// cause is a foreign (non-trace) error that started the chain, if any.
	cause error
}

// New creates a one-frame trace error.
func New(format string, args ...any) *Error {
	return &Error{frames: []Frame{newFrame(2, format, args...)}}
}

// Wrap appends an outer frame to err and returns the result.
// A nil err yields nil. A foreign error becomes the cause of a new trace.
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	frame := newFrame(2, format, args...)

	var te *Error
	if errors.As(err, &te) {
		frames := make([]Frame, len(te.frames), len(te.frames)+1)
		copy(frames, te.frames)
		return &Error{frames: append(frames, frame), cause: te.cause}
	}
	return &Error{frames: []Frame{frame}, cause: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	parts := make([]string, 0, len(e.frames)+1)
	for i := len(e.frames) - 1; i >= 0; i-- {
		if e.frames[i].Message != "" {
			parts = append(parts, e.frames[i].Message)
		}
	}
	if e.cause != nil {
		parts = append(parts, e.cause.Error())
	}
	if len(parts) == 0 {
		return "trace: failure"
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the foreign cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Frames returns a copy of the frames, innermost first.
func (e *Error) Frames() []Frame {
	out := make([]Frame, len(e.frames))
	copy(out, e.frames)
	return out
}

// Innermost returns the message of the first frame that carries one.
// This is the precondition that originally failed.
func (e *Error) Innermost() string {
	for _, f := range e.frames {
		if f.Message != "" {
			return f.Message
		}
	}
	return ""
}

// Backtrace renders one frame per line, innermost first.
func (e *Error) Backtrace() string {
	var b strings.Builder
	for _, f := range e.frames {
		b.WriteString("ERR(")
		b.WriteString(f.String())
		b.WriteString(")\n")
	}
	if e.cause != nil {
		b.WriteString("CAUSE(")
		b.WriteString(e.cause.Error())
		b.WriteString(")\n")
	}
	return b.String()
}

// Frames returns the frames of err if it is (or wraps) a trace error.
func Frames(err error) []Frame {
	var te *Error
	if errors.As(err, &te) {
		return te.Frames()
	}
	return nil
}

func newFrame(skip int, format string, args ...any) Frame {
	loc := "unknown"
	if _, file, line, ok := runtime.Caller(skip); ok {
		loc = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return Frame{Location: loc, Message: msg}
}
