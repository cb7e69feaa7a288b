// Package errors defines the fatal errors that abort a build.
package errors

import (
	"fmt"
	"strings"
)

// FatalError is an interface for errors that may or may not be fatal.
type FatalError interface {
	Error() string
	IsFatal() bool
}

// CodedError is an interface for errors that carry an ErrorCode.
type CodedError interface {
	Error() string
	Code() ErrorCode
}

// OversizedModuleError indicates that a compiled module body does not fit
// into its fixed-size section.
type OversizedModuleError struct {
	Source   string
	Section  int
	Length   int
	Capacity int
}

func (e *OversizedModuleError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("module body is %d bytes, section capacity is %d bytes",
			e.Length, e.Capacity)
	}
	return fmt.Sprintf("module %s (section %d) is %d bytes, section capacity is %d bytes",
		e.Source, e.Section, e.Length, e.Capacity)
}

func (e *OversizedModuleError) IsFatal() bool { return true }
func (e *OversizedModuleError) Code() ErrorCode { return E1001 }

// LengthMismatchError indicates that the runtimes of the two variants have
// different byte lengths and cannot share one decision stub.
type LengthMismatchError struct {
	A int
	B int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("runtime lengths differ: %d bytes with PUSH0, %d bytes without", e.A, e.B)
}

func (e *LengthMismatchError) IsFatal() bool { return true }
func (e *LengthMismatchError) Code() ErrorCode { return E1002 }

// PlaceholderPatchError indicates that an immediate placeholder could not be
// patched in compiled stub code. Count holds the number of occurrences found.
type PlaceholderPatchError struct {
	Placeholder string
	Count       int
	Reason      string
}

func (e *PlaceholderPatchError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot patch placeholder %s: %s", e.Placeholder, e.Reason)
	}
	return fmt.Sprintf("placeholder %s must occur exactly once (found %d)", e.Placeholder, e.Count)
}

func (e *PlaceholderPatchError) IsFatal() bool { return true }
func (e *PlaceholderPatchError) Code() ErrorCode { return E1003 }

// SectionShiftError indicates a section shift outside the supported range.
type SectionShiftError struct {
	Shift int
	Min   int
	Max   int
}

func (e *SectionShiftError) Error() string {
	return fmt.Sprintf("section shift %d out of range [%d, %d]", e.Shift, e.Min, e.Max)
}

func (e *SectionShiftError) IsFatal() bool { return true }
func (e *SectionShiftError) Code() ErrorCode { return E1004 }

// ExternalProcessError indicates that an external tool exited unsuccessfully.
type ExternalProcessError struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExternalProcessError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s exited with code %d", e.Command, e.ExitCode)
	if msg := strings.TrimSpace(e.Stderr); msg != "" {
		b.WriteString(": ")
		b.WriteString(msg)
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ExternalProcessError) Unwrap() error { return e.Err }
func (e *ExternalProcessError) IsFatal() bool { return true }
func (e *ExternalProcessError) Code() ErrorCode { return E2001 }

// CompilerNotFoundError indicates that no usable compiler binary was found,
// even after attempting to install one.
type CompilerNotFoundError struct {
	MinVersion string
	Searched   []string
}

func (e *CompilerNotFoundError) Error() string {
	msg := fmt.Sprintf("no solc >= %s found", e.MinVersion)
	if len(e.Searched) > 0 {
		msg += " (searched " + strings.Join(e.Searched, ", ") + ")"
	}
	return msg
}

func (e *CompilerNotFoundError) IsFatal() bool { return true }
func (e *CompilerNotFoundError) Code() ErrorCode { return E2002 }
