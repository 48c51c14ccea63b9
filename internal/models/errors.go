package models

import (
	"errors"
	"fmt"
)

// ErrorType represents different categories of processing errors
type ErrorType int

const (
	ErrPackageParse ErrorType = iota
	ErrSanity
	ErrFileOp
	ErrInvalidConfig
	ErrStateFormat
	ErrSigning
	ErrTooFewPackages
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	switch e {
	case ErrPackageParse:
		return "PackageParse"
	case ErrSanity:
		return "Sanity"
	case ErrFileOp:
		return "FileOp"
	case ErrInvalidConfig:
		return "InvalidConfig"
	case ErrStateFormat:
		return "StateFormat"
	case ErrSigning:
		return "Signing"
	case ErrTooFewPackages:
		return "TooFewPackages"
	default:
		return "Unknown"
	}
}

// ProcessError represents an error while processing a repository or a dump
type ProcessError struct {
	Type ErrorType
	// Repository or dump the error relates to, may be empty
	Source string
	Err    error
}

// Error implements the error interface
func (e *ProcessError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Source, e.Err)
	}
	return fmt.Sprintf("[%s] %v", e.Type, e.Err)
}

// Unwrap returns the wrapped error
func (e *ProcessError) Unwrap() error {
	return e.Err
}

// Severity distinguishes schema bugs from bad input data
type Severity int

const (
	// StructuralFailure means a field has the wrong runtime shape. It indicates a
	// producer bug and aborts ingestion.
	StructuralFailure Severity = iota + 1
	// ContentProblem means a field has the right shape but invalid content. The
	// record may be logged and skipped.
	ContentProblem
)

// String returns the string representation of Severity
func (s Severity) String() string {
	switch s {
	case StructuralFailure:
		return "StructuralFailure"
	case ContentProblem:
		return "ContentProblem"
	default:
		return "Unknown"
	}
}

var (
	ErrStructuralFailure = errors.New("package sanity check failure")
	ErrContentProblem    = errors.New("package sanity check problem")
)

// SanityError is returned by sanity checks
type SanityError struct {
	Severity Severity
	// Package is the name of the offending record
	Package string
	Field   string
	// Message is the check description, e.g. "is not stripped" or "is not a string"
	Message string
	Value   string
}

// Error implements the error interface
func (e *SanityError) Error() string {
	if e.Severity == StructuralFailure {
		return fmt.Sprintf("%s: %s %s", e.Package, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s %s: %q", e.Package, e.Field, e.Message, e.Value)
}

// Is lets errors.Is match the severity sentinels
func (e *SanityError) Is(target error) bool {
	switch target {
	case ErrStructuralFailure:
		return e.Severity == StructuralFailure
	case ErrContentProblem:
		return e.Severity == ContentProblem
	}
	return false
}

// IsStructural reports whether err carries a StructuralFailure
func IsStructural(err error) bool {
	return errors.Is(err, ErrStructuralFailure)
}

// IsContentProblem reports whether err carries a ContentProblem
func IsContentProblem(err error) bool {
	return errors.Is(err, ErrContentProblem)
}
