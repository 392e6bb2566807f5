package config

import (
	"errors"
	"fmt"
)

// Validation failures. They are wrapped in a *ValidationError.
var (
	ErrMissingRequired    = errors.New("missing required arguments")
	ErrInvalidThreadCount = errors.New("invalid number of threads")
	ErrInvalidThroughput  = errors.New("invalid throughput")
)

// ErrHelp is returned when --help is requested
var ErrHelp = errors.New("help requested")

// ParseError reports malformed input: an unknown or malformed flag, or an
// environment variable that does not parse.
type ParseError struct {
	Source string // "command line" or the environment variable name
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError reports a semantically invalid configuration. MessageKey
// names the localized explanation shown to the user.
type ValidationError struct {
	Err        error
	MessageKey string
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
