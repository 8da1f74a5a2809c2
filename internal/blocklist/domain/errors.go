package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedStatus is wrapped when a remote source answers with a non-200 status.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
	// ErrShortRead is wrapped when fewer bytes arrive than the server announced.
	ErrShortRead = errors.New("data is less than the expected amount")
	// ErrUnsupportedScheme is wrapped for locators that are not http, https or file.
	ErrUnsupportedScheme = errors.New("unsupported scheme")
)

// RetrievalError reports that a source could not be loaded.
type RetrievalError struct {
	Source string
	Err    error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("[%s] could not be loaded: %v", e.Source, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// DecodingError reports that a source's bytes could not be decoded to text.
type DecodingError struct {
	Source   string
	Encoding string
	Err      error
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("[%s] could not be decoded as %s: %v", e.Source, e.Encoding, e.Err)
}

func (e *DecodingError) Unwrap() error { return e.Err }

// ConfigError reports a missing or unreadable configuration file.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// IsSourceFailure reports whether err is a per-source failure that the
// ignore-retrieval-failure mode may downgrade to a warning.
func IsSourceFailure(err error) bool {
	var re *RetrievalError
	var de *DecodingError
	return errors.As(err, &re) || errors.As(err, &de)
}
