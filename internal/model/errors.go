package model

import (
	"errors"
	"fmt"
)

// ConfigError reports a malformed lexicon or axis definition. It is fatal:
// a bad lexicon would silently corrupt every score, so the run fails before
// any scoring starts.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "lexicon config: " + e.Reason
	}
	return fmt.Sprintf("lexicon config: %s: %s", e.Field, e.Reason)
}

// EmptyInputError reports a zero-word transcript. The item is skipped and
// reported; the batch continues. It is never downgraded to a zero score.
type EmptyInputError struct {
	TranscriptID string
}

func (e *EmptyInputError) Error() string {
	if e.TranscriptID == "" {
		return "empty input: transcript has no words"
	}
	return fmt.Sprintf("empty input: transcript %s has no words", e.TranscriptID)
}

// IsEmptyInput reports whether err is (or wraps) an EmptyInputError.
func IsEmptyInput(err error) bool {
	var e *EmptyInputError
	return errors.As(err, &e)
}

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var e *ConfigError
	return errors.As(err, &e)
}
