package config

import (
	"errors"
	"fmt"

	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Error is a configuration error. It is fatal: no event may be processed
// with a selector that failed to configure.
type Error struct {
	// Selector is the instance name, empty for file-level problems.
	Selector string

	// Key is the configuration key at fault.
	Key string

	Message string

	// Pos is the CUE source position if known.
	Pos token.Pos
}

func (e *Error) Error() string {
	prefix := e.Key
	if e.Selector != "" {
		prefix = e.Selector + "." + e.Key
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			prefix, e.Message)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// IsConfigurationError reports whether err is, or wraps, a configuration error.
func IsConfigurationError(err error) bool {
	var ce *Error
	return errors.As(err, &ce)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error, key string) error {
	if err == nil {
		return nil
	}

	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &Error{Key: key, Message: err.Error()}
	}

	first := errs[0]
	cfgErr := &Error{Key: key, Message: first.Error()}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		cfgErr.Pos = positions[0]
	}
	return cfgErr
}
