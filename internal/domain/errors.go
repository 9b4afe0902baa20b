package domain

import (
	"errors"
	"fmt"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrSecretNotFound  = errors.New("secret not found")

	ErrChannelClosed  = errors.New("session channel closed")
	ErrChannelBusy    = errors.New("session channel busy")
	ErrCommandTimeout = errors.New("command timed out")
	ErrInvalidCommand = errors.New("invalid command")
	ErrCommandFailed  = errors.New("command failed")

	ErrParse          = errors.New("parse error")
	ErrApply          = errors.New("apply error")
	ErrReadOnlySystem = errors.New("system is read-only")
)

// IsChannelError reports whether err leaves the session unusable for the
// rest of a run.
func IsChannelError(err error) bool {
	return errors.Is(err, ErrChannelClosed) ||
		errors.Is(err, ErrChannelBusy) ||
		errors.Is(err, ErrCommandTimeout)
}

type ParseError struct {
	System SystemID
	Line   int
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse %s output line %d (%q): %s", e.System, e.Line, e.Text, e.Reason)
	}

	return fmt.Sprintf("parse %s output: %s", e.System, e.Reason)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

type ApplyError struct {
	System SystemID
	Action Action
	Key    string
	Err    error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("%s %s %q: %v", e.Action, e.System, e.Key, e.Err)
}

func (e *ApplyError) Is(target error) bool {
	return target == ErrApply
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}
