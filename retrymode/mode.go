// Package retrymode implements the RetryMode capability: a closed
// enumeration selecting the defaults a Policy is built with, plus its
// resolution chain (explicit override, environment, profile file,
// LEGACY fallback).
package retrymode

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// Mode is a closed enumeration of the named default bundles.
type Mode int

const (
	Legacy Mode = iota
	Standard
)

func (m Mode) String() string {
	switch m {
	case Standard:
		return "STANDARD"
	default:
		return "LEGACY"
	}
}

// EnvRetryMode is the process environment variable consulted before
// falling back to profile configuration.
const EnvRetryMode = "AWS_RETRY_MODE"

// InvalidConfigError reports an unparseable retry mode string. It is
// fatal at policy construction time.
type InvalidConfigError struct {
	Value string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("retrymode: invalid retry mode %q, want \"legacy\" or \"standard\"", e.Value)
}

// ParseMode parses a retry mode string case-insensitively. An empty
// string is not a valid mode; callers that want a fallback for "unset"
// should check for emptiness before calling ParseMode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "legacy":
		return Legacy, nil
	case "standard":
		return Standard, nil
	default:
		return Legacy, &InvalidConfigError{Value: s}
	}
}

// MaxAttempts returns the default total attempt count (including the
// initial attempt) for m.
func MaxAttempts(m Mode) int {
	if m == Standard {
		return 3
	}
	return 4
}

// NumRetries returns the default retry count (MaxAttempts minus the
// initial attempt) for m.
func NumRetries(m Mode) int {
	return MaxAttempts(m) - 1
}

// ProfileSource looks up the retry_mode property of the active named
// profile in a shared configuration file. Loading that file is an
// external concern, so only the interface lives here.
type ProfileSource interface {
	RetryModeProperty() (value string, ok bool)
}

// ResolveDefault implements the resolution chain: explicit override
// (handled by callers before reaching here), then AWS_RETRY_MODE, then
// the profile file's retry_mode property, then LEGACY. profile may be
// nil, in which case the profile-file step is skipped.
//
// An invalid value at any step is fatal: ResolveDefault panics with an
// *InvalidConfigError.
func ResolveDefault(profile ProfileSource) Mode {
	if v := os.Getenv(EnvRetryMode); v != "" {
		mode, err := ParseMode(v)
		if err != nil {
			panic(err)
		}
		return mode
	}
	if profile != nil {
		if v, ok := profile.RetryModeProperty(); ok && v != "" {
			mode, err := ParseMode(v)
			if err != nil {
				panic(err)
			}
			return mode
		}
	}
	return Legacy
}

var (
	defaultOnce sync.Once
	defaultMode Mode
)

// Default returns the process-lifetime cached default retry mode,
// resolved once from the environment on first call. Use ResolveDefault
// directly in tests that need a non-cached lookup.
func Default() Mode {
	defaultOnce.Do(func() {
		defaultMode = ResolveDefault(nil)
	})
	return defaultMode
}
