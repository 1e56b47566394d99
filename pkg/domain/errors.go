package domain

import "errors"

// ErrSourceUnavailable is returned when the graph source cannot be reached
// or answers with something that is not a graph.
var ErrSourceUnavailable = errors.New("graph source unavailable")

// ErrSourceRejected is returned when the graph source refuses the request
// (e.g. no valid action found in the text).
var ErrSourceRejected = errors.New("graph source rejected request")

// ErrEmptySource is returned when there is no source text to send.
var ErrEmptySource = errors.New("source text is empty")

// ErrInputTooLarge is returned when source text exceeds the configured limit.
var ErrInputTooLarge = errors.New("input exceeds maximum allowed size")

// ErrInvalidUTF8 is returned when source text is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("input contains invalid UTF-8 sequences")

// ErrUnknownEvent is returned when a wire event names no known variant.
var ErrUnknownEvent = errors.New("unknown input event")

// ErrInvalidEvent is returned when a wire event carries a non-finite number.
var ErrInvalidEvent = errors.New("invalid input event")

// ErrViewNotFound is returned when a view ID is not registered.
var ErrViewNotFound = errors.New("view not found")

// ErrCacheMiss is returned by graph caches when no entry exists.
var ErrCacheMiss = errors.New("cache miss")
