package osc

import "errors"

// ErrFormat is returned (optionally wrapped via fmt.Errorf's %w) whenever a
// packet, message, bundle or argument does not follow the OSC 1.0 wire
// format. Callers should use errors.Is(err, ErrFormat) rather than comparing
// against a specific wrapped message.
var ErrFormat = errors.New("osc: malformed packet")

// UnknownTypeTagError reports a type tag character that this package does
// not know how to decode. It wraps ErrFormat so errors.Is(err, ErrFormat)
// still succeeds.
type UnknownTypeTagError struct {
	Tag byte
}

func (e *UnknownTypeTagError) Error() string {
	return "osc: unknown type tag " + string(rune(e.Tag))
}

func (e *UnknownTypeTagError) Unwrap() error { return ErrFormat }
