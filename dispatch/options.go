package dispatch

import "log"

// Option configures a Server at construction time, following the
// functional-options pattern used throughout this package's dependencies
// for optional server configuration.
type Option func(*Server)

// WithClock sets the Server's time source. There is no default: NewServer
// returns an error if no WithClock option is given.
func WithClock(c Clock) Option {
	return func(s *Server) { s.clock = c }
}

// WithMaxPacketsPerCycle bounds how many datagrams a single Cycle call will
// ingest from the Transport before returning, even if more are waiting.
// The default, 0, means unbounded: Cycle drains the Transport completely
// every call, which is what the original implementation's cycle() always
// did (see the package's design notes for why that default is kept despite
// letting one slow Transport starve a Server's caller).
func WithMaxPacketsPerCycle(n int) Option {
	return func(s *Server) { s.maxPacketsPerCycle = n }
}

// WithStoredQueueCap sets a soft cap on how many not-yet-due messages
// Cycle will carry forward between calls. Exceeding it does not drop or
// reject messages; it only logs a warning, since the original
// implementation never rejected anything here either and silently
// dropping due messages would violate delivery. The default, 0, disables
// the check.
func WithStoredQueueCap(n int) Option {
	return func(s *Server) { s.storedQueueCap = n }
}

func (s *Server) warnIfOverStoredCap() {
	if s.storedQueueCap > 0 && len(s.stored) > s.storedQueueCap {
		log.Printf("dispatch: stored message queue has %d entries, over the configured soft cap of %d", len(s.stored), s.storedQueueCap)
	}
}
