package dispatch

import "github.com/pfcm/osc-embedded"

// Handler is something that can handle an OSC message delivered by a
// Server's Cycle. Implementations must not panic or block indefinitely:
// Cycle calls handlers synchronously, in registration order, on its
// caller's goroutine.
type Handler interface {
	HandleMessage(*osc.Message)
}

// HandlerFunc adapts a plain function to a Handler.
type HandlerFunc func(*osc.Message)

func (f HandlerFunc) HandleMessage(m *osc.Message) { f(m) }
