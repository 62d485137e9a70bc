// Package dispatch implements a single-threaded, cooperatively-scheduled
// OSC server: a handler registry plus a two-queue message scheduler that a
// caller drives by repeatedly calling Cycle (or just calling Loop once).
// Nothing here spawns a goroutine; concurrency, if any, belongs to the
// Transport a caller supplies.
package dispatch

import (
	"errors"
	"fmt"
	"log"
	"reflect"

	"github.com/pfcm/osc-embedded"
	"github.com/pfcm/osc-embedded/pattern"
)

// ErrNoClock is returned by NewServer when no WithClock option is given.
var ErrNoClock = errors.New("dispatch: a clock is required, pass dispatch.WithClock")

// ErrHandlerNotFound is returned by RemoveHandler when no matching handler
// is registered.
var ErrHandlerNotFound = errors.New("dispatch: handler not found")

type registration struct {
	pattern string
	handler Handler
}

type pendingMessage struct {
	msg     *osc.Message
	timetag uint64
}

// Server holds a handler registry and the two message queues described in
// the package doc: stored (carried over between cycles) and parsed (built
// fresh each cycle from newly ingested packets). Both are ordinary slices:
// Go's garbage collector makes the manual free()-per-entry bookkeeping a
// linked list would need in a non-GC'd language unnecessary.
type Server struct {
	clock              Clock
	handlers           []registration
	stored             []pendingMessage
	maxPacketsPerCycle int
	storedQueueCap     int
}

// NewServer builds a Server. WithClock must be one of opts, or NewServer
// returns ErrNoClock.
func NewServer(opts ...Option) (*Server, error) {
	s := &Server{}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		return nil, ErrNoClock
	}
	return s, nil
}

// AddHandler registers h to be called for every due message whose address
// matches pattern, in addition to (not instead of) any handler already
// registered for an overlapping pattern. Registration order is preserved
// and is the order in which matching handlers are invoked.
func (s *Server) AddHandler(addrPattern string, h Handler) {
	s.handlers = append(s.handlers, registration{pattern: addrPattern, handler: h})
}

// RemoveHandler removes the first handler registered for pattern whose
// identity matches h. It returns ErrHandlerNotFound if there is no such
// registration.
func (s *Server) RemoveHandler(addrPattern string, h Handler) error {
	for i, r := range s.handlers {
		if r.pattern == addrPattern && sameHandler(r.handler, h) {
			s.handlers = append(s.handlers[:i], s.handlers[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: pattern %q", ErrHandlerNotFound, addrPattern)
}

func sameHandler(a, b Handler) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	va := reflect.ValueOf(a)
	if va.Kind() == reflect.Func {
		return va.Pointer() == reflect.ValueOf(b).Pointer()
	}
	if !ta.Comparable() {
		return false
	}
	return a == b
}

// Cycle runs one iteration of the scheduler: first it retries every stored
// message that is now due, then it ingests waiting packets from t (parsing
// each into zero or more messages with their inherited timetag), firing any
// of those that are already due and carrying the rest forward into stored
// for a future Cycle.
//
// A malformed packet is logged and dropped; it never aborts the cycle.
func (s *Server) Cycle(t Transport) error {
	now := s.effectiveNow()
	s.stored = s.drain(s.stored, now)

	for packets := 0; ; packets++ {
		if s.maxPacketsPerCycle > 0 && packets >= s.maxPacketsPerCycle {
			break
		}
		size := t.PacketSize()
		if size == 0 {
			break
		}
		buf := make([]byte, size)
		if err := t.ReadPacket(buf); err != nil {
			// Mirrors the source's "if allocation fails, stop ingesting
			// this cycle": a failing read ends ingestion for this Cycle
			// without discarding whatever was already drained above.
			log.Printf("dispatch: stopping ingestion this cycle: %v", err)
			break
		}
		pkt, err := osc.Decode(buf)
		if err != nil {
			log.Printf("dispatch: dropping malformed packet: %v", err)
			continue
		}
		parsed := flatten(pkt)
		now = s.effectiveNow()
		parsed = s.drain(parsed, now)
		s.stored = append(s.stored, parsed...)
	}
	s.warnIfOverStoredCap()
	return nil
}

// Loop calls Cycle repeatedly, forever, stopping only if Cycle returns an
// error. Cycle always returns nil, so Loop does not return;
// WithMaxPacketsPerCycle bounds each Cycle call but does not make Loop
// yield to other work on its goroutine.
func (s *Server) Loop(t Transport) error {
	for {
		if err := s.Cycle(t); err != nil {
			return err
		}
	}
}

// effectiveNow reads the clock, substituting "fire everything due" when
// the clock itself reports osc.Immediately, matching the source's
// treatment of a clock that has no real notion of time.
func (s *Server) effectiveNow() uint64 {
	now := s.clock.Now()
	if now == uint64(osc.Immediately) {
		return ^uint64(0)
	}
	return now
}

// drain fires every entry whose timetag is due (<= now) against the
// current handler registry, in place, returning the entries that are
// either not yet due or matched no handler at all.
func (s *Server) drain(entries []pendingMessage, now uint64) []pendingMessage {
	kept := entries[:0]
	for _, e := range entries {
		if e.timetag > now {
			kept = append(kept, e)
			continue
		}
		fired := false
		for _, r := range s.handlers {
			if pattern.Match(r.pattern, e.msg.Address) {
				r.handler.HandleMessage(e.msg)
				fired = true
			}
		}
		if !fired {
			kept = append(kept, e)
		}
	}
	return kept
}

// flatten walks a decoded packet into a flat list of (message, effective
// timetag) pairs: a top-level message is immediate, and every message
// nested in a bundle inherits that bundle's own timetag.
func flatten(pkt osc.Packet) []pendingMessage {
	if pkt.Message != nil {
		return []pendingMessage{{msg: pkt.Message, timetag: uint64(osc.Immediately)}}
	}
	if pkt.Bundle != nil {
		return flattenBundle(pkt.Bundle)
	}
	return nil
}

func flattenBundle(bn *osc.Bundle) []pendingMessage {
	var out []pendingMessage
	for _, el := range bn.Elements {
		switch el.Kind {
		case osc.ElementMessage:
			out = append(out, pendingMessage{msg: el.Message, timetag: uint64(bn.Timetag)})
		case osc.ElementBundle:
			out = append(out, flattenBundle(el.Bundle)...)
		}
	}
	return out
}
