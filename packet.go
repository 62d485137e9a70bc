package osc

import "fmt"

// Packet is the result of decoding a raw datagram: exactly one of Message
// or Bundle is set, mirroring the original implementation's OSCElement
// tagged union at the top level of the wire format.
type Packet struct {
	Message *Message
	Bundle  *Bundle
}

// Decode parses a raw OSC packet, dispatching on its first bytes: a
// leading '/' means a message, a leading "#bundle" means a bundle. Any
// other content is a format error.
func Decode(buf []byte) (Packet, error) {
	return decode(buf, Immediately)
}

func decode(buf []byte, inherited Timetag) (Packet, error) {
	switch {
	case len(buf) == 0:
		return Packet{}, fmt.Errorf("%w: empty packet", ErrFormat)
	case buf[0] == '/':
		msg, err := DecodeMessage(buf)
		if err != nil {
			return Packet{}, err
		}
		return Packet{Message: msg}, nil
	case buf[0] == '#':
		bn, err := DecodeBundle(buf, inherited)
		if err != nil {
			return Packet{}, err
		}
		return Packet{Bundle: bn}, nil
	default:
		return Packet{}, fmt.Errorf("%w: packet starts with %q, not '/' or \"#bundle\"", ErrFormat, buf[:1])
	}
}

// Iterate walks every Message reachable from p, including those nested
// inside bundles, calling handler on each in wire order. It stops and
// returns the first error handler returns.
func (p Packet) Iterate(handler func(*Message) error) error {
	if p.Message != nil {
		return handler(p.Message)
	}
	if p.Bundle != nil {
		return iterateBundle(p.Bundle, handler)
	}
	return nil
}

func iterateBundle(bn *Bundle, handler func(*Message) error) error {
	for _, el := range bn.Elements {
		switch el.Kind {
		case ElementMessage:
			if err := handler(el.Message); err != nil {
				return err
			}
		case ElementBundle:
			if err := iterateBundle(el.Bundle, handler); err != nil {
				return err
			}
		}
	}
	return nil
}

// ToMessages flattens every Message reachable from p into a single slice,
// discarding the bundle structure.
func (p Packet) ToMessages() []*Message {
	var out []*Message
	p.Iterate(func(m *Message) error {
		out = append(out, m)
		return nil
	})
	return out
}
