package osc

import (
	"encoding/binary"
	"fmt"
)

// ElementKind discriminates the two kinds of thing a bundle element can
// hold. Element is a closed tagged union over Message/Bundle rather than an
// open interface{}, matching the exhaustive switch the original C
// implementation's OSCElement used.
type ElementKind int

const (
	ElementMessage ElementKind = iota
	ElementBundle
)

// Element is one entry of a Bundle: either a Message or a nested Bundle,
// never both.
type Element struct {
	Kind    ElementKind
	Message *Message
	Bundle  *Bundle
}

// Bundle groups messages (and nested bundles) under a single Timetag that
// says when they should be acted on.
type Bundle struct {
	Timetag  Timetag
	Elements []Element
}

const bundleTag = "#bundle"

// NewBundle returns an empty bundle scheduled to fire immediately.
func NewBundle() *Bundle {
	return &Bundle{Timetag: Immediately}
}

// SetTimetag replaces the bundle's scheduled time.
func (bn *Bundle) SetTimetag(t Timetag) {
	bn.Timetag = t
}

// AddMessage appends a clone of msg to the bundle.
func (bn *Bundle) AddMessage(msg *Message) {
	bn.Elements = append(bn.Elements, Element{Kind: ElementMessage, Message: msg.Clone()})
}

// AddBundle appends a clone of child to the bundle.
func (bn *Bundle) AddBundle(child *Bundle) {
	bn.Elements = append(bn.Elements, Element{Kind: ElementBundle, Bundle: child.Clone()})
}

// Clone returns a deep copy of bn.
func (bn *Bundle) Clone() *Bundle {
	clone := &Bundle{Timetag: bn.Timetag, Elements: make([]Element, len(bn.Elements))}
	for i, el := range bn.Elements {
		switch el.Kind {
		case ElementMessage:
			clone.Elements[i] = Element{Kind: ElementMessage, Message: el.Message.Clone()}
		case ElementBundle:
			clone.Elements[i] = Element{Kind: ElementBundle, Bundle: el.Bundle.Clone()}
		}
	}
	return clone
}

// PaddedLen returns the exact number of bytes Append will add for this
// bundle, without encoding it.
func (bn *Bundle) PaddedLen() int {
	n := 8 + 8 // "#bundle\0" plus the 8-byte timetag
	for _, el := range bn.Elements {
		n += 4 // length prefix
		switch el.Kind {
		case ElementMessage:
			n += el.Message.PaddedLen()
		case ElementBundle:
			n += el.Bundle.PaddedLen()
		}
	}
	return n
}

// Append encodes the bundle and appends it to the provided slice, returning
// the extended slice.
func (bn *Bundle) Append(b []byte) []byte {
	b = append(b, bundleTag...)
	b = append(b, 0) // "#bundle" is 7 bytes; the 8th is this NUL.
	b = binary.BigEndian.AppendUint64(b, uint64(bn.Timetag))
	for _, el := range bn.Elements {
		switch el.Kind {
		case ElementMessage:
			b = binary.BigEndian.AppendUint32(b, uint32(el.Message.PaddedLen()))
			b = el.Message.Append(b)
		case ElementBundle:
			b = binary.BigEndian.AppendUint32(b, uint32(el.Bundle.PaddedLen()))
			b = el.Bundle.Append(b)
		}
	}
	return b
}

// Encode is a convenience for Append(nil).
func (bn *Bundle) Encode() []byte {
	return bn.Append(nil)
}

// DecodeBundle parses a "#bundle"-framed packet from buf. inherited is the
// timetag of the enclosing bundle (or Immediately, for a top-level packet);
// a nested bundle is rejected if its own timetag is earlier than inherited,
// unless inherited is Immediately.
func DecodeBundle(buf []byte, inherited Timetag) (*Bundle, error) {
	var tag String
	rest, err := tag.Consume(buf)
	if err != nil {
		return nil, fmt.Errorf("osc: reading bundle tag: %w", err)
	}
	if string(tag) != bundleTag {
		return nil, fmt.Errorf("%w: expected %q, got %q", ErrFormat, bundleTag, tag)
	}
	if len(rest) < 8 {
		return nil, fmt.Errorf("%w: bundle timetag needs 8 bytes, got %d", ErrFormat, len(rest))
	}
	tt := Timetag(binary.BigEndian.Uint64(rest))
	if inherited != Immediately && tt < inherited {
		return nil, fmt.Errorf("%w: nested bundle timetag precedes its enclosing bundle", ErrFormat)
	}
	rest = rest[8:]

	bn := &Bundle{Timetag: tt}
	for len(rest) > 0 {
		if len(rest) < 4 {
			return nil, fmt.Errorf("%w: bundle element length needs 4 bytes, got %d", ErrFormat, len(rest))
		}
		size := int(binary.BigEndian.Uint32(rest))
		rest = rest[4:]
		if size < 0 || size > len(rest) {
			return nil, fmt.Errorf("%w: bundle element claims %d bytes, only %d available", ErrFormat, size, len(rest))
		}
		el, err := decodeElement(rest[:size], tt)
		if err != nil {
			return nil, err
		}
		bn.Elements = append(bn.Elements, el)
		rest = rest[size:]
	}
	return bn, nil
}

func decodeElement(buf []byte, inherited Timetag) (Element, error) {
	pkt, err := decode(buf, inherited)
	if err != nil {
		return Element{}, err
	}
	if pkt.Message != nil {
		return Element{Kind: ElementMessage, Message: pkt.Message}, nil
	}
	return Element{Kind: ElementBundle, Bundle: pkt.Bundle}, nil
}
