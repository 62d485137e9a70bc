package osc

import "fmt"

// Message is a single OSC message: an address and a sequence of arguments.
// The type tag string required by the wire format is never stored
// separately; it is derived from Args, so the two can never drift out of
// sync the way a hand-maintained parallel array could.
type Message struct {
	Address string
	Args    []Argument
}

// NewMessage returns an empty message addressed to "/", matching the
// implicit default address of a freshly constructed message.
func NewMessage() *Message {
	return &Message{Address: "/"}
}

// SetAddress replaces the message's address.
func (m *Message) SetAddress(addr string) {
	m.Address = addr
}

// AddInt32 appends an int32 argument and returns m, for chaining.
func (m *Message) AddInt32(i int32) *Message {
	m.Args = append(m.Args, Int32(i))
	return m
}

// AddFloat32 appends a float32 argument and returns m, for chaining.
func (m *Message) AddFloat32(f float32) *Message {
	m.Args = append(m.Args, Float32(f))
	return m
}

// AddString appends a string argument and returns m, for chaining.
func (m *Message) AddString(s string) *Message {
	m.Args = append(m.Args, String(s))
	return m
}

// AddBlob appends a blob argument, copying b, and returns m, for chaining.
func (m *Message) AddBlob(b []byte) *Message {
	cp := make(Blob, len(b))
	copy(cp, b)
	m.Args = append(m.Args, cp)
	return m
}

// ArgumentCount returns the number of arguments in the message.
func (m *Message) ArgumentCount() int {
	return len(m.Args)
}

// ArgumentType returns the type tag character of argument i, or 0 if i is
// out of range.
func (m *Message) ArgumentType(i int) rune {
	if i < 0 || i >= len(m.Args) {
		return 0
	}
	return m.Args[i].TypeTag()
}

// GetInt32 returns the value of argument i if it is an int32, or 0
// otherwise (including when i is out of range).
func (m *Message) GetInt32(i int) int32 {
	if v, ok := m.arg(i).(Int32); ok {
		return int32(v)
	}
	return 0
}

// GetFloat32 returns the value of argument i if it is a float32, or 0
// otherwise (including when i is out of range).
func (m *Message) GetFloat32(i int) float32 {
	if v, ok := m.arg(i).(Float32); ok {
		return float32(v)
	}
	return 0
}

// GetString returns the value of argument i if it is a string, or ""
// otherwise (including when i is out of range).
func (m *Message) GetString(i int) string {
	if v, ok := m.arg(i).(String); ok {
		return string(v)
	}
	return ""
}

// GetBlob returns the value of argument i if it is a blob, or nil
// otherwise (including when i is out of range). The returned slice is not
// a copy; callers that need to retain it beyond the message's lifetime
// should copy it themselves.
func (m *Message) GetBlob(i int) []byte {
	if v, ok := m.arg(i).(Blob); ok {
		return v
	}
	return nil
}

func (m *Message) arg(i int) Argument {
	if i < 0 || i >= len(m.Args) {
		return nil
	}
	return m.Args[i]
}

// Clone returns a deep copy of m: blob arguments get their own backing
// array, so mutating the clone's blobs never affects m's.
func (m *Message) Clone() *Message {
	clone := &Message{Address: m.Address, Args: make([]Argument, len(m.Args))}
	for i, a := range m.Args {
		if b, ok := a.(Blob); ok {
			cp := make(Blob, len(b))
			copy(cp, b)
			clone.Args[i] = cp
			continue
		}
		clone.Args[i] = a
	}
	return clone
}

// PaddedLen returns the exact number of bytes Append will add to its
// argument for this message, without actually encoding it.
func (m *Message) PaddedLen() int {
	n := pad4(len(m.Address) + 1)
	n += pad4(len(m.Args) + 2) // leading ',' plus one tag byte per argument, plus NUL
	for _, a := range m.Args {
		switch v := a.(type) {
		case Int32, Float32:
			n += 4
		case String:
			n += pad4(len(v) + 1)
		case Blob:
			n += 4 + pad4(len(v))
		}
	}
	return n
}

// Append encodes the message and appends it to the provided slice,
// returning the extended slice.
func (m *Message) Append(b []byte) []byte {
	b = String(m.Address).Append(b)

	typeTag := make([]byte, 0, len(m.Args)+1)
	typeTag = append(typeTag, ',')
	for _, a := range m.Args {
		typeTag = append(typeTag, byte(a.TypeTag()))
	}
	b = String(typeTag).Append(b)

	for _, a := range m.Args {
		b = a.Append(b)
	}
	return b
}

// Encode is a convenience for Append(nil).
func (m *Message) Encode() []byte {
	return m.Append(nil)
}

// DecodeMessage parses a single OSC message (no "#bundle" framing) from buf.
func DecodeMessage(buf []byte) (*Message, error) {
	var addr String
	buf, err := addr.Consume(buf)
	if err != nil {
		return nil, fmt.Errorf("osc: reading address: %w", err)
	}
	if len(addr) == 0 || addr[0] != '/' {
		return nil, fmt.Errorf("%w: address %q does not start with '/'", ErrFormat, addr)
	}

	var tt String
	buf, err = tt.Consume(buf)
	if err != nil {
		return nil, fmt.Errorf("osc: reading type tag string: %w", err)
	}
	if len(tt) == 0 || tt[0] != ',' {
		return nil, fmt.Errorf("%w: type tag string %q does not start with ','", ErrFormat, tt)
	}

	args := make([]Argument, len(tt)-1)
	for i, t := range tt[1:] {
		mk, ok := newByTypeTag[t]
		if !ok {
			return nil, fmt.Errorf("osc: reading argument %d: %w", i, &UnknownTypeTagError{Tag: byte(t)})
		}
		a := mk()
		buf, err = a.(consumer).Consume(buf)
		if err != nil {
			return nil, fmt.Errorf("osc: reading argument %d (%c): %w", i, t, err)
		}
		// Consume needs a pointer receiver; store the plain value, as the
		// builder methods do.
		switch v := a.(type) {
		case *Int32:
			args[i] = *v
		case *Float32:
			args[i] = *v
		case *String:
			args[i] = *v
		case *Blob:
			args[i] = *v
		}
	}
	if len(buf) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes after message", ErrFormat, len(buf))
	}

	return &Message{Address: string(addr), Args: args}, nil
}
