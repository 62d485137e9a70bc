package osc

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// Argument represents a single OSC 1.0 value carried by a message: an
// int32, a float32, a string or a blob. There is deliberately no variant for
// the OSC 1.1 extras (timetag, true/false/null/impulse) that some later
// implementations add as argument types; this package only speaks the
// OSC 1.0 core set.
type Argument interface {
	// TypeTag returns the single character used in a message's type tag
	// string for this argument.
	TypeTag() rune
	// Append appends the binary representation of the argument to the
	// provided byte slice, returning the extended slice.
	Append([]byte) []byte
}

// consumer is implemented by a pointer to each Argument type.
type consumer interface {
	Argument
	// Consume fills in the argument from the provided bytes, returning
	// whatever bytes are left over.
	Consume([]byte) ([]byte, error)
}

// newByTypeTag constructs a fresh, zero-valued Argument for a given type
// tag character, used while decoding a message's arguments in lockstep with
// its type tag string.
var newByTypeTag = map[rune]func() Argument{
	Int32(0).TypeTag():   func() Argument { return new(Int32) },
	Float32(0).TypeTag(): func() Argument { return new(Float32) },
	String("").TypeTag(): func() Argument { return new(String) },
	Blob(nil).TypeTag():  func() Argument { return new(Blob) },
}

// AsString is a convenience for building an *String argument inline.
func AsString(s string) *String {
	os := String(s)
	return &os
}

// Int32Of builds an *Int32 argument from any integer type.
func Int32Of[T constraints.Integer](i T) *Int32 {
	ii := Int32(i)
	return &ii
}

// Int32 is the OSC int32: a "32-bit big-endian two's complement integer".
type Int32 int32

func (Int32) TypeTag() rune { return 'i' }

func (i Int32) Append(b []byte) []byte {
	return binary.BigEndian.AppendUint32(b, uint32(i))
}

func (i *Int32) Consume(b []byte) ([]byte, error) {
	if l := len(b); l < 4 {
		return nil, fmt.Errorf("%w: int32 needs 4 bytes, got %d", ErrFormat, l)
	}
	*i = Int32(binary.BigEndian.Uint32(b))
	return b[4:], nil
}

func (i Int32) String() string { return fmt.Sprintf("Int32(%d)", i) }

// Float32 is a "32-bit big-endian IEEE 754 floating point number".
type Float32 float32

func (Float32) TypeTag() rune { return 'f' }

func (f Float32) Append(b []byte) []byte {
	return binary.BigEndian.AppendUint32(b, math.Float32bits(float32(f)))
}

func (f *Float32) Consume(b []byte) ([]byte, error) {
	if l := len(b); l < 4 {
		return nil, fmt.Errorf("%w: float32 needs 4 bytes, got %d", ErrFormat, l)
	}
	*f = Float32(math.Float32frombits(binary.BigEndian.Uint32(b)))
	return b[4:], nil
}

func (f Float32) String() string { return fmt.Sprintf("Float32(%f)", f) }

// String is an ASCII string; on the wire it is NUL-terminated and padded to
// a 4-byte boundary.
type String string

func (String) TypeTag() rune { return 's' }

func (s String) Append(b []byte) []byte {
	b = append(b, s...)
	// 0 pad at least once, at most 4 times, until the total length is a
	// multiple of 4 bytes.
	b = append(b, 0)
	for len(b)%4 > 0 {
		b = append(b, 0)
	}
	return b
}

func (s *String) Consume(b []byte) ([]byte, error) {
	end := bytes.IndexByte(b, 0)
	if end < 0 {
		return nil, fmt.Errorf("%w: unterminated string %q", ErrFormat, b)
	}
	*s = String(b[:end])
	end = min(pad4(end+1), len(b))
	return b[end:], nil
}

func (s String) String() string { return fmt.Sprintf("String(%q)", string(s)) }

// Blob is an arbitrary byte string; on the wire it is prefixed with its
// length as an int32, then padded to a 4-byte boundary.
type Blob []byte

func (Blob) TypeTag() rune { return 'b' }

func (bl Blob) Append(b []byte) []byte {
	b = binary.BigEndian.AppendUint32(b, uint32(len(bl)))
	b = append(b, bl...)
	for i := len(bl); i < pad4(len(bl)); i++ {
		b = append(b, 0)
	}
	return b
}

func (bl *Blob) Consume(b []byte) ([]byte, error) {
	if l := len(b); l < 4 {
		return nil, fmt.Errorf("%w: blob length needs 4 bytes, got %d", ErrFormat, l)
	}
	size := int(binary.BigEndian.Uint32(b))
	if size < 0 {
		return nil, fmt.Errorf("%w: blob has negative length %d", ErrFormat, size)
	}
	b = b[4:]
	padded := pad4(size)
	if len(b) < padded {
		return nil, fmt.Errorf("%w: blob wants %d bytes, only %d available", ErrFormat, padded, len(b))
	}
	out := make(Blob, size)
	copy(out, b[:size])
	*bl = out
	return b[padded:], nil
}

func (bl Blob) String() string { return fmt.Sprintf("Blob(%d bytes)", len(bl)) }
