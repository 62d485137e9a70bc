package osc

import (
	"errors"
	"reflect"
	"testing"
)

func TestBundleRoundTrip(t *testing.T) {
	inner := NewBundle()
	inner.SetTimetag(Timetag(100))
	inner.AddMessage(NewMessage().AddInt32(1))

	outer := NewBundle()
	outer.SetTimetag(Timetag(50))
	outer.AddMessage(NewMessage().AddString("top"))
	outer.AddBundle(inner)

	enc := outer.Append(nil)
	if len(enc) != outer.PaddedLen() {
		t.Fatalf("PaddedLen() = %d, Append produced %d bytes", outer.PaddedLen(), len(enc))
	}

	pkt, err := Decode(enc)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if pkt.Bundle == nil {
		t.Fatalf("Decode returned a message, want a bundle")
	}
	if !reflect.DeepEqual(outer, pkt.Bundle) {
		t.Fatalf("Bundle did not survive round trip:\nwant: %+v\n got: %+v", outer, pkt.Bundle)
	}
}

func TestBundleNestedTimetagOrdering(t *testing.T) {
	inner := NewBundle()
	inner.SetTimetag(Timetag(10))
	inner.AddMessage(NewMessage())

	outer := NewBundle()
	outer.SetTimetag(Timetag(20)) // later than inner: invalid nesting
	outer.AddBundle(inner)

	_, err := Decode(outer.Append(nil))
	if !errors.Is(err, ErrFormat) {
		t.Fatalf("Decode of out-of-order nested bundle = %v, want ErrFormat", err)
	}
}

func TestBundleNestedTimetagOrderingAllowsImmediately(t *testing.T) {
	// A top-level packet always inherits Immediately, so any timetag is
	// valid at the outermost level regardless of nested ordering rules.
	bn := NewBundle()
	bn.SetTimetag(Timetag(1 << 40))
	bn.AddMessage(NewMessage())

	if _, err := Decode(bn.Append(nil)); err != nil {
		t.Fatalf("Decode: %v", err)
	}
}

func TestBundleClone(t *testing.T) {
	bn := NewBundle()
	bn.AddMessage(NewMessage().AddBlob([]byte{1, 2, 3}))

	clone := bn.Clone()
	clone.Elements[0].Message.Args[0].(Blob)[0] = 0xff
	if bn.Elements[0].Message.Args[0].(Blob)[0] == 0xff {
		t.Fatalf("Clone shares storage with the original bundle")
	}
}

func TestPacketIterateAndToMessages(t *testing.T) {
	msgAt := func(addr string) *Message {
		m := NewMessage()
		m.SetAddress(addr)
		return m
	}

	inner := NewBundle()
	inner.AddMessage(msgAt("/inner/a"))
	inner.AddMessage(msgAt("/inner/b"))

	outer := NewBundle()
	outer.AddMessage(msgAt("/outer"))
	outer.AddBundle(inner)

	pkt := Packet{Bundle: outer}
	msgs := pkt.ToMessages()
	if len(msgs) != 3 {
		t.Fatalf("ToMessages() returned %d messages, want 3", len(msgs))
	}
	want := []string{"/outer", "/inner/a", "/inner/b"}
	for i, w := range want {
		if msgs[i].Address != w {
			t.Errorf("msgs[%d].Address = %q, want %q", i, msgs[i].Address, w)
		}
	}
}

func TestDecodeRejectsMalformedPacket(t *testing.T) {
	cases := [][]byte{
		nil,
		{},
		[]byte("not an osc packet"),
		[]byte("#notabundle\x00\x00\x00\x00"),
	}
	for _, c := range cases {
		if _, err := Decode(c); !errors.Is(err, ErrFormat) {
			t.Errorf("Decode(%q) = %v, want ErrFormat", c, err)
		}
	}
}
