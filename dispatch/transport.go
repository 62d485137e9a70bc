package dispatch

// Transport is the host's packet source: something a Server can poll for
// waiting datagrams and drain into buffers. It deliberately says nothing
// about sockets; the reference implementation in package transport adapts
// a net.PacketConn to this interface, but Cycle never imports "net"
// directly, so it works equally well over serial links, ring buffers, or a
// transport built for tests.
type Transport interface {
	// PacketSize returns the size in bytes of the next waiting packet, or 0
	// if none is waiting.
	PacketSize() uint32
	// ReadPacket fills buf (sized exactly to the value PacketSize() most
	// recently returned) with the next waiting packet's bytes.
	ReadPacket(buf []byte) error
}

// Clock supplies the current time as a raw OSC Timetag, so a Server can
// decide which scheduled messages are due. A Clock that returns
// osc.Immediately tells Cycle to treat every pending message as due right
// now, mirroring how a freshly parsed top-level message is always
// "immediate".
type Clock interface {
	Now() uint64
}

// ClockFunc adapts a plain function to a Clock.
type ClockFunc func() uint64

func (f ClockFunc) Now() uint64 { return f() }
