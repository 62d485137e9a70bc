// Package transport provides a reference dispatch.Transport backed by a
// net.PacketConn. It is deliberately kept outside the import graph of
// package osc/dispatch/pattern: those packages only know about
// dispatch.Transport, an interface, so a caller can swap this out for a
// serial link, an in-memory queue in tests, or anything else without
// touching the core.
package transport

import (
	"context"
	"fmt"
	"net"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// maxDatagram is large enough for any UDP payload; OSC over UDP in
// practice never gets close to it.
const maxDatagram = 1 << 16

// UDP adapts a net.PacketConn into a dispatch.Transport. A background
// goroutine keeps reading datagrams into a mutex-guarded, unbounded queue
// so that Cycle's PacketSize/ReadPacket calls never block on the network;
// Cycle just drains whatever has accumulated.
type UDP struct {
	conn net.PacketConn

	mu      sync.Mutex
	pending [][]byte

	resolve singleflight.Group
	bufPool sync.Pool

	g      *errgroup.Group
	cancel context.CancelFunc
}

// NewUDP starts listening on conn and returns a Transport backed by it.
// Call Close to stop the background read loop.
func NewUDP(conn net.PacketConn) *UDP {
	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	u := &UDP{
		conn:   conn,
		g:      g,
		cancel: cancel,
		bufPool: sync.Pool{
			New: func() any {
				b := make([]byte, 1024)
				return &b
			},
		},
	}
	g.Go(func() error { return u.readLoop(gctx) })
	return u
}

func (u *UDP) readLoop(ctx context.Context) error {
	buf := make([]byte, maxDatagram)
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		n, _, err := u.conn.ReadFrom(buf)
		if err != nil {
			return err
		}
		if n == 0 {
			continue
		}
		cp := make([]byte, n)
		copy(cp, buf[:n])
		u.mu.Lock()
		u.pending = append(u.pending, cp)
		u.mu.Unlock()
	}
}

// PacketSize implements dispatch.Transport.
func (u *UDP) PacketSize() uint32 {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.pending) == 0 {
		return 0
	}
	return uint32(len(u.pending[0]))
}

// ReadPacket implements dispatch.Transport.
func (u *UDP) ReadPacket(buf []byte) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.pending) == 0 {
		return fmt.Errorf("transport: ReadPacket called with nothing pending")
	}
	copy(buf, u.pending[0])
	u.pending = u.pending[1:]
	return nil
}

// Close stops the background read loop and waits for it to exit.
func (u *UDP) Close() error {
	u.cancel()
	_ = u.conn.Close()
	err := u.g.Wait()
	if err == context.Canceled {
		return nil
	}
	return err
}

func (u *UDP) getBuf() []byte {
	b := u.bufPool.Get().(*[]byte)
	return (*b)[:0]
}

func (u *UDP) putBuf(b []byte) {
	u.bufPool.Put(&b)
}

// resolveUDPAddr resolves addr, deduplicating concurrent resolutions of the
// same address string.
func (u *UDP) resolveUDPAddr(addr string) (*net.UDPAddr, error) {
	v, err, _ := u.resolve.Do(addr, func() (any, error) {
		return net.ResolveUDPAddr("udp", addr)
	})
	if err != nil {
		return nil, err
	}
	return v.(*net.UDPAddr), nil
}

// Send encodes an already-built packet (a message or bundle, anything with
// an Append(b []byte) []byte method) and writes it to addr.
func (u *UDP) Send(addr string, encode func([]byte) []byte) error {
	nAddr, err := u.resolveUDPAddr(addr)
	if err != nil {
		return fmt.Errorf("transport: resolving %q: %w", addr, err)
	}
	b := u.getBuf()
	b = encode(b)
	defer u.putBuf(b)
	_, err = u.conn.WriteTo(b, nAddr)
	return err
}
