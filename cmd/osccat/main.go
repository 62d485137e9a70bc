// Command osccat sends a single OSC message over UDP, or listens on UDP and
// logs every OSC message it receives, mostly as a smoke test for the
// dispatch/transport packages.
package main

import (
	"flag"
	"log"
	"net"
	"time"

	"github.com/pfcm/osc-embedded"
	"github.com/pfcm/osc-embedded/dispatch"
	"github.com/pfcm/osc-embedded/transport"
)

var (
	modeFlag       = flag.String("mode", "", "`mode` in which to run, must be one of \"send\" or \"receive\"")
	listenAddrFlag = flag.String("listen_addr", "127.0.0.1:0", "`host:port`: the address to listen on.")
	sendAddrFlag   = flag.String("send_addr", "", "`host:port`: the address to send to.")
	patternFlag    = flag.String("pattern", "/test", "`address pattern` to send a message to, in send mode")
)

func main() {
	flag.Parse()

	switch *modeFlag {
	case "send":
		if err := send(); err != nil {
			log.Fatal(err)
		}
	case "receive":
		if err := receive(); err != nil {
			log.Fatal(err)
		}
	default:
		log.Fatalf("unknown mode %q, must be \"send\" or \"receive\"", *modeFlag)
	}
}

func send() error {
	conn, err := net.ListenPacket("udp", *listenAddrFlag)
	if err != nil {
		return err
	}
	defer conn.Close()

	t := transport.NewUDP(conn)
	defer t.Close()

	msg := osc.NewMessage()
	msg.SetAddress(*patternFlag)
	msg.AddInt32(12)

	log.Printf("Sending %+v to %v", msg, *sendAddrFlag)
	return t.Send(*sendAddrFlag, msg.Append)
}

func receive() error {
	conn, err := net.ListenPacket("udp", *listenAddrFlag)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Printf("Listening on %v", conn.LocalAddr())

	t := transport.NewUDP(conn)
	defer t.Close()

	clock := dispatch.ClockFunc(func() uint64 { return uint64(osc.TimetagFromTime(time.Now())) })
	s, err := dispatch.NewServer(dispatch.WithClock(clock))
	if err != nil {
		return err
	}

	for _, p := range []string{"/test", "/test/a", "/test/b", "/test/c"} {
		p := p
		s.AddHandler(p, dispatch.HandlerFunc(func(msg *osc.Message) {
			log.Printf("%s: recv: %+v", p, msg)
		}))
	}

	return s.Loop(t)
}
