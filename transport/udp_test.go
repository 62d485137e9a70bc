package transport

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pfcm/osc-embedded"
)

func TestUDPSendAndReceive(t *testing.T) {
	serverConn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer serverConn.Close()

	clientConn, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	server := NewUDP(serverConn)
	defer server.Close()
	client := NewUDP(clientConn)
	defer client.Close()

	msg := osc.NewMessage()
	msg.SetAddress("/hello")
	msg.AddString("world")

	require.NoError(t, client.Send(serverConn.LocalAddr().String(), msg.Append))

	deadline := time.Now().Add(2 * time.Second)
	for server.PacketSize() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	require.NotZero(t, server.PacketSize(), "server never observed the datagram")

	buf := make([]byte, server.PacketSize())
	require.NoError(t, server.ReadPacket(buf))

	got, err := osc.DecodeMessage(buf)
	require.NoError(t, err)
	require.Equal(t, "/hello", got.Address)
	require.Equal(t, "world", got.GetString(0))
}
