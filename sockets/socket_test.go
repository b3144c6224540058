package sockets

import (
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listenAndServe(t *testing.T, handle func(net.Conn)) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		handle(conn)
	}()
	return ln.Addr().String()
}

func TestRecvLineAndSend(t *testing.T) {
	addr := listenAndServe(t, func(conn net.Conn) {
		defer conn.Close()
		conn.Write([]byte("220 welcome\n"))
		buf := make([]byte, 16)
		n, _ := conn.Read(buf)
		conn.Write(append([]byte("echo:"), buf[:n]...))
	})

	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	sock, err := Connect(host, port, time.Second)
	require.NoError(t, err)
	defer sock.Close()

	line, err := sock.RecvLine()
	require.NoError(t, err)
	assert.Equal(t, "220 welcome\n", string(line))

	require.NoError(t, sock.Send([]byte("PING")))
	reply, err := sock.RecvN(9)
	require.NoError(t, err)
	assert.Equal(t, "echo:PING", string(reply))
}

func TestRecvUntilConsumesDelimiter(t *testing.T) {
	addr := listenAndServe(t, func(conn net.Conn) {
		defer conn.Close()
		conn.Write([]byte("abc--xyz"))
	})
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	sock, err := Connect(host, port, time.Second)
	require.NoError(t, err)
	defer sock.Close()

	buf, err := sock.RecvUntil([]byte("--"))
	require.NoError(t, err)
	assert.Equal(t, "abc--", string(buf))
}

func TestRecvUntilReturnsBufferOnEOFWithoutMatch(t *testing.T) {
	addr := listenAndServe(t, func(conn net.Conn) {
		defer conn.Close()
		conn.Write([]byte("no delimiter here"))
	})
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	sock, err := Connect(host, port, time.Second)
	require.NoError(t, err)
	defer sock.Close()

	buf, err := sock.RecvUntil([]byte("--"))
	require.NoError(t, err)
	assert.Equal(t, "no delimiter here", string(buf))
}

func TestRecvLineContainsErrorsOnClosedConnectionInsteadOfSpinning(t *testing.T) {
	addr := listenAndServe(t, func(conn net.Conn) {
		defer conn.Close()
		conn.Write([]byte("one line\nanother line, no newline at end"))
	})
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	sock, err := Connect(host, port, time.Second)
	require.NoError(t, err)
	defer sock.Close()

	_, err = sock.RecvLineContains("never present")
	require.Error(t, err)
}

func TestSetNewlineChangesRecvLineDelimiter(t *testing.T) {
	addr := listenAndServe(t, func(conn net.Conn) {
		defer conn.Close()
		conn.Write([]byte("part1;part2;"))
	})
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	sock, err := Connect(host, port, time.Second)
	require.NoError(t, err)
	defer sock.Close()

	sock.SetNewline(";")
	line, err := sock.RecvLine()
	require.NoError(t, err)
	assert.Equal(t, "part1;", line)
}
