// Package sockets implements the raw TCP capability of spec.md
// §4.A-Sockets: connect, send, and a family of delimiter-aware recv
// primitives built on top of a buffered reader, mirroring the
// BufStream wrapper the original implementation layers over its raw
// stream.
package sockets

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/kpcyrd/authoscope/scopeerr"
)

// Socket is a connected TCP stream plus the buffered reader recv
// primitives are built on, and the mutable line terminator recvline/
// sendline/recvline_contains/recvline_regex use.
type Socket struct {
	conn    net.Conn
	r       *bufio.Reader
	newline string
}

// Connect resolves host, trying every returned address in order and
// keeping the first one that accepts a connection. An empty DNS
// result and an all-candidates-failed result are distinct failure
// modes, mirroring the original's "no dns records found" vs.
// "couldn't connect" errors.
func Connect(host string, port int, timeout time.Duration) (*Socket, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ips, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil || len(ips) == 0 {
		return nil, scopeerr.New(scopeerr.Io, err, fmt.Sprintf("no dns records found for %s", host))
	}

	var dialErrs []string
	d := net.Dialer{Timeout: timeout}
	for _, ip := range ips {
		addr := net.JoinHostPort(ip.IP.String(), strconv.Itoa(port))
		conn, err := d.Dial("tcp", addr)
		if err == nil {
			return &Socket{conn: conn, r: bufio.NewReader(conn), newline: "\n"}, nil
		}
		dialErrs = append(dialErrs, fmt.Sprintf("%s: %v", addr, err))
	}
	return nil, scopeerr.New(scopeerr.Io, nil, fmt.Sprintf("couldn't connect to %s:%d: %s", host, port, strings.Join(dialErrs, "; ")))
}

func (s *Socket) Close() error {
	return s.conn.Close()
}

// SetNewline replaces the line terminator recvline/sendline/
// recvline_contains/recvline_regex look for, default "\n".
func (s *Socket) SetNewline(delim string) {
	s.newline = delim
}

// Send writes buf in full.
func (s *Socket) Send(buf []byte) error {
	_, err := s.conn.Write(buf)
	if err != nil {
		return scopeerr.Annotatef(err, scopeerr.Io, "socket write")
	}
	return nil
}

// SendLine appends the socket's newline terminator to line and sends it.
func (s *Socket) SendLine(line string) error {
	return s.Send([]byte(line + s.newline))
}

// SendAfter reads until delim is seen (discarding it), then sends buf.
func (s *Socket) SendAfter(delim []byte, buf []byte) error {
	if _, _, err := s.readUntil(delim); err != nil {
		return err
	}
	return s.Send(buf)
}

// Recv performs a single read of up to 4096 bytes.
func (s *Socket) Recv() ([]byte, error) {
	buf := make([]byte, 4096)
	n, err := s.r.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, scopeerr.Annotatef(err, scopeerr.Io, "socket recv")
	}
	return buf[:n], nil
}

// RecvN reads exactly n bytes.
func (s *Socket) RecvN(n int) ([]byte, error) {
	out := make([]byte, n)
	if _, err := readFull(s.r, out); err != nil {
		return nil, scopeerr.Annotatef(err, scopeerr.Io, "reading %d bytes", n)
	}
	return out, nil
}

// RecvLine reads up to and including the socket's newline terminator.
// A trailing partial line (stream closed with no terminator but some
// bytes available) is returned successfully; only a read that finds
// truly nothing (eof with zero bytes) errors, which bounds
// RecvLineContains/RecvLineRegex to at most one extra iteration on a
// closed connection instead of spinning forever.
func (s *Socket) RecvLine() (string, error) {
	buf, eof, err := s.readUntil([]byte(s.newline))
	if err != nil {
		return "", err
	}
	if eof && len(buf) == 0 {
		return "", scopeerr.Annotatef(io.EOF, scopeerr.Io, "reading line")
	}
	if !utf8.Valid(buf) {
		return "", scopeerr.New(scopeerr.Parse, nil, "line is not valid utf-8")
	}
	return string(buf), nil
}

// RecvLineContains reads lines until one contains needle.
func (s *Socket) RecvLineContains(needle string) (string, error) {
	for {
		line, err := s.RecvLine()
		if err != nil {
			return "", err
		}
		if strings.Contains(line, needle) {
			return line, nil
		}
	}
}

// RecvLineRegex reads lines until one matches re.
func (s *Socket) RecvLineRegex(re *regexp.Regexp) (string, error) {
	for {
		line, err := s.RecvLine()
		if err != nil {
			return "", err
		}
		if re.MatchString(line) {
			return line, nil
		}
	}
}

// RecvUntil reads until delim is found, consuming and returning
// everything up to and including it. If the stream closes first, it
// returns whatever was accumulated with no error.
func (s *Socket) RecvUntil(delim []byte) ([]byte, error) {
	buf, _, err := s.readUntil(delim)
	return buf, err
}

// RecvAll drains the connection until EOF.
func (s *Socket) RecvAll() ([]byte, error) {
	var out []byte
	buf := make([]byte, 4096)
	for {
		n, err := s.r.Read(buf)
		if n > 0 {
			out = append(out, buf[:n]...)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, scopeerr.Annotatef(err, scopeerr.Io, "reading until eof")
		}
	}
}

// readUntil accumulates bytes until delim is seen or the stream ends.
// It never errors on a clean EOF: eof reports whether the stream
// closed before delim was found, so callers built on top of a single
// delimiter (recvuntil) can return the buffer as-is, while callers
// that loop (recvline's callers) can tell "nothing left to read" from
// "a partial line was left dangling."
func (s *Socket) readUntil(delim []byte) (out []byte, eof bool, err error) {
	for {
		b, rerr := s.r.ReadByte()
		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				return out, true, nil
			}
			return out, false, scopeerr.Annotatef(rerr, scopeerr.Io, "reading until delimiter")
		}
		out = append(out, b)
		if len(out) >= len(delim) && endsWith(out, delim) {
			return out, false, nil
		}
	}
}

func endsWith(buf, suffix []byte) bool {
	if len(suffix) == 0 {
		return true
	}
	if len(buf) < len(suffix) {
		return false
	}
	tail := buf[len(buf)-len(suffix):]
	for i := range suffix {
		if tail[i] != suffix[i] {
			return false
		}
	}
	return true
}

func readFull(r *bufio.Reader, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
