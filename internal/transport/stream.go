package transport

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"dsoctl/internal/config"
)

// stream implements Port over any byte-oriented connection. Commands
// are newline terminated; ASCII responses are newline terminated;
// binary responses carry a #8<count> block header.
type stream struct {
	rwc     io.ReadWriteCloser
	br      *bufio.Reader
	timeout time.Duration
}

func newStream(rwc io.ReadWriteCloser, timeout time.Duration) *stream {
	return &stream{
		rwc:     rwc,
		br:      bufio.NewReaderSize(rwc, 64*1024),
		timeout: timeout,
	}
}

// arm pushes the I/O deadline forward for connection types that
// support one (TCP). Serial ports rely on the driver-level timeout.
func (s *stream) arm() {
	if c, ok := s.rwc.(net.Conn); ok && s.timeout > 0 {
		c.SetDeadline(time.Now().Add(s.timeout))
	}
}

func (s *stream) Write(cmd string) error {
	s.arm()
	config.Debugf("-> %s", cmd)
	if _, err := io.WriteString(s.rwc, cmd+"\n"); err != nil {
		return fmt.Errorf("write %q: %w", cmd, err)
	}
	return nil
}

func (s *stream) Query(cmd string) (string, error) {
	if err := s.Write(cmd); err != nil {
		return "", err
	}
	s.arm()
	line, err := s.br.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("query %q: %w", cmd, err)
	}
	resp := strings.TrimRight(line, "\r\n")
	config.Debugf("<- %s", resp)
	return resp, nil
}

func (s *stream) QueryRaw(cmd string) ([]byte, error) {
	if err := s.Write(cmd); err != nil {
		return nil, err
	}
	return s.Read()
}

// Read consumes one response. A leading '#' means a definite-length
// block: the header and declared payload are returned together so the
// frame decoder can validate the byte count. Anything else is read as
// a single ASCII line.
func (s *stream) Read() ([]byte, error) {
	s.arm()
	first, err := s.br.Peek(1)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if first[0] != '#' {
		line, err := s.br.ReadBytes('\n')
		if err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}
		return line, nil
	}

	header := make([]byte, 10)
	if _, err := io.ReadFull(s.br, header); err != nil {
		return nil, fmt.Errorf("read block header: %w", err)
	}
	count, err := strconv.Atoi(string(header[2:10]))
	if err != nil {
		return nil, fmt.Errorf("read block header %q: %w", header, err)
	}
	payload := make([]byte, count)
	n, err := io.ReadFull(s.br, payload)
	if err != nil {
		// Surface whatever arrived together with the header so the
		// caller can warn and keep the partial frame.
		return append(header, payload[:n]...), nil
	}
	// Trailing newline after the block, if the device sends one.
	if nl, err := s.br.Peek(1); err == nil && (nl[0] == '\n' || nl[0] == '\r') {
		s.br.ReadByte()
	}
	config.Debugf("<- block of %d bytes", count)
	return append(header, payload...), nil
}

func (s *stream) OPC() error {
	resp, err := s.Query("*OPC?")
	if err != nil {
		return err
	}
	if strings.TrimSpace(resp) != "1" {
		return fmt.Errorf("opc: unexpected response %q", resp)
	}
	return nil
}

func (s *stream) Close() error {
	return s.rwc.Close()
}
