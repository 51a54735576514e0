package transport

import (
	"fmt"
	"net"
	"time"
)

// DefaultTimeout bounds every exchange with the instrument. Long
// acquisitions answer well inside this on a LAN link.
const DefaultTimeout = 15 * time.Second

// Dial opens a TCP session to the instrument's SCPI socket
// (port 5555 on most bench scopes).
func Dial(addr string) (Port, error) {
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", addr, err)
	}
	return newStream(conn, DefaultTimeout), nil
}
