package transport

import (
	"errors"
	"net"
	"strings"
)

// Port is a synchronous request/response channel to one instrument.
// Every method blocks until the device answers or the link times out.
type Port interface {
	// Write sends a command without expecting a response.
	Write(cmd string) error
	// Query sends a command and returns the ASCII response line.
	Query(cmd string) (string, error)
	// QueryRaw sends a command and returns the raw response bytes,
	// including any binary block header. Used when the device supports
	// combined write/read for binary transfers.
	QueryRaw(cmd string) ([]byte, error)
	// Read fetches pending response bytes without writing first. Used
	// for the split binary transfer path on older firmware.
	Read() ([]byte, error)
	// OPC blocks until the device reports all prior operations complete.
	OPC() error
	Close() error
}

// Capabilities describes per-device protocol quirks, resolved once at
// session setup instead of being re-derived per call.
type Capabilities struct {
	// SplitBinaryRead selects the two-phase binary transfer (Write then
	// Read) used by older firmware that cannot answer a binary query in
	// one exchange.
	SplitBinaryRead bool
}

// Detect derives capabilities from an *IDN? response
// ("AGILENT TECHNOLOGIES,DSO1024A,CN1234,00.04.02").
func Detect(idn string) Capabilities {
	var caps Capabilities
	fields := strings.Split(idn, ",")
	if len(fields) < 2 {
		return caps
	}
	model := strings.ToUpper(strings.TrimSpace(fields[1]))
	// The DSO1000 and 54600 families predate combined binary queries.
	if strings.HasPrefix(model, "DSO1") || strings.HasPrefix(model, "546") {
		caps.SplitBinaryRead = true
	}
	return caps
}

// ErrTimeout marks a blocked exchange that was abandoned by the link
// layer rather than answered by the device.
var ErrTimeout = errors.New("transport: timeout")

// IsTimeout reports whether err represents a link-level timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTimeout) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
