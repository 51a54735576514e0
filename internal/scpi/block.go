// Package scpi implements the IEEE 488.2 definite-length block format
// used by bench instruments for binary transfers.
package scpi

import (
	"fmt"
	"strconv"
)

// Definite-length block layout:
//
//	[Header - 10 bytes]
//	  byte 0:    '#' marker
//	  byte 1:    digit count, always '8' on this device class
//	  bytes 2-9: payload byte count, zero-padded ASCII decimal
//	[Payload]
//	  bytes 10+: raw payload, no trailing delimiter guaranteed
const (
	// HeaderLen is the fixed width of the block header.
	HeaderLen = 10

	marker = '#'
	digits = 8
)

// DecodeBlock splits a definite-length block into its payload and the
// byte count the device declared. A missing or malformed header is an
// error; a payload shorter or longer than declared is not: the caller
// decides whether a size mismatch is tolerable, and the available
// payload is always returned.
func DecodeBlock(raw []byte) (payload []byte, declared int, err error) {
	if len(raw) < HeaderLen {
		return nil, 0, fmt.Errorf("block header missing: got %d bytes, need %d", len(raw), HeaderLen)
	}
	if raw[0] != marker {
		return nil, 0, fmt.Errorf("block header missing: expected '#', got 0x%02x", raw[0])
	}
	declared, err = strconv.Atoi(string(raw[2 : 2+digits]))
	if err != nil {
		return nil, 0, fmt.Errorf("malformed block byte count %q", raw[2:2+digits])
	}
	return raw[HeaderLen:], declared, nil
}

// EncodeBlock wraps a payload in a definite-length block header.
func EncodeBlock(payload []byte) []byte {
	out := make([]byte, HeaderLen+len(payload))
	out[0] = marker
	out[1] = '0' + digits
	copy(out[2:HeaderLen], fmt.Sprintf("%08d", len(payload)))
	copy(out[HeaderLen:], payload)
	return out
}
