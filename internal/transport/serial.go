package transport

import (
	"fmt"

	"github.com/tarm/serial"
)

// OpenSerial opens a session to a scope reached through an RS-232 or
// USB-serial bridge. The read timeout doubles as the exchange timeout
// since serial ports have no deadlines.
func OpenSerial(device string, baud int) (Port, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name:        device,
		Baud:        baud,
		ReadTimeout: DefaultTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", device, err)
	}
	return newStream(port, 0), nil
}
