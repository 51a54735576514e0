package scope

import (
	"strconv"
	"strings"
)

// Device state is always derived from fresh queries, never cached:
// the front panel can change it between any two calls.

// runBit is the "acquisition running" bit of the operation condition
// register.
const runBit = 1 << 3

// Running reports whether the acquisition system is running.
func (s *Scope) Running() (bool, error) {
	resp, err := s.port.Query(":OPERegister:CONDition?")
	if err != nil {
		return false, err
	}
	cond, err := strconv.Atoi(normalizeToken(resp))
	if err != nil {
		return false, err
	}
	return cond&runBit != 0, nil
}

// Triggered reports whether a trigger event occurred since the last
// call. Reading the register clears it.
func (s *Scope) Triggered() (bool, error) {
	return s.eventRegister(":TER?")
}

// Armed reports whether the trigger system armed since the last call.
// Reading the register clears it.
func (s *Scope) Armed() (bool, error) {
	return s.eventRegister(":AER?")
}

func (s *Scope) eventRegister(cmd string) (bool, error) {
	resp, err := s.port.Query(cmd)
	if err != nil {
		return false, err
	}
	v, err := strconv.Atoi(normalizeToken(resp))
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// safeToQuery checks the precondition shared by measurements and
// horizontal autoscale: a running acquisition with a triggered (non
// auto) sweep can block a measurement query indefinitely when no
// trigger arrives.
func (s *Scope) safeToQuery() (bool, string) {
	running, err := s.Running()
	if err != nil {
		return false, "cannot determine acquisition state: " + err.Error()
	}
	if !running {
		return true, ""
	}
	sweep, err := s.port.Query(":TRIGger:SWEep?")
	if err != nil {
		return false, "cannot determine sweep mode: " + err.Error()
	}
	if strings.EqualFold(strings.TrimSpace(sweep), "AUTO") {
		return true, ""
	}
	return false, "acquisition running with a triggered sweep; stop it or switch to auto sweep"
}

// DeviceError is one entry drained from the device error queue.
type DeviceError struct {
	Code    int
	Message string
}

// maxErrorDrain bounds the error queue drain so a device that keeps
// reporting errors cannot wedge the caller.
const maxErrorDrain = 30

// DrainErrors empties the device error queue, up to maxErrorDrain
// entries, and returns everything that was pending.
func (s *Scope) DrainErrors() ([]DeviceError, error) {
	var out []DeviceError
	for i := 0; i < maxErrorDrain; i++ {
		resp, err := s.port.Query(":SYSTem:ERRor?")
		if err != nil {
			return out, err
		}
		devErr := parseDeviceError(resp)
		if devErr.Code == 0 {
			break
		}
		out = append(out, devErr)
	}
	return out, nil
}

// parseDeviceError splits a `<code>,"<message>"` error queue entry.
func parseDeviceError(resp string) DeviceError {
	resp = strings.TrimSpace(resp)
	code, msg, found := strings.Cut(resp, ",")
	if !found {
		msg = resp
	}
	n, err := strconv.Atoi(normalizeToken(code))
	if err != nil {
		n = 0
	}
	return DeviceError{Code: n, Message: strings.Trim(strings.TrimSpace(msg), `"`)}
}
