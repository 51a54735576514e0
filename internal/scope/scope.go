// Package scope drives a bench oscilloscope over a SCPI transport.
// Every configurable parameter goes through a set-then-verify exchange
// so the caller learns when the device silently rounded or refused a
// value.
package scope

import (
	"errors"
	"fmt"
	"strings"

	"dsoctl/internal/config"
	"dsoctl/internal/transport"
)

// Scope is a driver session for one instrument. It owns no transport
// lifecycle; the caller opens and closes the Port.
type Scope struct {
	port transport.Port
	caps transport.Capabilities

	// VisiblePeriods is the number of signal periods horizontal
	// autoscale fits on screen.
	VisiblePeriods float64
	// VerticalFraction is the share of the screen vertical autoscale
	// lets the signal occupy, leaving headroom above and below.
	VerticalFraction float64
}

// New creates a driver for an already-open transport session.
func New(port transport.Port, caps transport.Capabilities) *Scope {
	return &Scope{
		port:             port,
		caps:             caps,
		VisiblePeriods:   2,
		VerticalFraction: 0.8,
	}
}

// Result accumulates the outcome of one driver call. Hard failures and
// soft warnings are kept separate: a warning means the device state is
// approximately what was asked for, a failure means it is not.
type Result struct {
	Warnings []string
	Errors   []string
}

// OK reports whether the call completed without a hard failure.
func (r *Result) OK() bool { return len(r.Errors) == 0 }

// Err returns the accumulated hard failures as one error, or nil.
func (r *Result) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return errors.New(strings.Join(r.Errors, "; "))
}

func (r *Result) warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.Warnings = append(r.Warnings, msg)
	config.Log.Warn(msg)
}

func (r *Result) failf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.Errors = append(r.Errors, msg)
	config.Log.Error(msg)
}

// merge folds a sub-call's outcome into this result.
func (r *Result) merge(sub *Result) {
	r.Warnings = append(r.Warnings, sub.Warnings...)
	r.Errors = append(r.Errors, sub.Errors...)
}

// ID returns the instrument identification string.
func (s *Scope) ID() (string, error) {
	return s.port.Query("*IDN?")
}

// Reset restores the instrument to its power-on defaults and clears
// the status registers, then waits for the device to settle.
func (s *Scope) Reset() error {
	if err := s.port.Write("*RST"); err != nil {
		return err
	}
	if err := s.port.Write("*CLS"); err != nil {
		return err
	}
	return s.port.OPC()
}

// Lock disables or re-enables the instrument's front panel. The device
// offers no readback for this, so it is fire-and-forget.
func (s *Scope) Lock(on bool) error {
	return s.port.Write(fmt.Sprintf(":SYSTem:LOCK %s", onOff(on)))
}

// readBlock fetches a binary response, using the split write/read path
// on firmware that cannot answer a binary query in one exchange.
func (s *Scope) readBlock(cmd string) ([]byte, error) {
	if s.caps.SplitBinaryRead {
		if err := s.port.Write(cmd); err != nil {
			return nil, err
		}
		return s.port.Read()
	}
	return s.port.QueryRaw(cmd)
}

func onOff(on bool) string {
	if on {
		return "1"
	}
	return "0"
}

func chanName(n int) string {
	return fmt.Sprintf("CHANnel%d", n)
}
