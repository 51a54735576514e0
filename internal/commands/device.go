package commands

import (
	"fmt"

	"dsoctl/internal/scope"
	"dsoctl/internal/transport"
	"dsoctl/internal/util"
)

// Identify prints the instrument identification and the protocol
// capabilities resolved for it.
func Identify(s *scope.Scope, caps transport.Capabilities) error {
	idn, err := s.ID()
	if err != nil {
		return fmt.Errorf("identify: %w", err)
	}
	fmt.Printf("Instrument:       %s\n", idn)
	if caps.SplitBinaryRead {
		fmt.Println("Binary transfers: split write/read (legacy firmware)")
	} else {
		fmt.Println("Binary transfers: combined query")
	}
	return nil
}

// Status prints the derived acquisition/trigger state and drains the
// device error queue.
func Status(s *scope.Scope) error {
	running, err := s.Running()
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}
	armed, err := s.Armed()
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}
	triggered, err := s.Triggered()
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}

	fmt.Printf("Acquisition: %s\n", runState(running))
	fmt.Printf("Trigger:     armed=%v triggered=%v\n", armed, triggered)

	errs, err := s.DrainErrors()
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}
	if len(errs) == 0 {
		fmt.Println("Error queue: empty")
		return nil
	}
	fmt.Printf("Error queue: %d pending\n", len(errs))
	for _, e := range errs {
		fmt.Printf("  %d: %s\n", e.Code, e.Message)
	}
	return nil
}

func runState(running bool) string {
	if running {
		return "running"
	}
	return "stopped"
}

// Reset restores power-on defaults and waits for the device to settle.
func Reset(s *scope.Scope) error {
	if err := s.Reset(); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	fmt.Println("Instrument reset.")
	return nil
}

// Report prints a call outcome and converts hard failures into an
// error for the CLI exit code. Warnings were already logged where they
// occurred.
func Report(r *scope.Result) error {
	if err := r.Err(); err != nil {
		return err
	}
	if len(r.Warnings) > 0 {
		fmt.Printf("Done with %d warning(s).\n", len(r.Warnings))
	} else {
		fmt.Println("Done.")
	}
	return nil
}

// RawQuery sends one raw command for protocol debugging. Responses
// that are not printable text are hex dumped.
func RawQuery(port transport.Port, cmd string) error {
	resp, err := port.Query(cmd)
	if err != nil {
		return err
	}
	if util.IsTextData([]byte(resp)) {
		fmt.Println(resp)
	} else {
		util.PrintHexDump([]byte(resp))
	}
	return nil
}
