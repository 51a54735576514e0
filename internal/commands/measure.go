package commands

import (
	"fmt"

	"dsoctl/internal/scope"
	"dsoctl/internal/util"
)

// Measure runs one measurement and prints the result.
func Measure(s *scope.Scope, channels []int, parameter string) error {
	m := s.Measure(channels, parameter)
	if m.Status != scope.StatusOK {
		return fmt.Errorf("measure %s: %s", parameter, m.ErrorMessage)
	}

	fmt.Printf("%s (channels %v): %s\n", m.Parameter, m.Channels, util.FormatSI(m.Value, m.Unit))
	if m.ErrorID != 0 {
		fmt.Printf("Device reported: %d %s\n", m.ErrorID, m.ErrorMessage)
	}
	return nil
}

// Autoscale runs the autoscale engine with the given mode and
// channels, then prints the resulting scales.
func Autoscale(s *scope.Scope, mode string, channels string) error {
	opts := []scope.Option{scope.Opt("mode", mode)}
	if channels != "" {
		opts = append(opts, scope.Opt("channels", channels))
	}
	return Report(s.Autoscale(opts...))
}
