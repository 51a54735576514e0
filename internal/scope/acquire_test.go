package scope

import "testing"

func TestConfigureAcquisitionEchoDevice(t *testing.T) {
	s, f := newTestScope()

	r := s.ConfigureAcquisition(
		Opt("mode", "average"),
		Opt("count", 16),
		Opt("timebase", 1e-3),
		Opt("position", 0),
		Opt("tbmode", "main"),
	)
	if !r.OK() {
		t.Fatalf("errors: %v", r.Errors)
	}
	if len(r.Warnings) != 0 {
		t.Fatalf("warnings: %v", r.Warnings)
	}
	if got := f.state[":ACQuire:TYPE"]; got != "AVER" {
		t.Errorf("mode sent %q, want AVER", got)
	}
	if got := f.state[":ACQuire:COUNt"]; got != "16" {
		t.Errorf("count sent %q, want 16", got)
	}
}

func TestConfigureAcquisitionCountOutOfRange(t *testing.T) {
	s, f := newTestScope()

	r := s.ConfigureAcquisition(Opt("count", 1))
	if !r.OK() {
		t.Fatalf("errors: %v", r.Errors)
	}
	if len(r.Warnings) != 1 {
		t.Fatalf("warnings: %v", r.Warnings)
	}
	if _, ok := f.state[":ACQuire:COUNt"]; ok {
		t.Error("out-of-range count must not be sent")
	}
}

func TestConfigureAcquisitionTimebaseSnapAccepted(t *testing.T) {
	s, f := newTestScope()

	// The device snaps 3 ms/div down to the 2 ms/div step. The ratio
	// 0.67 is inside the acceptance window, so no warning.
	f.queryHook = func(cmd string) (string, bool) {
		if cmd == ":TIMebase:SCALe?" {
			return "2.000e-03", true
		}
		return "", false
	}
	r := s.ConfigureAcquisition(Opt("timebase", 3e-3))
	if !r.OK() {
		t.Fatalf("errors: %v", r.Errors)
	}
	if len(r.Warnings) != 0 {
		t.Fatalf("warnings: %v", r.Warnings)
	}
}

func TestConfigureAcquisitionTimebaseFarOffWarns(t *testing.T) {
	s, f := newTestScope()

	f.queryHook = func(cmd string) (string, bool) {
		if cmd == ":TIMebase:SCALe?" {
			return "5.000e-01", true
		}
		return "", false
	}
	r := s.ConfigureAcquisition(Opt("timebase", 1e-6))
	if !r.OK() {
		t.Fatalf("timebase mismatch must stay soft, errors: %v", r.Errors)
	}
	if len(r.Warnings) != 1 {
		t.Fatalf("warnings: %v", r.Warnings)
	}
}
