package scope

import (
	"math"
	"testing"
)

func TestConfigureTriggerEchoDevice(t *testing.T) {
	s, f := newTestScope()

	r := s.ConfigureTrigger(
		Opt("sweep", "auto"),
		Opt("mode", "edge"),
		Opt("slope", "rising"),
		Opt("source", "ch2"),
		Opt("coupling", "dc"),
		Opt("reject", "hf"),
		Opt("noisereject", false),
		Opt("level", 0.5),
		Opt("position", 1e-3),
	)
	if !r.OK() {
		t.Fatalf("errors: %v", r.Errors)
	}
	if len(r.Warnings) != 0 {
		t.Fatalf("warnings: %v", r.Warnings)
	}
	if got := f.state[":TRIGger:SOURce"]; got != "CHAN2" {
		t.Errorf("source sent %q, want CHAN2", got)
	}
	if got := f.state[":TRIGger:SLOPe"]; got != "POS" {
		t.Errorf("slope sent %q, want POS", got)
	}
}

func TestConfigureTriggerAutoLevel(t *testing.T) {
	s, f := newTestScope()

	r := s.ConfigureTrigger(Opt("level", math.NaN()))
	if !r.OK() {
		t.Fatalf("errors: %v", r.Errors)
	}
	if f.calls(":TRIGger:LEVel:ASETup") != 1 {
		t.Errorf("expected one auto-setup command, log: %v", f.log)
	}
	if f.calls(":TRIGger:EDGE:LEVel") != 0 {
		t.Error("no fixed level may be set for the auto sentinel")
	}
}

func TestConfigureZoomDisable(t *testing.T) {
	s, f := newTestScope()

	r := s.ConfigureZoom(Opt("factor", math.NaN()))
	if !r.OK() {
		t.Fatalf("errors: %v", r.Errors)
	}
	if got := f.state[":TIMebase:MODE"]; got != "MAIN" {
		t.Errorf("mode sent %q, want MAIN", got)
	}
}

func TestConfigureZoomWindow(t *testing.T) {
	s, f := newTestScope()
	f.state[":TIMebase:SCALe"] = "1e-3"

	r := s.ConfigureZoom(Opt("factor", 10), Opt("position", 0))
	if !r.OK() {
		t.Fatalf("errors: %v", r.Errors)
	}
	if got := f.state[":TIMebase:MODE"]; got != "WIND" {
		t.Errorf("mode sent %q, want WIND", got)
	}
	win := stateFloat(t, f, ":TIMebase:WINDow:SCALe")
	if math.Abs(win-1e-4)/1e-4 > 0.01 {
		t.Errorf("window scale = %g, want 1e-4", win)
	}
	// Window parameters have no readback.
	if f.calls(":TIMebase:WINDow:SCALe?") != 0 {
		t.Error("window scale must be fire-and-forget")
	}
}

func TestConfigureZoomFactorTooSmall(t *testing.T) {
	s, f := newTestScope()

	r := s.ConfigureZoom(Opt("factor", 1.5))
	if !r.OK() {
		t.Fatalf("errors: %v", r.Errors)
	}
	if len(r.Warnings) != 1 {
		t.Fatalf("warnings: %v", r.Warnings)
	}
	if _, ok := f.state[":TIMebase:MODE"]; ok {
		t.Error("timebase mode must not change for a rejected factor")
	}
}
