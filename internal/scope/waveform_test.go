package scope

import (
	"math"
	"testing"

	"dsoctl/internal/scpi"
)

// preamble: format,type,points,count,xinc,xorig,xref,yinc,yorig,yref
const testPreamble = "0,0,4,1,1e-6,-2e-6,0,0.01,0.5,0"

func TestCaptureWaveformConversion(t *testing.T) {
	s, f := newTestScope()
	f.enqueue(":WAVeform:PREamble?", testPreamble)
	f.blocks[":WAVeform:DATA?"] = scpi.EncodeBlock([]byte{0x00, 0x64, 0x9c, 0x7f})

	w, r := s.CaptureWaveform(1, 0)
	if !r.OK() {
		t.Fatalf("errors: %v", r.Errors)
	}
	if len(r.Warnings) != 0 {
		t.Fatalf("warnings: %v", r.Warnings)
	}

	// physical = (raw - yref) * yinc + yorig, raw bytes are signed.
	want := []float64{0.5, 1.5, -0.5, 1.77}
	if len(w.Samples) != len(want) {
		t.Fatalf("%d samples, want %d", len(w.Samples), len(want))
	}
	for i := range want {
		if math.Abs(w.Samples[i]-want[i]) > 1e-9 {
			t.Errorf("sample %d = %g, want %g", i, w.Samples[i], want[i])
		}
	}
}

func TestCaptureWaveformTimes(t *testing.T) {
	s, f := newTestScope()
	f.enqueue(":WAVeform:PREamble?", testPreamble)
	f.blocks[":WAVeform:DATA?"] = scpi.EncodeBlock([]byte{0, 0, 0})

	w, r := s.CaptureWaveform(1, 0)
	if !r.OK() {
		t.Fatalf("errors: %v", r.Errors)
	}
	times := w.Times()
	if times[0] != -2e-6 {
		t.Errorf("times[0] = %g, want -2e-6", times[0])
	}
	if math.Abs(times[2]-0) > 1e-12 {
		t.Errorf("times[2] = %g, want 0", times[2])
	}
}

func TestCaptureWaveformShortBlock(t *testing.T) {
	s, f := newTestScope()
	f.enqueue(":WAVeform:PREamble?", testPreamble)
	// Declares 100 bytes, delivers 90.
	raw := append([]byte("#800000100"), make([]byte, 90)...)
	f.blocks[":WAVeform:DATA?"] = raw

	w, r := s.CaptureWaveform(1, 0)
	if !r.OK() {
		t.Fatalf("a size mismatch must not be fatal: %v", r.Errors)
	}
	if len(r.Warnings) != 1 {
		t.Fatalf("warnings: %v", r.Warnings)
	}
	if len(w.Samples) != 90 {
		t.Errorf("%d samples, want exactly the 90 available", len(w.Samples))
	}
}

func TestCaptureWaveformMissingHeader(t *testing.T) {
	s, f := newTestScope()
	f.enqueue(":WAVeform:PREamble?", testPreamble)
	f.blocks[":WAVeform:DATA?"] = []byte("junk")

	w, r := s.CaptureWaveform(1, 0)
	if r.OK() {
		t.Fatal("a missing block header must be fatal")
	}
	if w != nil {
		t.Error("no waveform expected on a framing failure")
	}
}

func TestCaptureWaveformPointsFireAndForget(t *testing.T) {
	s, f := newTestScope()
	f.enqueue(":WAVeform:PREamble?", testPreamble)
	f.blocks[":WAVeform:DATA?"] = scpi.EncodeBlock([]byte{0})

	_, r := s.CaptureWaveform(1, 1000)
	if !r.OK() {
		t.Fatalf("errors: %v", r.Errors)
	}
	if got := f.state[":WAVeform:POINts"]; got != "1000" {
		t.Errorf("points sent %q, want 1000", got)
	}
	// No readback for the point count.
	if f.calls(":WAVeform:POINts?") != 0 {
		t.Error("point count must be fire-and-forget")
	}
}

func TestCaptureWaveformSplitReadPath(t *testing.T) {
	f := newFakePort()
	s := New(f, splitCaps())
	f.enqueue(":WAVeform:PREamble?", testPreamble)
	f.blocks["<read>"] = scpi.EncodeBlock([]byte{1, 2})

	w, r := s.CaptureWaveform(1, 0)
	if !r.OK() {
		t.Fatalf("errors: %v", r.Errors)
	}
	if len(w.Samples) != 2 {
		t.Errorf("%d samples, want 2", len(w.Samples))
	}
}
