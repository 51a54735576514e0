package scope

import (
	"fmt"
	"strconv"
	"strings"

	"dsoctl/internal/scpi"
)

// Preamble is the device-reported metadata describing how raw waveform
// samples map to physical units.
type Preamble struct {
	Format     int
	Type       int
	Points     int
	Count      int
	XIncrement float64 // seconds per sample
	XOrigin    float64 // time of the first sample
	XReference float64
	YIncrement float64 // volts per count
	YOrigin    float64 // volts at the reference level
	YReference float64 // raw count at the vertical center
}

// Waveform is one captured trace. Produced fresh per capture, never
// cached.
type Waveform struct {
	Samples  []float64 // physical units (volts or amps)
	Raw      []byte    // raw signed sample bytes as transferred
	Preamble Preamble
}

// Times returns the sample timestamps relative to the trigger.
func (w *Waveform) Times() []float64 {
	out := make([]float64, len(w.Samples))
	for i := range out {
		out[i] = w.Preamble.XOrigin + float64(i)*w.Preamble.XIncrement
	}
	return out
}

// CaptureWaveform transfers one channel's trace. points <= 0 leaves
// the device's current record length untouched. The point count has no
// reliable readback so it is fire-and-forget; source and format are
// verified.
func (s *Scope) CaptureWaveform(channel, points int) (*Waveform, *Result) {
	r := &Result{}

	s.setVerify(r, ":WAVeform:SOURce", chanName(channel), verifyEnum)
	s.setVerify(r, ":WAVeform:FORMat", "BYTE", verifyEnum)
	if points > 0 {
		s.setOnly(r, ":WAVeform:POINts:MODE", "RAW")
		s.setOnly(r, ":WAVeform:POINts", strconv.Itoa(points))
	}
	if !r.OK() {
		return nil, r
	}

	pre, err := s.readPreamble()
	if err != nil {
		r.failf("waveform preamble: %v", err)
		return nil, r
	}

	raw, err := s.readBlock(":WAVeform:DATA?")
	if err != nil {
		r.failf("waveform data: %v", err)
		return nil, r
	}
	payload, declared, err := scpi.DecodeBlock(raw)
	if err != nil {
		r.failf("waveform data: %v", err)
		return nil, r
	}
	if len(payload) < declared {
		r.warnf("waveform data: missing data, declared %d bytes but got %d", declared, len(payload))
	} else if len(payload) > declared {
		r.warnf("waveform data: too much data, declared %d bytes but got %d", declared, len(payload))
	}

	w := &Waveform{
		Raw:      payload,
		Samples:  make([]float64, len(payload)),
		Preamble: pre,
	}
	for i, b := range payload {
		w.Samples[i] = (float64(int8(b)) - pre.YReference) * pre.YIncrement + pre.YOrigin
	}
	return w, r
}

// readPreamble parses the 10-field :WAVeform:PREamble? response:
// format, type, points, count, xinc, xorig, xref, yinc, yorig, yref.
func (s *Scope) readPreamble() (Preamble, error) {
	var pre Preamble
	resp, err := s.port.Query(":WAVeform:PREamble?")
	if err != nil {
		return pre, err
	}
	fields := strings.Split(strings.TrimSpace(resp), ",")
	if len(fields) < 10 {
		return pre, fmt.Errorf("short preamble %q", resp)
	}
	vals := make([]float64, 10)
	for i := 0; i < 10; i++ {
		vals[i], err = strconv.ParseFloat(strings.TrimSpace(fields[i]), 64)
		if err != nil {
			return pre, fmt.Errorf("preamble field %d: %w", i, err)
		}
	}
	pre.Format = int(vals[0])
	pre.Type = int(vals[1])
	pre.Points = int(vals[2])
	pre.Count = int(vals[3])
	pre.XIncrement = vals[4]
	pre.XOrigin = vals[5]
	pre.XReference = vals[6]
	pre.YIncrement = vals[7]
	pre.YOrigin = vals[8]
	pre.YReference = vals[9]
	return pre, nil
}
