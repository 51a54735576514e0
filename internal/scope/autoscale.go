package scope

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"dsoctl/internal/transport"
)

var autoscaleModeAliases = map[string]string{
	"vertical": "vertical", "v": "vertical",
	"horizontal": "horizontal", "h": "horizontal",
	"both": "both", "": "both",
}

var autoscaleSchema = map[string]paramSpec{
	"channels": {kind: kindChannels},
	"mode":     {kind: kindEnum, aliases: autoscaleModeAliases},
}

// divisions the screen spans, vertically and horizontally.
const (
	verticalDivs   = 8
	horizontalDivs = 10
)

// maxVerticalIterations bounds the vertical convergence loop.
const maxVerticalIterations = 8

// overloadShrink replaces the headroom fraction while a channel is
// overloaded, widening the window aggressively until the signal fits.
const overloadShrink = 0.3

// Autoscale adjusts vertical scale/offset per channel and/or the
// horizontal timebase. An empty mode means both. Channels default to
// all of them.
func (s *Scope) Autoscale(opts ...Option) *Result {
	r := &Result{}
	params := buildParams(r, autoscaleSchema, opts)

	mode, ok := params.enum("mode")
	if !ok {
		mode = "both"
	}
	chans, ok := params.channels("channels")
	if !ok || len(chans) == 0 {
		for ch := 1; ch <= maxChannels; ch++ {
			chans = append(chans, ch)
		}
	}

	if mode == "vertical" || mode == "both" {
		for _, ch := range chans {
			s.autoscaleVertical(r, ch)
		}
	}
	if mode == "horizontal" || mode == "both" {
		s.autoscaleHorizontal(r)
	}
	return r
}

// autoscaleVertical converges one channel's scale and offset onto the
// measured signal extents. Channels whose trace is off are skipped.
func (s *Scope) autoscaleVertical(r *Result, ch int) {
	display, err := s.port.Query(fmt.Sprintf(":CHANnel%d:DISPlay?", ch))
	if err != nil || normalizeToken(display) != "1" {
		r.warnf("channel %d: trace is off, skipping vertical autoscale", ch)
		return
	}

	cleanPass := false
	for i := 0; i < maxVerticalIterations; i++ {
		top := s.Measure([]int{ch}, "vmax")
		bottom := s.Measure([]int{ch}, "vmin")
		if top.Status == StatusFailed && bottom.Status == StatusFailed {
			r.warnf("channel %d: extent measurements failed, aborting vertical autoscale", ch)
			return
		}

		overloaded := inferOverload(top) || inferOverload(bottom)

		vMax, vMin := top.Value, bottom.Value
		if math.IsNaN(vMax) || math.IsNaN(vMin) {
			estMax, estMin, err := s.estimateExtents(ch)
			if err != nil {
				r.warnf("channel %d: no usable signal extents (%v), aborting vertical autoscale", ch, err)
				return
			}
			if math.IsNaN(vMax) {
				vMax = estMax
			}
			if math.IsNaN(vMin) {
				vMin = estMin
			}
		}

		scale := (vMax - vMin) / verticalDivs
		if overloaded {
			scale /= overloadShrink
		} else {
			scale /= s.VerticalFraction
		}
		offset := (vMax + vMin) / 2

		sub := s.ConfigureInput(
			Opt("channels", ch),
			Opt("scale", scale),
			Opt("offset", offset),
		)
		r.merge(sub)
		if !sub.OK() {
			return
		}
		if err := s.port.OPC(); err != nil {
			r.failf("channel %d: %v", ch, err)
			return
		}

		// One confirming iteration after the first clean pass, then
		// stop instead of churning through all remaining iterations.
		if cleanPass {
			return
		}
		if !overloaded {
			cleanPass = true
		}
	}
}

// inferOverload decides whether a channel is clipping. This device
// class has no direct overload indicator, so absence of a measured
// value stands in for one. Known limitation: a signal that merely sits
// off-screen is indistinguishable from a genuine ADC overload here.
func inferOverload(m MeasurementResult) bool {
	if m.Overload {
		return true
	}
	return m.Status == StatusOK && math.IsNaN(m.Value)
}

// estimateExtents derives fallback signal extents from the current
// scale and offset, assuming the signal spans the full ±5 divisions.
func (s *Scope) estimateExtents(ch int) (vMax, vMin float64, err error) {
	scale, err := s.queryFloat(fmt.Sprintf(":CHANnel%d:SCALe?", ch))
	if err != nil {
		return 0, 0, err
	}
	offset, err := s.queryFloat(fmt.Sprintf(":CHANnel%d:OFFSet?", ch))
	if err != nil {
		return 0, 0, err
	}
	return offset + 5*scale, offset - 5*scale, nil
}

// autoscaleHorizontal measures the trigger source frequency and sets
// the timebase so the configured number of periods fills the screen.
func (s *Scope) autoscaleHorizontal(r *Result) {
	if ok, reason := s.safeToQuery(); !ok {
		r.failf("horizontal autoscale: %s", reason)
		return
	}

	source, err := s.port.Query(":TRIGger:SOURce?")
	if err != nil {
		r.failf("horizontal autoscale: %v", err)
		return
	}
	source = strings.ToUpper(strings.TrimSpace(source))
	if !strings.HasPrefix(source, "CHAN") && source != "EXT" {
		r.failf("horizontal autoscale: unsupported trigger source %q for frequency measurement", source)
		return
	}

	resp, err := s.port.Query(fmt.Sprintf(":MEASure:FREQuency? %s", source))
	if err != nil {
		if transport.IsTimeout(err) {
			// Resync so the next exchange does not read a stale answer.
			s.port.OPC()
		}
		r.failf("horizontal autoscale: frequency measurement failed: %v", err)
		return
	}
	freq, err := strconv.ParseFloat(strings.TrimSpace(resp), 64)
	if err != nil || math.Abs(freq) >= invalidThreshold || freq <= 0 || math.IsInf(freq, 0) {
		r.failf("horizontal autoscale: no usable signal frequency (%q)", strings.TrimSpace(resp))
		return
	}

	timebase := s.VisiblePeriods / (horizontalDivs * freq)
	r.merge(s.ConfigureAcquisition(Opt("timebase", timebase)))
}

func (s *Scope) queryFloat(cmd string) (float64, error) {
	resp, err := s.port.Query(cmd)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(strings.TrimSpace(resp), 64)
}
