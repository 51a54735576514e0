package scope

import (
	"math"
	"strconv"
	"strings"
)

// toleranceRule selects how a readback is compared to the sent value.
type toleranceRule int

const (
	// tolExact requires a case-insensitive string match. Used for
	// enumerations and switches.
	tolExact toleranceRule = iota
	// tolRelative accepts |got-want| <= rel*|want|.
	tolRelative
	// tolAbsolute accepts |got-want| <= abs.
	tolAbsolute
	// tolRatio accepts got/want within [lo, hi]. Used for the timebase,
	// whose coarse 1-2-5 steps make a symmetric tolerance useless.
	tolRatio
)

// verifySpec is the comparison policy for one parameter.
type verifySpec struct {
	rule   toleranceRule
	rel    float64
	abs    float64
	lo, hi float64
	hard   bool // mismatch fails the call instead of warning
}

var (
	verifyEnum     = verifySpec{rule: tolExact, hard: true}
	verifyScale    = verifySpec{rule: tolRelative, rel: 0.05}
	verifyOffset   = verifySpec{rule: tolRelative, rel: 0.05, hard: true}
	verifyLevel    = verifySpec{rule: tolAbsolute, abs: 1e-3}
	verifyDelay    = verifySpec{rule: tolAbsolute, abs: 1e-3}
	verifyTimebase = verifySpec{rule: tolRatio, lo: 0.2, hi: 1.2}
)

// VerifiedSetResult is the outcome of one set-then-verify cycle.
type VerifiedSetResult struct {
	Sent            string
	ReadBack        string
	WithinTolerance bool
}

// setVerify issues "<cmd> <value>", queries "<cmd>?" and compares the
// response under the given policy. Mismatches are recorded on r as a
// warning or a hard failure depending on the parameter's criticality. Transport
// faults are always hard; the caller may still attempt independent
// sibling parameters.
func (s *Scope) setVerify(r *Result, cmd, value string, spec verifySpec) VerifiedSetResult {
	res := VerifiedSetResult{Sent: value}
	if err := s.port.Write(cmd + " " + value); err != nil {
		r.failf("%s: %v", cmd, err)
		return res
	}
	resp, err := s.port.Query(cmd + "?")
	if err != nil {
		r.failf("%s readback: %v", cmd, err)
		return res
	}
	res.ReadBack = strings.TrimSpace(resp)
	res.WithinTolerance = matches(value, res.ReadBack, spec)
	if !res.WithinTolerance {
		if spec.hard {
			r.failf("%s: sent %q but device reports %q", cmd, value, res.ReadBack)
		} else {
			r.warnf("%s: sent %q but device reports %q", cmd, value, res.ReadBack)
		}
	}
	return res
}

// setOnly issues a command without readback. Reserved for parameters
// the device cannot echo comparably (zoom window, waveform point
// count, probe skew on some firmware).
func (s *Scope) setOnly(r *Result, cmd, value string) {
	if err := s.port.Write(cmd + " " + value); err != nil {
		r.failf("%s: %v", cmd, err)
	}
}

func matches(want, got string, spec verifySpec) bool {
	if spec.rule == tolExact {
		return strings.EqualFold(normalizeToken(want), normalizeToken(got))
	}
	w, err1 := strconv.ParseFloat(strings.TrimSpace(want), 64)
	g, err2 := strconv.ParseFloat(strings.TrimSpace(got), 64)
	if err1 != nil || err2 != nil {
		return false
	}
	switch spec.rule {
	case tolRelative:
		if w == 0 {
			return g == 0
		}
		return math.Abs(g-w) <= spec.rel*math.Abs(w)
	case tolAbsolute:
		return math.Abs(g-w) <= spec.abs
	case tolRatio:
		if w == 0 {
			return g == 0
		}
		ratio := g / w
		return ratio >= spec.lo && ratio <= spec.hi
	}
	return false
}

// normalizeToken strips the decorations devices add to echoed values
// ("+1" for "1", trailing newline fragments).
func normalizeToken(s string) string {
	return strings.TrimPrefix(strings.TrimSpace(s), "+")
}
