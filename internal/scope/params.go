package scope

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Option is one loosely typed (name, value) configuration pair. Values
// may be strings, numbers, booleans or slices; each call validates
// them against its own closed schema and ignores what it cannot use.
type Option struct {
	Name  string
	Value any
}

// Opt builds an Option. Convenience for call sites.
func Opt(name string, value any) Option {
	return Option{Name: name, Value: value}
}

type paramKind int

const (
	kindChannels paramKind = iota
	kindEnum
	kindFloat
	kindBool
)

// paramSpec is the validation rule for one recognized parameter name.
type paramSpec struct {
	kind     paramKind
	aliases  map[string]string // kindEnum: user synonym -> device token
	min, max float64           // kindFloat with bounded set
	bounded  bool
	allowNaN bool // NaN is a meaningful sentinel, keep it
}

// paramSet holds normalized values: []int for channel lists, string
// device tokens for enums, float64 for numerics, bool for switches.
// Absent keys mean the parameter was not supplied or failed validation.
type paramSet map[string]any

func (p paramSet) channels(name string) ([]int, bool) {
	v, ok := p[name].([]int)
	return v, ok
}

func (p paramSet) enum(name string) (string, bool) {
	v, ok := p[name].(string)
	return v, ok
}

func (p paramSet) float(name string) (float64, bool) {
	v, ok := p[name].(float64)
	return v, ok
}

func (p paramSet) boolean(name string) (bool, bool) {
	v, ok := p[name].(bool)
	return v, ok
}

// buildParams normalizes a variadic option list against a schema.
// Unknown names and invalid values are dropped with a warning; they
// never abort the call.
func buildParams(r *Result, schema map[string]paramSpec, opts []Option) paramSet {
	set := paramSet{}
	for _, opt := range opts {
		name := strings.ToLower(strings.TrimSpace(opt.Name))
		spec, ok := schema[name]
		if !ok {
			r.warnf("ignoring unknown parameter %q", opt.Name)
			continue
		}
		switch spec.kind {
		case kindChannels:
			chans := parseChannels(r, opt.Value, maxChannels)
			if len(chans) > 0 {
				set[name] = chans
			}
		case kindEnum:
			raw, err := toString(opt.Value)
			if err != nil {
				r.warnf("parameter %q: %v", name, err)
				continue
			}
			token, ok := spec.aliases[strings.ToLower(strings.TrimSpace(raw))]
			if !ok {
				r.warnf("parameter %q: unrecognized value %q", name, raw)
				continue
			}
			set[name] = token
		case kindFloat:
			v, err := toFloat(opt.Value)
			if err != nil {
				r.warnf("parameter %q: %v", name, err)
				continue
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				if spec.allowNaN {
					set[name] = math.NaN()
				}
				// Non-finite without sentinel semantics: absent.
				continue
			}
			if spec.bounded && (v < spec.min || v > spec.max) {
				r.warnf("parameter %q: value %g outside [%g, %g]", name, v, spec.min, spec.max)
				continue
			}
			set[name] = v
		case kindBool:
			v, err := toBool(opt.Value)
			if err != nil {
				r.warnf("parameter %q: %v", name, err)
				continue
			}
			set[name] = v
		}
	}
	return set
}

// maxChannels is the largest channel ordinal this device class carries.
const maxChannels = 4

// parseChannels resolves a loosely typed channel list. Accepted inputs:
// a single ordinal, a comma-separated string, or a slice of either.
// Invalid ordinals are dropped with a warning, duplicates removed.
func parseChannels(r *Result, value any, max int) []int {
	var tokens []string
	switch v := value.(type) {
	case nil:
		return nil
	case []int:
		for _, n := range v {
			tokens = append(tokens, strconv.Itoa(n))
		}
	case []string:
		tokens = v
	case string:
		tokens = strings.Split(v, ",")
	default:
		if f, err := toFloat(value); err == nil {
			tokens = []string{strconv.Itoa(int(f))}
		} else {
			r.warnf("channels: cannot interpret %v", value)
			return nil
		}
	}

	seen := map[int]bool{}
	var out []int
	for _, tok := range tokens {
		tok = strings.TrimSpace(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(tok)), "ch"))
		if tok == "" {
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil || n < 1 || n > max {
			r.warnf("channels: dropping invalid channel %q", tok)
			continue
		}
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// formatEng rounds a value to 3 significant digits in engineering
// notation and returns both the wire string and the rounded value.
// All tolerance comparisons use the rounded value, never the original
// input. Formatting an already-formatted value changes nothing.
func formatEng(v float64) (string, float64) {
	s := strconv.FormatFloat(v, 'e', 2, 64)
	rounded, _ := strconv.ParseFloat(s, 64)
	return s, rounded
}

func toString(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	default:
		return "", fmt.Errorf("cannot interpret %T as text", value)
	}
}

func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		s := strings.TrimSpace(strings.ToLower(v))
		if s == "" || s == "auto" || s == "nan" {
			return math.NaN(), nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot interpret %q as a number", v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("cannot interpret %T as a number", value)
	}
}

func toBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "on", "true", "yes":
			return true, nil
		case "0", "off", "false", "no":
			return false, nil
		}
		return false, fmt.Errorf("cannot interpret %q as a switch", v)
	case int:
		return v != 0, nil
	case float64:
		return v != 0, nil
	default:
		return false, fmt.Errorf("cannot interpret %T as a switch", value)
	}
}

// Alias tables. Keys are lowercase user-facing synonyms, values the
// canonical short-form device tokens, which is also what the device
// echoes on query.
var (
	couplingAliases = map[string]string{
		"ac": "AC", "dc": "DC", "gnd": "GND", "ground": "GND",
	}
	unitAliases = map[string]string{
		"volt": "VOLT", "v": "VOLT", "volts": "VOLT",
		"amp": "AMP", "a": "AMP", "ampere": "AMP", "amps": "AMP",
	}
	acquireTypeAliases = map[string]string{
		"normal": "NORM", "norm": "NORM", "sample": "NORM",
		"average": "AVER", "aver": "AVER", "avg": "AVER",
		"peak": "PEAK", "peakdetect": "PEAK",
		"highres": "HRES", "hres": "HRES", "highresolution": "HRES",
	}
	timebaseModeAliases = map[string]string{
		"main": "MAIN", "xy": "XY", "roll": "ROLL",
	}
	sweepAliases = map[string]string{
		"auto": "AUTO", "free-run": "AUTO", "freerun": "AUTO",
		"normal": "NORM", "norm": "NORM", "triggered": "NORM",
	}
	triggerModeAliases = map[string]string{
		"edge": "EDGE", "pulse": "PULS", "glitch": "PULS",
		"tv": "TV", "video": "TV", "pattern": "PATT",
	}
	slopeAliases = map[string]string{
		"positive": "POS", "pos": "POS", "rising": "POS", "rise": "POS",
		"negative": "NEG", "neg": "NEG", "falling": "NEG", "fall": "NEG",
	}
	sourceAliases = map[string]string{
		"1": "CHAN1", "2": "CHAN2", "3": "CHAN3", "4": "CHAN4",
		"ch1": "CHAN1", "ch2": "CHAN2", "ch3": "CHAN3", "ch4": "CHAN4",
		"chan1": "CHAN1", "chan2": "CHAN2", "chan3": "CHAN3", "chan4": "CHAN4",
		"channel1": "CHAN1", "channel2": "CHAN2", "channel3": "CHAN3", "channel4": "CHAN4",
		"ext": "EXT", "external": "EXT",
		"line": "LINE", "mains": "LINE",
	}
	triggerCouplingAliases = map[string]string{
		"ac": "AC", "dc": "DC", "lf": "LF", "lfreject": "LF",
	}
	rejectAliases = map[string]string{
		"off": "OFF", "none": "OFF",
		"lf": "LF", "lfreject": "LF",
		"hf": "HF", "hfreject": "HF",
	}
)
