package scope

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"dsoctl/internal/config"
	"dsoctl/internal/transport"
)

// Status is the overall outcome of a measurement request.
type Status int

const (
	StatusOK Status = iota
	StatusFailed
)

// ErrorIDUnknown marks a result whose device error queue was never
// inspected. Distinct from 0, which means "inspected, no error".
const ErrorIDUnknown = -1

// invalidThreshold is the device's "no valid measurement" marker.
// Anything at or above it maps to NaN.
const invalidThreshold = 9e30

// MeasurementResult is the outcome of one measurement request.
type MeasurementResult struct {
	Status       Status
	Value        float64 // NaN when the device has no value
	Unit         string
	Channels     []int
	Parameter    string // canonical measurement name
	Overload     bool
	Underload    bool
	ErrorID      int
	ErrorMessage string
}

// measureAliases maps user synonyms to canonical measurement names.
var measureAliases = map[string]string{
	"frequency": "frequency", "freq": "frequency",
	"period": "period", "per": "period",
	"vaverage": "vaverage", "vavg": "vaverage", "average": "vaverage", "mean": "vaverage",
	"vrms": "vrms", "rms": "vrms", "cycrms": "vrms",
	"vpp": "vpp", "pkpk": "vpp", "pk-pk": "vpp", "peak-to-peak": "vpp",
	"vmax": "vmax", "maximum": "vmax", "max": "vmax",
	"vmin": "vmin", "minimum": "vmin", "min": "vmin",
	"vtop": "vtop", "top": "vtop",
	"vbase": "vbase", "base": "vbase",
	"vamplitude": "vamplitude", "vamp": "vamplitude", "amplitude": "vamplitude",
	"overshoot": "overshoot",
	"preshoot":  "preshoot",
	"risetime":  "risetime", "rise": "risetime",
	"falltime": "falltime", "fall": "falltime",
	"pwidth": "pwidth", "poswidth": "pwidth",
	"nwidth": "nwidth", "negwidth": "nwidth",
	"dutycycle": "dutycycle", "duty": "dutycycle",
	"phase": "phase",
	"delay": "delay",
}

// measureCommands maps canonical names to device command keywords.
var measureCommands = map[string]string{
	"frequency":  "FREQuency",
	"period":     "PERiod",
	"vaverage":   "VAVerage",
	"vrms":       "VRMS",
	"vpp":        "VPP",
	"vmax":       "VMAX",
	"vmin":       "VMIN",
	"vtop":       "VTOP",
	"vbase":      "VBASe",
	"vamplitude": "VAMPlitude",
	"overshoot":  "OVERshoot",
	"preshoot":   "PREShoot",
	"risetime":   "RISetime",
	"falltime":   "FALLtime",
	"pwidth":     "PWIDth",
	"nwidth":     "NWIDth",
	"dutycycle":  "DUTYcycle",
	"phase":      "PHASe",
	"delay":      "DELay",
}

// unitClass buckets canonical names for result unit resolution.
func unitClass(name string) string {
	switch name {
	case "period", "risetime", "falltime", "pwidth", "nwidth", "delay":
		return "time"
	case "dutycycle", "overshoot", "preshoot":
		return "ratio"
	case "phase":
		return "phase"
	case "frequency":
		return "frequency"
	default:
		return "voltage"
	}
}

// Measure requests one measurement from the device. An unrecognized
// parameter name fails immediately without any device interaction.
func (s *Scope) Measure(channels []int, parameter string) MeasurementResult {
	m := MeasurementResult{
		Status:    StatusFailed,
		Value:     math.NaN(),
		Channels:  channels,
		Parameter: parameter,
		ErrorID:   ErrorIDUnknown,
	}

	canonical, ok := measureAliases[strings.ToLower(strings.TrimSpace(parameter))]
	if !ok {
		m.ErrorMessage = fmt.Sprintf("unknown measurement %q", parameter)
		return m
	}
	m.Parameter = canonical

	// Channel-count constraints. Phase and delay relate two signals;
	// everything else measures exactly one.
	if canonical == "phase" || canonical == "delay" {
		if len(channels) != 2 {
			config.Log.Warnf("%s needs two channels, got %v; using channels 1,2", canonical, channels)
			channels = []int{1, 2}
			m.Channels = channels
		}
	} else if len(channels) != 1 {
		m.ErrorMessage = fmt.Sprintf("%s requires exactly one channel, got %d", canonical, len(channels))
		return m
	}

	// Fresh status register so post-measurement error inspection
	// reflects only this request.
	if err := s.port.Write("*CLS"); err != nil {
		m.ErrorMessage = err.Error()
		return m
	}

	if ok, reason := s.safeToQuery(); !ok {
		m.ErrorMessage = reason
		return m
	}

	var query string
	if len(channels) == 2 {
		query = fmt.Sprintf(":MEASure:%s? %s,%s", measureCommands[canonical], chanName(channels[0]), chanName(channels[1]))
	} else {
		query = fmt.Sprintf(":MEASure:%s? %s", measureCommands[canonical], chanName(channels[0]))
	}

	resp, err := s.port.Query(query)
	if err != nil {
		if transport.IsTimeout(err) {
			// The device may still be chewing on the request; resync
			// before anything else talks to it.
			s.port.OPC()
		}
		m.ErrorMessage = err.Error()
		return m
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(resp), 64)
	if err != nil {
		m.ErrorMessage = fmt.Sprintf("unparseable measurement response %q", resp)
		return m
	}
	if math.Abs(value) >= invalidThreshold {
		value = math.NaN()
	}
	m.Value = value
	m.Unit = s.resolveUnit(canonical, channels[0])
	m.Status = StatusOK

	m.ErrorID, m.ErrorMessage = s.checkEventStatus()
	lower := strings.ToLower(m.ErrorMessage)
	m.Overload = strings.Contains(lower, "overload")
	m.Underload = strings.Contains(lower, "underload")
	return m
}

// resolveUnit picks the result unit. Voltage-class measurements follow
// the channel's configured unit since probes may read current.
func (s *Scope) resolveUnit(canonical string, channel int) string {
	switch unitClass(canonical) {
	case "time":
		return "s"
	case "ratio":
		return "%"
	case "phase":
		return "deg"
	case "frequency":
		return "Hz"
	}
	resp, err := s.port.Query(fmt.Sprintf(":CHANnel%d:UNITs?", channel))
	if err == nil && strings.EqualFold(strings.TrimSpace(resp), "AMP") {
		return "A"
	}
	return "V"
}

// checkEventStatus polls the event status register and, when it is
// non-zero, drains exactly one entry from the device error queue.
func (s *Scope) checkEventStatus() (int, string) {
	resp, err := s.port.Query("*ESR?")
	if err != nil {
		return ErrorIDUnknown, err.Error()
	}
	esr, err := strconv.Atoi(normalizeToken(resp))
	if err != nil || esr == 0 {
		return 0, "okay"
	}
	entry, err := s.port.Query(":SYSTem:ERRor?")
	if err != nil {
		return ErrorIDUnknown, err.Error()
	}
	devErr := parseDeviceError(entry)
	return devErr.Code, devErr.Message
}
