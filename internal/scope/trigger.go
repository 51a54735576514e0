package scope

import "math"

var configureTriggerSchema = map[string]paramSpec{
	"sweep":       {kind: kindEnum, aliases: sweepAliases},
	"mode":        {kind: kindEnum, aliases: triggerModeAliases},
	"slope":       {kind: kindEnum, aliases: slopeAliases},
	"source":      {kind: kindEnum, aliases: sourceAliases},
	"coupling":    {kind: kindEnum, aliases: triggerCouplingAliases},
	"reject":      {kind: kindEnum, aliases: rejectAliases},
	"noisereject": {kind: kindBool},
	"level":       {kind: kindFloat, allowNaN: true},
	"position":    {kind: kindFloat},
}

// ConfigureTrigger applies trigger settings. A NaN (or "auto") level
// asks the device to set the level to 50% of the signal instead of a
// fixed voltage.
func (s *Scope) ConfigureTrigger(opts ...Option) *Result {
	r := &Result{}
	params := buildParams(r, configureTriggerSchema, opts)

	if v, ok := params.enum("sweep"); ok {
		s.setVerify(r, ":TRIGger:SWEep", v, verifyEnum)
	}
	if v, ok := params.enum("mode"); ok {
		s.setVerify(r, ":TRIGger:MODE", v, verifyEnum)
	}
	if v, ok := params.enum("slope"); ok {
		s.setVerify(r, ":TRIGger:SLOPe", v, verifyEnum)
	}
	if v, ok := params.enum("source"); ok {
		s.setVerify(r, ":TRIGger:SOURce", v, verifyEnum)
	}
	if v, ok := params.enum("coupling"); ok {
		s.setVerify(r, ":TRIGger:COUPling", v, verifyEnum)
	}
	if v, ok := params.enum("reject"); ok {
		s.setVerify(r, ":TRIGger:REJect", v, verifyEnum)
	}
	if v, ok := params.boolean("noisereject"); ok {
		s.setVerify(r, ":TRIGger:NREJect", onOff(v), verifyEnum)
	}
	if v, ok := params.float("level"); ok {
		if math.IsNaN(v) {
			// No comparable readback for the auto-setup form.
			if err := s.port.Write(":TRIGger:LEVel:ASETup"); err != nil {
				r.failf(":TRIGger:LEVel:ASETup: %v", err)
			}
		} else {
			str, _ := formatEng(v)
			s.setVerify(r, ":TRIGger:EDGE:LEVel", str, verifyLevel)
		}
	}
	if v, ok := params.float("position"); ok {
		str, _ := formatEng(v)
		s.setVerify(r, ":TRIGger:POSition", str, verifyDelay)
	}
	return r
}
