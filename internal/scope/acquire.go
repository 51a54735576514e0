package scope

import "strconv"

var configureAcquisitionSchema = map[string]paramSpec{
	"mode":     {kind: kindEnum, aliases: acquireTypeAliases},
	"count":    {kind: kindFloat, bounded: true, min: 2, max: 65536},
	"timebase": {kind: kindFloat},
	"position": {kind: kindFloat},
	"tbmode":   {kind: kindEnum, aliases: timebaseModeAliases},
}

// ConfigureAcquisition applies acquisition mode and horizontal
// settings. The timebase readback is compared through a ratio window
// rather than a symmetric tolerance: the device snaps to 1-2-5 steps,
// so the actual value can legitimately sit well below the request.
func (s *Scope) ConfigureAcquisition(opts ...Option) *Result {
	r := &Result{}
	params := buildParams(r, configureAcquisitionSchema, opts)

	if v, ok := params.enum("mode"); ok {
		s.setVerify(r, ":ACQuire:TYPE", v, verifyEnum)
	}
	if v, ok := params.float("count"); ok {
		s.setVerify(r, ":ACQuire:COUNt", strconv.Itoa(int(v)), verifyEnum)
	}
	if v, ok := params.float("timebase"); ok {
		str, _ := formatEng(v)
		s.setVerify(r, ":TIMebase:SCALe", str, verifyTimebase)
	}
	if v, ok := params.float("position"); ok {
		str, _ := formatEng(v)
		s.setVerify(r, ":TIMebase:POSition", str, verifyDelay)
	}
	if v, ok := params.enum("tbmode"); ok {
		s.setVerify(r, ":TIMebase:MODE", v, verifyEnum)
	}
	return r
}
