package scope

import "fmt"

// configureInputSchema is the closed set of parameters ConfigureInput
// understands.
var configureInputSchema = map[string]paramSpec{
	"channels": {kind: kindChannels},
	"coupling": {kind: kindEnum, aliases: couplingAliases},
	"probe":    {kind: kindFloat, bounded: true, min: 0.1, max: 10000},
	"bwlimit":  {kind: kindBool},
	"units":    {kind: kindEnum, aliases: unitAliases},
	"invert":   {kind: kindBool},
	"display":  {kind: kindBool},
	"scale":    {kind: kindFloat},
	"offset":   {kind: kindFloat},
	"skew":     {kind: kindFloat},
}

// ConfigureInput applies vertical/input settings to one or more
// channels. Every recognized parameter is independent: a failure on
// one does not stop the others. With no valid channel list the call
// is skipped.
func (s *Scope) ConfigureInput(opts ...Option) *Result {
	r := &Result{}
	params := buildParams(r, configureInputSchema, opts)

	chans, ok := params.channels("channels")
	if !ok || len(chans) == 0 {
		r.warnf("configure input: no valid channels given, nothing to do")
		return r
	}

	for _, ch := range chans {
		prefix := fmt.Sprintf(":CHANnel%d", ch)

		if v, ok := params.enum("coupling"); ok {
			s.setVerify(r, prefix+":COUPling", v, verifyEnum)
		}
		if v, ok := params.float("probe"); ok {
			str, _ := formatEng(v)
			s.setVerify(r, prefix+":PROBe", str, verifyScale)
		}
		if v, ok := params.boolean("bwlimit"); ok {
			s.setVerify(r, prefix+":BWLimit", onOff(v), verifyEnum)
		}
		if v, ok := params.enum("units"); ok {
			s.setVerify(r, prefix+":UNITs", v, verifyEnum)
		}
		if v, ok := params.boolean("invert"); ok {
			s.setVerify(r, prefix+":INVert", onOff(v), verifyEnum)
		}
		if v, ok := params.boolean("display"); ok {
			s.setVerify(r, prefix+":DISPlay", onOff(v), verifyEnum)
		}
		if v, ok := params.float("scale"); ok {
			str, _ := formatEng(v)
			s.setVerify(r, prefix+":SCALe", str, verifyScale)
		}
		if v, ok := params.float("offset"); ok {
			str, _ := formatEng(v)
			s.setVerify(r, prefix+":OFFSet", str, verifyOffset)
		}
		if v, ok := params.float("skew"); ok {
			str, _ := formatEng(v)
			s.setVerify(r, prefix+":PROBe:SKEW", str, verifyScale)
		}
	}
	return r
}
