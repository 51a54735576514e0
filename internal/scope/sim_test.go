package scope

import (
	"strings"

	"dsoctl/internal/transport"
)

// fakePort simulates the instrument: set commands are remembered and
// echoed back on query, canned responses can be queued per command,
// and every exchange is recorded for spying.
type fakePort struct {
	log       []string
	state     map[string]string
	responses map[string][]string
	blocks    map[string][]byte
	queryHook func(cmd string) (string, bool)
	writeErr  error
}

var _ transport.Port = (*fakePort)(nil)

func newFakePort() *fakePort {
	return &fakePort{
		state:     map[string]string{},
		responses: map[string][]string{},
		blocks:    map[string][]byte{},
	}
}

// enqueue queues canned responses for one exact query string.
func (f *fakePort) enqueue(cmd string, resp ...string) {
	f.responses[cmd] = append(f.responses[cmd], resp...)
}

// calls counts logged exchanges matching a prefix.
func (f *fakePort) calls(prefix string) int {
	n := 0
	for _, entry := range f.log {
		if strings.HasPrefix(entry, prefix) {
			n++
		}
	}
	return n
}

func (f *fakePort) Write(cmd string) error {
	f.log = append(f.log, cmd)
	if f.writeErr != nil {
		return f.writeErr
	}
	if i := strings.IndexByte(cmd, ' '); i > 0 {
		f.state[cmd[:i]] = cmd[i+1:]
	}
	return nil
}

func (f *fakePort) Query(cmd string) (string, error) {
	f.log = append(f.log, cmd)
	if f.queryHook != nil {
		if resp, ok := f.queryHook(cmd); ok {
			return resp, nil
		}
	}
	if queue := f.responses[cmd]; len(queue) > 0 {
		f.responses[cmd] = queue[1:]
		return queue[0], nil
	}
	if base, ok := strings.CutSuffix(cmd, "?"); ok {
		if v, ok := f.state[base]; ok {
			return v, nil
		}
	}
	switch {
	case cmd == "*OPC?":
		return "1", nil
	case cmd == "*ESR?":
		return "0", nil
	case cmd == ":SYSTem:ERRor?":
		return `0,"No error"`, nil
	case cmd == ":OPERegister:CONDition?":
		return "0", nil
	case cmd == ":TRIGger:SWEep?":
		return "AUTO", nil
	case strings.HasSuffix(cmd, ":DISPlay?"):
		return "1", nil
	}
	return "0", nil
}

func (f *fakePort) QueryRaw(cmd string) ([]byte, error) {
	f.log = append(f.log, cmd)
	return f.blocks[cmd], nil
}

func (f *fakePort) Read() ([]byte, error) {
	return f.blocks["<read>"], nil
}

func (f *fakePort) OPC() error {
	f.log = append(f.log, "*OPC?")
	return nil
}

func (f *fakePort) Close() error { return nil }

func newTestScope() (*Scope, *fakePort) {
	f := newFakePort()
	return New(f, transport.Capabilities{}), f
}

func splitCaps() transport.Capabilities {
	return transport.Capabilities{SplitBinaryRead: true}
}
