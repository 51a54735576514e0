package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"dsoctl/internal/commands"
	"dsoctl/internal/config"
	"dsoctl/internal/scope"
	"dsoctl/internal/transport"
	"dsoctl/internal/tui"
)

// CLI is the root command structure for dsoctl.
type CLI struct {
	Verbose bool   `short:"v" help:"Enable verbose debug output"`
	Addr    string `help:"SCPI socket address (host:port)" env:"DSOCTL_ADDR" default:"scope:5555"`
	Serial  string `help:"Serial device path (overrides --addr)" env:"DSOCTL_SERIAL"`
	Baud    int    `help:"Serial baud rate" default:"57600"`
	Binary  string `help:"Binary transfer path" enum:"auto,split,combined" default:"auto"`

	Id         IdCmd         `cmd:"" help:"Identify the instrument"`
	Channel    ChannelCmd    `cmd:"" help:"Configure input channel(s)"`
	Acquire    AcquireCmd    `cmd:"" help:"Configure acquisition and timebase"`
	Trigger    TriggerCmd    `cmd:"" help:"Configure the trigger system"`
	Zoom       ZoomCmd       `cmd:"" help:"Configure the zoom window"`
	Autoscale  AutoscaleCmd  `cmd:"" help:"Autoscale vertical and/or horizontal axes"`
	Measure    MeasureCmd    `cmd:"" help:"Run one measurement"`
	Waveform   WaveformCmd   `cmd:"" help:"Capture a waveform to CSV"`
	Screenshot ScreenshotCmd `cmd:"" help:"Capture the display to an image file"`
	Status     StatusCmd     `cmd:"" help:"Show acquisition/trigger state and error queue"`
	Reset      ResetCmd      `cmd:"" help:"Reset the instrument to power-on defaults"`
	Lock       LockCmd       `cmd:"" help:"Lock or unlock the front panel"`
	Monitor    MonitorCmd    `cmd:"" help:"Live measurement dashboard"`
	Debug      DebugCmd      `cmd:"" help:"Debug and development tools"`
}

// connect opens the transport, resolves capabilities once, and builds
// the driver session. The caller closes the returned port.
func (c *CLI) connect() (*scope.Scope, transport.Port, transport.Capabilities, error) {
	config.Setup(c.Verbose)

	var (
		port transport.Port
		err  error
	)
	if c.Serial != "" {
		port, err = transport.OpenSerial(c.Serial, c.Baud)
	} else {
		port, err = transport.Dial(c.Addr)
	}
	if err != nil {
		return nil, nil, transport.Capabilities{}, err
	}

	var caps transport.Capabilities
	switch c.Binary {
	case "split":
		caps.SplitBinaryRead = true
	case "combined":
		// combined query path, nothing to set
	default:
		idn, err := port.Query("*IDN?")
		if err != nil {
			port.Close()
			return nil, nil, caps, fmt.Errorf("identify instrument: %w", err)
		}
		caps = transport.Detect(idn)
	}
	return scope.New(port, caps), port, caps, nil
}

// --- Identify ---

type IdCmd struct{}

func (c *IdCmd) Run(globals *CLI) error {
	s, port, caps, err := globals.connect()
	if err != nil {
		return err
	}
	defer port.Close()
	return commands.Identify(s, caps)
}

// --- Channel ---

type ChannelCmd struct {
	Channels string   `arg:"" help:"Channel list, e.g. 1 or 1,2"`
	Coupling *string  `help:"Input coupling: ac, dc, gnd"`
	Probe    *float64 `help:"Probe attenuation divider (0.1-10000)"`
	Bwlimit  *bool    `help:"Bandwidth limit on/off"`
	Units    *string  `help:"Vertical units: volt, amp"`
	Invert   *bool    `help:"Invert the trace"`
	Display  *bool    `help:"Trace display on/off"`
	Scale    *float64 `help:"Vertical scale in units/div"`
	Offset   *float64 `help:"Vertical offset in units"`
	Skew     *float64 `help:"Probe skew in seconds"`
}

func (c *ChannelCmd) Run(globals *CLI) error {
	s, port, _, err := globals.connect()
	if err != nil {
		return err
	}
	defer port.Close()

	opts := []scope.Option{scope.Opt("channels", c.Channels)}
	if c.Coupling != nil {
		opts = append(opts, scope.Opt("coupling", *c.Coupling))
	}
	if c.Probe != nil {
		opts = append(opts, scope.Opt("probe", *c.Probe))
	}
	if c.Bwlimit != nil {
		opts = append(opts, scope.Opt("bwlimit", *c.Bwlimit))
	}
	if c.Units != nil {
		opts = append(opts, scope.Opt("units", *c.Units))
	}
	if c.Invert != nil {
		opts = append(opts, scope.Opt("invert", *c.Invert))
	}
	if c.Display != nil {
		opts = append(opts, scope.Opt("display", *c.Display))
	}
	if c.Scale != nil {
		opts = append(opts, scope.Opt("scale", *c.Scale))
	}
	if c.Offset != nil {
		opts = append(opts, scope.Opt("offset", *c.Offset))
	}
	if c.Skew != nil {
		opts = append(opts, scope.Opt("skew", *c.Skew))
	}
	return commands.Report(s.ConfigureInput(opts...))
}

// --- Acquire ---

type AcquireCmd struct {
	Mode     *string  `help:"Acquisition mode: normal, average, peak, highres"`
	Count    *int     `help:"Average count (2-65536)"`
	Timebase *float64 `help:"Timebase scale in s/div"`
	Position *float64 `help:"Timebase position in s"`
	TbMode   *string  `name:"tb-mode" help:"Timebase mode: main, xy, roll"`
}

func (c *AcquireCmd) Run(globals *CLI) error {
	s, port, _, err := globals.connect()
	if err != nil {
		return err
	}
	defer port.Close()

	var opts []scope.Option
	if c.Mode != nil {
		opts = append(opts, scope.Opt("mode", *c.Mode))
	}
	if c.Count != nil {
		opts = append(opts, scope.Opt("count", *c.Count))
	}
	if c.Timebase != nil {
		opts = append(opts, scope.Opt("timebase", *c.Timebase))
	}
	if c.Position != nil {
		opts = append(opts, scope.Opt("position", *c.Position))
	}
	if c.TbMode != nil {
		opts = append(opts, scope.Opt("tbmode", *c.TbMode))
	}
	return commands.Report(s.ConfigureAcquisition(opts...))
}

// --- Trigger ---

type TriggerCmd struct {
	Sweep       *string  `help:"Sweep mode: auto, normal"`
	Mode        *string  `help:"Trigger mode: edge, pulse, tv, pattern"`
	Slope       *string  `help:"Edge slope: rising, falling"`
	Source      *string  `help:"Trigger source: 1-4, ext, line"`
	Coupling    *string  `help:"Trigger coupling: ac, dc, lf"`
	Reject      *string  `help:"Frequency reject filter: off, lf, hf"`
	NoiseReject *bool    `name:"noise-reject" help:"Noise reject on/off"`
	Level       string   `help:"Trigger level in volts, or 'auto' for 50%"`
	Position    *float64 `help:"Trigger position in s"`
}

func (c *TriggerCmd) Run(globals *CLI) error {
	s, port, _, err := globals.connect()
	if err != nil {
		return err
	}
	defer port.Close()

	var opts []scope.Option
	if c.Sweep != nil {
		opts = append(opts, scope.Opt("sweep", *c.Sweep))
	}
	if c.Mode != nil {
		opts = append(opts, scope.Opt("mode", *c.Mode))
	}
	if c.Slope != nil {
		opts = append(opts, scope.Opt("slope", *c.Slope))
	}
	if c.Source != nil {
		opts = append(opts, scope.Opt("source", *c.Source))
	}
	if c.Coupling != nil {
		opts = append(opts, scope.Opt("coupling", *c.Coupling))
	}
	if c.Reject != nil {
		opts = append(opts, scope.Opt("reject", *c.Reject))
	}
	if c.NoiseReject != nil {
		opts = append(opts, scope.Opt("noisereject", *c.NoiseReject))
	}
	if c.Level != "" {
		opts = append(opts, scope.Opt("level", c.Level))
	}
	if c.Position != nil {
		opts = append(opts, scope.Opt("position", *c.Position))
	}
	return commands.Report(s.ConfigureTrigger(opts...))
}

// --- Zoom ---

type ZoomCmd struct {
	Factor   float64  `help:"Zoom factor (>= 2), 0 disables" default:"0"`
	Position *float64 `help:"Zoom window position in s"`
}

func (c *ZoomCmd) Run(globals *CLI) error {
	s, port, _, err := globals.connect()
	if err != nil {
		return err
	}
	defer port.Close()

	opts := []scope.Option{scope.Opt("factor", c.Factor)}
	if c.Position != nil {
		opts = append(opts, scope.Opt("position", *c.Position))
	}
	return commands.Report(s.ConfigureZoom(opts...))
}

// --- Autoscale ---

type AutoscaleCmd struct {
	Mode     string  `help:"Axes to scale: vertical, horizontal, both" default:"both"`
	Channels string  `help:"Channel list, default all"`
	Periods  float64 `help:"Visible signal periods for horizontal scaling" default:"2"`
	Headroom float64 `help:"Vertical screen fraction the signal may occupy" default:"0.8"`
}

func (c *AutoscaleCmd) Run(globals *CLI) error {
	s, port, _, err := globals.connect()
	if err != nil {
		return err
	}
	defer port.Close()

	s.VisiblePeriods = c.Periods
	s.VerticalFraction = c.Headroom
	return commands.Autoscale(s, c.Mode, c.Channels)
}

// --- Measure ---

type MeasureCmd struct {
	Parameter string `arg:"" help:"Measurement name, e.g. vpp, frequency, phase"`
	Channels  string `help:"Channel list" default:"1"`
}

func (c *MeasureCmd) Run(globals *CLI) error {
	s, port, _, err := globals.connect()
	if err != nil {
		return err
	}
	defer port.Close()

	return commands.Measure(s, parseChannelArg(c.Channels), c.Parameter)
}

// --- Waveform ---

type WaveformCmd struct {
	Output  string `arg:"" help:"Output CSV file"`
	Channel int    `help:"Source channel" default:"1"`
	Points  int    `help:"Record length, 0 keeps the device setting" default:"0"`
}

func (c *WaveformCmd) Run(globals *CLI) error {
	s, port, _, err := globals.connect()
	if err != nil {
		return err
	}
	defer port.Close()

	return commands.Waveform(s, c.Channel, c.Points, c.Output)
}

// --- Screenshot ---

type ScreenshotCmd struct {
	Output string `arg:"" help:"Output image file (png, bmp, bmp8, tiff)"`
}

func (c *ScreenshotCmd) Run(globals *CLI) error {
	// Validate the filename before paying for a connection.
	if _, err := scope.ScreenshotFormat(c.Output); err != nil {
		return err
	}
	s, port, _, err := globals.connect()
	if err != nil {
		return err
	}
	defer port.Close()

	return commands.Screenshot(s, c.Output)
}

// --- Status / Reset ---

type StatusCmd struct{}

func (c *StatusCmd) Run(globals *CLI) error {
	s, port, _, err := globals.connect()
	if err != nil {
		return err
	}
	defer port.Close()
	return commands.Status(s)
}

type ResetCmd struct{}

func (c *ResetCmd) Run(globals *CLI) error {
	s, port, _, err := globals.connect()
	if err != nil {
		return err
	}
	defer port.Close()
	return commands.Reset(s)
}

// --- Lock ---

type LockCmd struct {
	State string `arg:"" enum:"on,off" help:"on locks the panel, off releases it"`
}

func (c *LockCmd) Run(globals *CLI) error {
	s, port, _, err := globals.connect()
	if err != nil {
		return err
	}
	defer port.Close()
	return s.Lock(c.State == "on")
}

// --- Monitor ---

type MonitorCmd struct {
	Parameters string        `help:"Comma-separated measurement names" default:"vpp,frequency"`
	Channel    int           `help:"Source channel" default:"1"`
	Interval   time.Duration `help:"Refresh interval" default:"1s"`
}

func (c *MonitorCmd) Run(globals *CLI) error {
	s, port, _, err := globals.connect()
	if err != nil {
		return err
	}
	defer port.Close()

	return tui.Run(s, c.Channel, splitList(c.Parameters), c.Interval)
}

// --- Debug ---

type DebugCmd struct {
	Query DebugQueryCmd `cmd:"" help:"Send one raw SCPI query"`
}

type DebugQueryCmd struct {
	Command string `arg:"" help:"Raw query, e.g. ':CHANnel1:SCALe?'"`
}

func (c *DebugQueryCmd) Run(globals *CLI) error {
	_, port, _, err := globals.connect()
	if err != nil {
		return err
	}
	defer port.Close()
	return commands.RawQuery(port, c.Command)
}

// parseChannelArg turns "1,2" or "ch1,ch2" into channel numbers.
// Unparseable entries are left to the driver's own validation.
func parseChannelArg(arg string) []int {
	var channels []int
	for _, tok := range splitList(arg) {
		tok = strings.TrimPrefix(strings.ToLower(tok), "ch")
		n, err := strconv.Atoi(tok)
		if err != nil {
			continue
		}
		channels = append(channels, n)
	}
	return channels
}

func splitList(s string) []string {
	var out []string
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
