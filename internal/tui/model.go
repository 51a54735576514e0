package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"dsoctl/internal/scope"
	"dsoctl/internal/util"
)

// reading is one measurement row in the dashboard.
type reading struct {
	parameter string
	result    scope.MeasurementResult
}

// Model is the main Bubbletea model for the live monitor.
type Model struct {
	scope    *scope.Scope
	channel  int
	params   []string
	interval time.Duration

	// State
	width      int
	height     int
	paused     bool
	inflight   bool // the SCPI session is single-threaded, never overlap fetches
	firstFetch bool
	readings   []reading
	running    bool
	triggered  bool
	lastUpdate time.Time
	errorMsg   string

	// Components
	keys    KeyMap
	help    help.Model
	spinner spinner.Model
	styles  Styles
}

// readingsMsg delivers one full refresh from the instrument.
type readingsMsg struct {
	readings  []reading
	running   bool
	triggered bool
	err       error
}

// refreshTickMsg triggers the next periodic refresh.
type refreshTickMsg time.Time

// NewModel creates the monitor model.
func NewModel(s *scope.Scope, channel int, params []string, interval time.Duration) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		scope:      s,
		channel:    channel,
		params:     params,
		interval:   interval,
		firstFetch: true,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		spinner:    sp,
		styles:     DefaultStyles(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchReadings())
}

// fetchReadings queries all configured measurements plus the run state
// in one command. Queries run sequentially on the shared port.
func (m Model) fetchReadings() tea.Cmd {
	s := m.scope
	channel := m.channel
	params := m.params
	return func() tea.Msg {
		var msg readingsMsg
		running, err := s.Running()
		if err != nil {
			msg.err = err
			return msg
		}
		triggered, err := s.Triggered()
		if err != nil {
			msg.err = err
			return msg
		}
		msg.running = running
		msg.triggered = triggered
		for _, p := range params {
			msg.readings = append(msg.readings, reading{
				parameter: p,
				result:    s.Measure([]int{channel}, p),
			})
		}
		return msg
	}
}

func (m Model) scheduleRefresh() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
			if !m.paused && !m.inflight {
				m.inflight = true
				return m, m.fetchReadings()
			}
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			if !m.inflight {
				m.inflight = true
				return m, m.fetchReadings()
			}
			return m, nil
		case key.Matches(msg, m.keys.NextChannel):
			return m.switchChannel(m.channel + 1)
		case key.Matches(msg, m.keys.PrevChannel):
			return m.switchChannel(m.channel - 1)
		}
		return m, nil

	case readingsMsg:
		m.inflight = false
		m.firstFetch = false
		if msg.err != nil {
			m.errorMsg = msg.err.Error()
		} else {
			m.errorMsg = ""
			m.readings = msg.readings
			m.running = msg.running
			m.triggered = msg.triggered
			m.lastUpdate = time.Now()
		}
		if m.paused {
			return m, nil
		}
		return m, m.scheduleRefresh()

	case refreshTickMsg:
		if m.paused || m.inflight {
			return m, nil
		}
		m.inflight = true
		return m, m.fetchReadings()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) switchChannel(ch int) (tea.Model, tea.Cmd) {
	if ch < 1 {
		ch = 4
	}
	if ch > 4 {
		ch = 1
	}
	m.channel = ch
	m.readings = nil
	m.firstFetch = true
	if m.inflight {
		return m, nil
	}
	m.inflight = true
	return m, m.fetchReadings()
}

func (m Model) View() string {
	var b strings.Builder

	title := m.styles.Title.Render("dsoctl monitor")
	sub := m.styles.Subtitle.Render(fmt.Sprintf(" channel %d", m.channel))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, title, sub))
	b.WriteString("\n\n")

	if m.firstFetch && m.errorMsg == "" {
		b.WriteString(m.spinner.View())
		b.WriteString(m.styles.Muted.Render(" querying instrument..."))
		b.WriteString("\n")
	} else {
		for _, r := range m.readings {
			b.WriteString(m.styles.Label.Render(r.parameter))
			b.WriteString(m.renderValue(r.result))
			b.WriteString("\n")
		}
	}

	if m.errorMsg != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render("error: " + m.errorMsg))
		b.WriteString("\n")
	}

	b.WriteString(m.statusBar())
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(m.help.View(m.keys)))

	return m.styles.App.Render(b.String())
}

func (m Model) renderValue(r scope.MeasurementResult) string {
	if r.Status != scope.StatusOK {
		return m.styles.Error.Render(r.ErrorMessage)
	}
	v := m.styles.Value.Render(util.FormatSI(r.Value, r.Unit))
	switch {
	case r.Overload:
		return v + m.styles.Warning.Render("  overload")
	case r.Underload:
		return v + m.styles.Warning.Render("  underload")
	case r.ErrorID != 0:
		return v + m.styles.Warning.Render("  "+r.ErrorMessage)
	}
	return v
}

func (m Model) statusBar() string {
	var parts []string

	if m.running {
		parts = append(parts, m.styles.StatusRunning.Render("RUN"))
	} else {
		parts = append(parts, m.styles.StatusStopped.Render("STOP"))
	}
	if m.triggered {
		parts = append(parts, m.styles.StatusValue.Render("trig'd"))
	}
	if m.paused {
		parts = append(parts, m.styles.Warning.Render("paused"))
	}
	if !m.lastUpdate.IsZero() {
		parts = append(parts,
			m.styles.StatusKey.Render("updated")+
				m.styles.StatusValue.Render(m.lastUpdate.Format("15:04:05")))
	}

	return m.styles.StatusBar.Render(strings.Join(parts, " "))
}
