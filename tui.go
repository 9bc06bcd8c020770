package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TUI message types
type StateMsg struct{ State recordingState }
type LevelMsg struct{ Level LevelState }
type LedMsg struct{ Mode ledMode }
type LinkMsg struct{ Connected bool }
type BatteryMsg struct{ Percent int }
type PhotoMsg struct{ Sent, Total int }
type LogMsg struct{ Text string }
type tickMsg time.Time

const tuiLogLines = 8

type tuiModel struct {
	state         recordingState
	level         float64
	peak          int
	led           ledMode
	connected     bool
	battery       int
	photoSent     int
	photoTotal    int
	frame         int
	width, height int
	logLines      []string
}

var (
	styleTitle  = lipgloss.NewStyle().Foreground(lipgloss.Color("246")).Bold(true)
	styleRec    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleIdle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	styleWarn   = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	styleOK     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	styleDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	styleBarOn  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	styleBarOff = lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
)

func NewTUIProgram() *tea.Program {
	return tea.NewProgram(tuiModel{battery: -1}, tea.WithAltScreen())
}

// tuiSink forwards device events into the Bubble Tea program.
type tuiSink struct {
	p *tea.Program
}

func (s *tuiSink) StateChanged(st recordingState) { s.p.Send(StateMsg{State: st}) }
func (s *tuiSink) LevelChanged(l LevelState)      { s.p.Send(LevelMsg{Level: l}) }
func (s *tuiSink) LedChanged(m ledMode)           { s.p.Send(LedMsg{Mode: m}) }
func (s *tuiSink) LinkChanged(up bool)            { s.p.Send(LinkMsg{Connected: up}) }
func (s *tuiSink) BatteryChanged(pct int)         { s.p.Send(BatteryMsg{Percent: pct}) }
func (s *tuiSink) PhotoProgress(sent, total int)  { s.p.Send(PhotoMsg{Sent: sent, Total: total}) }
func (s *tuiSink) Message(msg string)             { s.p.Send(LogMsg{Text: msg}) }

func tuiTick() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m tuiModel) Init() tea.Cmd {
	return tuiTick()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}

	case tickMsg:
		m.frame++
		return m, tuiTick()

	case StateMsg:
		m.state = msg.State
		if m.state == stateRecordingActive {
			m.peak = 0
		}
		m.logLines = appendLog(m.logLines, "state: "+m.state.String())

	case LevelMsg:
		// Smooth for display only; the machine sees raw levels.
		m.level = m.level*0.6 + float64(msg.Level.Level)*0.4
		m.peak = msg.Level.Peak

	case LedMsg:
		m.led = msg.Mode

	case LinkMsg:
		m.connected = msg.Connected
		if msg.Connected {
			m.logLines = appendLog(m.logLines, "link up")
		} else {
			m.logLines = appendLog(m.logLines, "link down")
		}

	case BatteryMsg:
		m.battery = msg.Percent

	case PhotoMsg:
		m.photoSent = msg.Sent
		m.photoTotal = msg.Total
		if msg.Sent == msg.Total && msg.Total > 0 {
			m.logLines = appendLog(m.logLines, fmt.Sprintf("photo sent (%d chunks)", msg.Sent))
		}

	case LogMsg:
		m.logLines = appendLog(m.logLines, msg.Text)
	}
	return m, nil
}

func appendLog(lines []string, text string) []string {
	lines = append(lines, time.Now().Format("15:04:05")+"  "+text)
	if len(lines) > tuiLogLines {
		lines = lines[len(lines)-tuiLogLines:]
	}
	return lines
}

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(styleTitle.Render("glass") + "\n\n")

	// Status line
	switch m.state {
	case stateRecordingActive:
		b.WriteString(styleRec.Render("● REC") + "\n")
	case stateRecordingSilence:
		b.WriteString(styleWarn.Render("● REC (silence)") + "\n")
	case stateDetected:
		b.WriteString(styleWarn.Render("◉ TOUCH") + "\n")
	case stateProcessing:
		b.WriteString(styleOK.Render("◌ PROCESSING") + "\n")
	default:
		b.WriteString(styleIdle.Render("○ STANDBY") + "\n")
	}

	// Level bar
	b.WriteString(renderLevelBar(m.level, m.peak) + "\n\n")

	// LED indicator, blink phases driven by the UI frame counter
	b.WriteString("led: " + renderLed(m.led, m.frame) + "\n")

	// Link and battery
	if m.connected {
		b.WriteString("link: " + styleOK.Render("connected") + "\n")
	} else {
		b.WriteString("link: " + styleIdle.Render("offline") + "\n")
	}
	if m.battery >= 0 {
		style := styleOK
		if m.battery <= 15 {
			style = styleWarn
		}
		b.WriteString(fmt.Sprintf("battery: %s\n", style.Render(fmt.Sprintf("%d%%", m.battery))))
	}

	// Photo upload progress
	if m.photoTotal > 0 && m.photoSent < m.photoTotal {
		b.WriteString(fmt.Sprintf("photo: %d/%d chunks\n", m.photoSent, m.photoTotal))
	}

	// Recent events
	if len(m.logLines) > 0 {
		b.WriteString("\n")
		for _, line := range m.logLines {
			b.WriteString(styleDim.Render(line) + "\n")
		}
	}

	b.WriteString("\n" + styleDim.Render("hold Ctrl+Shift+Space to touch · q to quit") + "\n")

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func renderLevelBar(level float64, peak int) string {
	const barWidth = 40
	filled := int(level / 100.0 * barWidth)
	if filled > barWidth {
		filled = barWidth
	}
	peakPos := peak * barWidth / 100
	if peakPos >= barWidth {
		peakPos = barWidth - 1
	}

	var b strings.Builder
	for i := 0; i < barWidth; i++ {
		switch {
		case i == peakPos && peak > 0:
			b.WriteString(styleWarn.Render("|"))
		case i < filled:
			b.WriteString(styleBarOn.Render("█"))
		default:
			b.WriteString(styleBarOff.Render("░"))
		}
	}
	return b.String()
}

func renderLed(mode ledMode, frame int) string {
	on := styleRec.Render("●")
	off := styleBarOff.Render("●")
	switch mode {
	case ledSolid:
		return on
	case ledBlinkSlow:
		if frame/4%2 == 0 {
			return on
		}
		return off
	case ledBlinkFast:
		if frame%2 == 0 {
			return on
		}
		return off
	default:
		return off
	}
}
