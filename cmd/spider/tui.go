package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"

	"github.com/gwillem/spider/pkg/gait"
	"github.com/gwillem/spider/pkg/robot"
	"github.com/gwillem/spider/pkg/walk"
)

const (
	headerHeight = 2 // title + blank line
	legendHeight = 3 // two legend rows + blank
	footerHeight = 7 // log box height
	maxLogs      = 5 // number of log messages to show
	borderSize   = 2 // chart border
)

// Leg colors; femur and tibia use lighter shades of the hip color.
var legColors = map[robot.Leg][3]string{
	robot.BackLeft:   {"196", "203", "210"}, // reds
	robot.BackRight:  {"208", "214", "220"}, // oranges
	robot.FrontLeft:  {"46", "84", "122"},   // greens
	robot.FrontRight: {"33", "75", "117"},   // blues
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	stateStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
)

// walkController is what the walk TUI needs from the controller.
type walkController interface {
	States() <-chan walk.State
	Logs() <-chan string
	Launch(cycles int) (string, error)
	Stop() bool
	Wait()
	Status() walk.Status
}

func jointColor(name robot.JointName) string {
	for _, leg := range robot.AllLegs() {
		hip, femur, tibia := robot.LegJoints(leg)
		switch name {
		case hip:
			return legColors[leg][0]
		case femur:
			return legColors[leg][1]
		case tibia:
			return legColors[leg][2]
		}
	}
	return "250"
}

type walkModel struct {
	ctrl     walkController
	target   string
	runID    string
	chart    *streamlinechart.Model
	width    int
	height   int
	logs     []string
	status   gait.Status
	done     bool
	quitting bool
}

func (m *walkModel) addLog(msg string) {
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// Messages from the controller
type stateMsg walk.State
type logMsg string
type doneMsg struct{}

func waitForState(ctrl walkController) tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-ctrl.States())
	}
}

func waitForLog(ctrl walkController) tea.Cmd {
	return func() tea.Msg {
		return logMsg(<-ctrl.Logs())
	}
}

func waitForDone(ctrl walkController) tea.Cmd {
	return func() tea.Msg {
		ctrl.Wait()
		return doneMsg{}
	}
}

// chartSize calculates the size of the chart based on terminal dimensions
func (m *walkModel) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 20 // default size before we know terminal size
	}
	width = max(40, m.width-borderSize-2)
	height = max(10, m.height-headerHeight-legendHeight-footerHeight-borderSize)
	return width, height
}

func (m *walkModel) resizeChart() {
	w, h := m.chartSize()
	m.chart.Resize(w, h)
}

func initialWalkModel(ctrl walkController, target, runID string) walkModel {
	chart := streamlinechart.New(80, 20,
		streamlinechart.WithYRange(-90, 90),
	)
	for _, name := range robot.AllJoints() {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(jointColor(name)))
		chart.SetDataSetStyles(string(name), runes.ThinLineStyle, style)
	}

	return walkModel{
		ctrl:   ctrl,
		target: target,
		runID:  runID,
		chart:  &chart,
	}
}

func (m walkModel) Init() tea.Cmd {
	return tea.Batch(
		waitForState(m.ctrl),
		waitForLog(m.ctrl),
		waitForDone(m.ctrl),
	)
}

func (m walkModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeChart()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "s":
			if m.ctrl.Stop() {
				m.addLog(fmt.Sprintf("[%s] stop requested", time.Now().Format("15:04:05")))
			}
		}

	case stateMsg:
		state := walk.State(msg)
		m.status = state.Gait
		if state.Error != nil {
			m.addLog(state.Error.Error())
		}
		if state.Angles != nil {
			for name, deg := range state.Angles {
				m.chart.PushDataSet(string(name), deg)
			}
			m.chart.DrawAll()
		}
		return m, waitForState(m.ctrl)

	case logMsg:
		m.addLog(string(msg))
		return m, waitForLog(m.ctrl)

	case doneMsg:
		m.done = true
		m.status = m.ctrl.Status().Gait
		return m, nil
	}

	return m, nil
}

func (m walkModel) statusLine() string {
	if m.done {
		return stateStyle.Render("finished")
	}
	s := m.status
	line := stateStyle.Render(string(s.State))
	if s.State == gait.Cycling {
		line += fmt.Sprintf(" cycle %d/%d phase %d/%d %s", s.Cycle, s.Cycles, s.Phase, s.Phases, s.Segment)
	}
	return line
}

func (m walkModel) View() string {
	if m.quitting {
		return "Walk TUI closed.\n"
	}

	var sb strings.Builder

	// Header
	sb.WriteString(titleStyle.Render("Spider walk"))
	sb.WriteString(fmt.Sprintf(" - %s ", m.target))
	sb.WriteString(m.statusLine())
	if m.width > 0 {
		sb.WriteString(statusStyle.Render(fmt.Sprintf("  [run %.8s]", m.runID)))
	}
	sb.WriteString("\n\n")

	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")

	sb.WriteString(renderLegend())
	sb.WriteString("\n")

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(max(20, m.width-4))

	var logLines string
	if len(m.logs) == 0 {
		logLines = statusStyle.Render("Press 's' to stop, 'q' to quit")
	} else {
		logLines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(logLines))
	sb.WriteString("\n")

	return sb.String()
}

func renderLegend() string {
	var rows []string
	for _, legs := range [][]robot.Leg{{robot.FrontLeft, robot.FrontRight}, {robot.BackLeft, robot.BackRight}} {
		var items []string
		for _, leg := range legs {
			hip, femur, tibia := robot.LegJoints(leg)
			for _, name := range []robot.JointName{hip, femur, tibia} {
				colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(jointColor(name))).Bold(true)
				items = append(items, colorStyle.Render("━━")+" "+string(name))
			}
		}
		rows = append(rows, strings.Join(items, "  "))
	}
	return strings.Join(rows, "\n")
}
