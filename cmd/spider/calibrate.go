package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/gwillem/spider/pkg/actuator/feetech"
	"github.com/gwillem/spider/pkg/actuator/pwm"
	"github.com/gwillem/spider/pkg/robot"
)

type CalibrateCommand struct {
	Target string `short:"t" long:"target" default:"dry" choice:"pwm" choice:"feetech" choice:"dry" description:"Servos to calibrate"`
}

func (c *CalibrateCommand) Execute(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render("Spider Calibration"))
	fmt.Println(dimStyle.Render("━━━━━━━━━━━━━━━━━━"))
	fmt.Println()

	var saved bool
	if c.Target == targetFeetech {
		saved, err = calibrateRanges(cfg)
	} else {
		saved, err = calibrateOffsets(cfg, c.Target)
	}
	if err != nil || !saved {
		return err
	}

	if err := cfg.SaveTo(opts.Config); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("Calibration saved to " + opts.Config))
	return nil
}

// calibrateOffsets holds every PWM servo at logical zero while the offsets
// are nudged until the legs sit in the neutral pose.
func calibrateOffsets(cfg *robot.Config, target string) (bool, error) {
	layout, err := cfg.Layout()
	if err != nil {
		return false, err
	}
	if _, err := cfg.Calibration.Ordered(layout); err != nil {
		return false, err
	}

	var driver pwm.Driver
	if target == targetPWM {
		if !confirm("Drive all servos to their neutral position?") {
			return false, nil
		}
		bd, err := pwm.OpenBridge(cfg.PWM.Port, cfg.PWM.BaudRate)
		if err != nil {
			return false, err
		}
		defer bd.Close()
		driver = bd
	} else {
		driver = pwm.NewLogDriver()
	}

	fmt.Println(subHeaderStyle.Render("Adjust offsets"))
	fmt.Println("Nudge each joint until its leg segment sits in the neutral pose.")
	fmt.Println()

	m := newOffsetModel(layout.Names(), cfg.Calibration, driver)
	for _, name := range m.joints {
		if err := driver.Configure(m.cal[name].Channel, cfg.PWM.Frequency); err != nil {
			return false, err
		}
	}
	if err := m.holdNeutral(); err != nil {
		return false, err
	}

	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return false, fmt.Errorf("error running calibration: %w", err)
	}
	om := final.(offsetModel)
	if om.err != nil {
		return false, om.err
	}
	if !om.saved {
		return false, nil
	}
	cfg.Calibration = om.cal
	return true, nil
}

// Offset TUI model
type offsetModel struct {
	joints   []robot.JointName
	cal      robot.Calibration
	driver   pwm.Driver
	selected int
	saved    bool
	quitting bool
	err      error
}

func newOffsetModel(joints []robot.JointName, cal robot.Calibration, driver pwm.Driver) offsetModel {
	own := make(robot.Calibration, len(cal))
	for k, v := range cal {
		own[k] = v
	}
	return offsetModel{joints: joints, cal: own, driver: driver}
}

func (m offsetModel) holdNeutral() error {
	for _, name := range m.joints {
		jc := m.cal[name]
		if err := m.driver.SetDuty(jc.Channel, jc.Duty(0)); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func (m offsetModel) nudge(delta float64) offsetModel {
	name := m.joints[m.selected]
	jc := m.cal[name]
	jc.Offset = max(0, min(180, jc.Offset+delta))
	m.cal[name] = jc
	m.err = m.driver.SetDuty(jc.Channel, jc.Duty(0))
	return m
}

func (m offsetModel) Init() tea.Cmd {
	return nil
}

func (m offsetModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "enter":
		m.saved = true
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		m.selected = (m.selected + len(m.joints) - 1) % len(m.joints)
	case "down", "j":
		m.selected = (m.selected + 1) % len(m.joints)
	case "left", "h":
		m = m.nudge(-1)
	case "right", "l":
		m = m.nudge(1)
	case "shift+left", "H":
		m = m.nudge(-5)
	case "shift+right", "L":
		m = m.nudge(5)
	case "r":
		name := m.joints[m.selected]
		jc := m.cal[name]
		if jc.Direction < 0 {
			jc.Direction = 1
		} else {
			jc.Direction = -1
		}
		m.err = m.driver.SetDuty(jc.Channel, jc.Duty(0))
		m.cal[name] = jc
	}
	if m.err != nil {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m offsetModel) View() string {
	if m.quitting {
		return ""
	}

	selectedStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")).Padding(0, 1)
	jointStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	rows := make([][]string, 0, len(m.joints))
	for _, name := range m.joints {
		jc := m.cal[name]
		rows = append(rows, []string{
			string(name),
			fmt.Sprint(jc.Channel),
			fmt.Sprintf("%.0f", jc.Offset),
			fmt.Sprintf("%+d", jc.Direction),
			fmt.Sprint(jc.Duty(0)),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Joint", "Channel", "Offset", "Dir", "Duty").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle.Padding(0, 1)
			case row == m.selected:
				return selectedStyle
			case col == 0:
				return jointStyle
			default:
				return cellStyle
			}
		})

	var sb strings.Builder
	sb.WriteString(t.Render())
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render("↑/↓ select  ←/→ ±1°  shift ±5°  r reverse  enter save  q quit"))
	return sb.String()
}

// calibrateRanges records the range of motion of every bus servo while the
// legs are moved by hand, then takes the final position as home.
func calibrateRanges(cfg *robot.Config) (bool, error) {
	layout, err := cfg.Layout()
	if err != nil {
		return false, err
	}
	port, err := feetech.Open(cfg.Feetech, layout, cfg.Calibration)
	if err != nil {
		return false, err
	}
	defer port.Close()

	// Disable all servos so the legs can be moved freely
	ctx := context.Background()
	if err := port.Disable(ctx); err != nil {
		return false, fmt.Errorf("disable torque: %w", err)
	}

	fmt.Println(subHeaderStyle.Render("Record range of motion"))
	fmt.Println("Move each joint to its minimum AND maximum positions.")
	fmt.Println("Put the robot in the neutral pose before pressing Enter.")
	fmt.Println()

	raw, err := port.RawPositions(ctx)
	if err != nil {
		return false, err
	}
	m := newRangeModel(layout.Names(), port, raw)

	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return false, fmt.Errorf("error running calibration: %w", err)
	}
	rm := final.(rangeModel)
	if !rm.saved {
		return false, nil
	}

	for i, name := range rm.joints {
		jc := cfg.Calibration[name]
		jc.RangeMin = rm.minPositions[i]
		jc.RangeMax = rm.maxPositions[i]
		jc.HomingTicks = rm.curPositions[i]
		cfg.Calibration[name] = jc
	}
	return true, nil
}

// Range TUI model
type rangeModel struct {
	joints       []robot.JointName
	ids          []int
	port         *feetech.Port
	curPositions []int
	minPositions []int
	maxPositions []int
	saved        bool
	quitting     bool
}

type tickMsg time.Time

func newRangeModel(joints []robot.JointName, port *feetech.Port, raw map[int]int) rangeModel {
	m := rangeModel{
		joints:       joints,
		port:         port,
		ids:          make([]int, len(joints)),
		curPositions: make([]int, len(joints)),
		minPositions: make([]int, len(joints)),
		maxPositions: make([]int, len(joints)),
	}
	for i, jc := range port.Joints() {
		m.ids[i] = jc.Channel
		pos := raw[jc.Channel]
		m.curPositions[i] = pos
		m.minPositions[i] = pos
		m.maxPositions[i] = pos
	}
	return m
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m rangeModel) Init() tea.Cmd {
	return tick()
}

func (m rangeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			m.saved = true
			m.quitting = true
			return m, tea.Quit
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tickMsg:
		raw, err := m.port.RawPositions(context.Background())
		if err == nil {
			for i, id := range m.ids {
				pos, ok := raw[id]
				if !ok {
					continue
				}
				m.curPositions[i] = pos
				m.minPositions[i] = min(m.minPositions[i], pos)
				m.maxPositions[i] = max(m.maxPositions[i], pos)
			}
		}
		return m, tick()
	}

	return m, nil
}

func (m rangeModel) View() string {
	if m.quitting {
		return ""
	}

	tableJointStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Padding(0, 1)
	tableCellStyle := lipgloss.NewStyle().Padding(0, 1)
	tableCurrentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Padding(0, 1)
	tableRangeGoodStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Padding(0, 1)
	tableRangeLowStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(0, 1)

	rows := make([][]string, 0, len(m.joints))
	ranges := make([]int, 0, len(m.joints))
	for i, name := range m.joints {
		rangeSize := m.maxPositions[i] - m.minPositions[i]
		ranges = append(ranges, rangeSize)
		rows = append(rows, []string{
			string(name),
			fmt.Sprint(m.ids[i]),
			fmt.Sprint(m.curPositions[i]),
			fmt.Sprint(m.minPositions[i]),
			fmt.Sprint(m.maxPositions[i]),
			fmt.Sprint(rangeSize),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Joint", "ID", "Current", "Min", "Max", "Range").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			switch col {
			case 0:
				return tableJointStyle
			case 2:
				return tableCurrentStyle
			case 5:
				// a quarter turn is enough for a leg joint
				if row >= 0 && row < len(ranges) && ranges[row] > robot.TicksPerRevolution/4 {
					return tableRangeGoodStyle
				}
				return tableRangeLowStyle
			default:
				return tableCellStyle
			}
		})

	var sb strings.Builder
	sb.WriteString(t.Render())
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render("Press Enter in the neutral pose to save, q to quit"))
	return sb.String()
}
