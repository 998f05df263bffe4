package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/gwillem/spider/pkg/actuator/pwm"
	"github.com/gwillem/spider/pkg/robot"
)

func press(m tea.Model, keys ...tea.KeyMsg) tea.Model {
	for _, k := range keys {
		m, _ = m.Update(k)
	}
	return m
}

func TestOffsetModel(t *testing.T) {
	driver := pwm.NewLogDriver()
	cal := robot.DefaultCalibration()
	m := newOffsetModel(robot.DefaultLayout().Names(), cal, driver)

	down := tea.KeyMsg{Type: tea.KeyDown}
	right := tea.KeyMsg{Type: tea.KeyRight}
	left := tea.KeyMsg{Type: tea.KeyLeft}
	reverse := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")}
	enter := tea.KeyMsg{Type: tea.KeyEnter}

	final := press(m, down, right, right, right, left, reverse, enter).(offsetModel)

	assert.True(t, final.saved)
	assert.NoError(t, final.err)
	assert.Equal(t, 92.0, final.cal[robot.BLFemur].Offset)
	assert.Equal(t, -1, final.cal[robot.BLFemur].Direction)
	assert.Equal(t, 90.0, final.cal[robot.BLHip].Offset)

	// The original calibration is untouched until saved.
	assert.Equal(t, 90.0, cal[robot.BLFemur].Offset)

	duty, ok := driver.Duty(cal[robot.BLFemur].Channel)
	assert.True(t, ok)
	assert.Equal(t, robot.DegreesToDuty(92), duty)
}

func TestOffsetModel_Quit(t *testing.T) {
	m := newOffsetModel(robot.DefaultLayout().Names(), robot.DefaultCalibration(), pwm.NewLogDriver())
	final := press(m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyEsc}).(offsetModel)

	assert.False(t, final.saved)
	assert.Equal(t, robot.NumJoints-1, final.selected)
	assert.Empty(t, final.View())
}

func TestJointColor(t *testing.T) {
	seen := map[string]bool{}
	for _, name := range robot.AllJoints() {
		c := jointColor(name)
		assert.NotEqual(t, "250", c, name)
		seen[c] = true
	}
	assert.Len(t, seen, robot.NumJoints)
}

func TestFormatAngles(t *testing.T) {
	layout := robot.DefaultLayout()
	got := formatAngles(layout, map[robot.JointName]float64{robot.FRHip: 5, robot.BLHip: -20})
	assert.Equal(t, "BL_HIP=-20 FR_HIP=5", got)
}
