package main

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/gwillem/spider/pkg/gait"
	"github.com/gwillem/spider/pkg/pose"
	"github.com/gwillem/spider/pkg/robot"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	subHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type ConfigCommand struct {
	Init  ConfigInitCommand  `command:"init" description:"Write the default configuration"`
	Check ConfigCheckCommand `command:"check" description:"Validate the configuration and print the gait"`
}

type ConfigInitCommand struct {
	Force bool `short:"f" long:"force" description:"Overwrite an existing file"`
}

func (c *ConfigInitCommand) Execute(args []string) error {
	if robot.ConfigExists(opts.Config) && !c.Force {
		return fmt.Errorf("%s already exists, use --force to overwrite", opts.Config)
	}
	if err := robot.DefaultConfig().SaveTo(opts.Config); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("Wrote " + opts.Config))
	return nil
}

type ConfigCheckCommand struct {
	Sim bool `long:"sim" description:"Resolve poses with the simulator mirror table"`
}

func (c *ConfigCheckCommand) Execute(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	layout, err := cfg.Layout()
	if err != nil {
		return err
	}
	lib, err := pose.NewLibrary(layout, cfg.PosesFor(c.Sim))
	if err != nil {
		return err
	}
	cycle, err := gait.BuildCycle(cfg.Gait, lib)
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render("Configuration OK"))
	fmt.Printf("  joints: %d, poses: %d, deltas: %d\n", layout.Len(), len(lib.PoseNames()), len(lib.DeltaNames()))
	fmt.Println()

	fmt.Println(subHeaderStyle.Render("Gait cycle"))
	rows := make([][]string, 0, len(cycle))
	for i, seg := range cycle {
		rows = append(rows, []string{
			fmt.Sprint(i + 1),
			seg.Label,
			seg.Duration.String(),
			fmt.Sprint(seg.Steps),
			seg.Pause.String(),
		})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("#", "Segment", "Duration", "Steps", "Pause").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	fmt.Println(t.Render())

	g := cfg.Gait
	perCycle := cycle.Duration() + g.Reset.Duration.Duration + g.ResetPause.Duration + g.CyclePause.Duration
	total := g.Init.Duration.Duration + g.Stand.Duration.Duration + 2*g.SettlePause.Duration +
		perCycle*time.Duration(g.Cycles) + g.Return.Duration.Duration
	fmt.Printf("  %s per cycle, %d cycles, about %s in total\n", perCycle, g.Cycles, total)
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
