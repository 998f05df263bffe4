package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/gwillem/spider/pkg/robot"
)

type PoseCommand struct {
	TargetOptions
	List bool `short:"l" long:"list" description:"List the known poses and deltas"`
	Args struct {
		Name string `positional-arg-name:"NAME" description:"Pose to move to"`
	} `positional-args:"yes"`
}

func (c *PoseCommand) Execute(args []string) error {
	if c.List || c.Args.Name == "" {
		return c.list()
	}

	ctrl, err := newController(c.TargetOptions, 0)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := ctrl.PlayPose(ctx, c.Args.Name); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("Moved to " + c.Args.Name))
	return nil
}

func (c *PoseCommand) list() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	layout, err := cfg.Layout()
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render("Poses"))
	for _, name := range sortedKeys(cfg.Poses.Poses) {
		fmt.Printf("  %-10s %s\n", name, formatAngles(layout, cfg.Poses.Poses[name]))
	}
	fmt.Println(headerStyle.Render("Deltas"))
	for _, name := range sortedKeys(cfg.Poses.Deltas) {
		fmt.Printf("  %-10s %s\n", name, formatAngles(layout, cfg.Poses.Deltas[name]))
	}
	return nil
}

func formatAngles(layout *robot.Layout, angles map[robot.JointName]float64) string {
	var parts []string
	for _, name := range layout.Names() {
		if v, ok := angles[name]; ok && v != 0 {
			parts = append(parts, fmt.Sprintf("%s=%g", name, v))
		}
	}
	if len(parts) == 0 {
		return dimStyle.Render("all zero")
	}
	return strings.Join(parts, " ")
}
