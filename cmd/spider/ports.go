package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"go.bug.st/serial"

	"github.com/gwillem/spider/pkg/actuator/feetech"
	"github.com/gwillem/spider/pkg/robot"
)

type PortsCommand struct {
	Scan bool `short:"s" long:"scan" description:"Scan the ports for Feetech servos with IDs 1-12"`
}

func (c *PortsCommand) Execute(args []string) error {
	ports, err := serial.GetPortsList()
	if err != nil {
		return fmt.Errorf("list ports: %w", err)
	}
	if len(ports) == 0 {
		fmt.Println("No serial ports found.")
		return nil
	}

	fmt.Println(headerStyle.Render("Serial ports"))
	for _, p := range ports {
		fmt.Println("  " + p)
	}
	if !c.Scan {
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Scanning for servos...")
	found, err := feetech.Scan(context.Background(), cfg.Feetech.BaudRate, robot.NumJoints)
	if err != nil {
		return err
	}

	var complete []string
	for _, f := range found {
		ids := make([]string, len(f.Servos))
		for i, s := range f.Servos {
			ids[i] = fmt.Sprint(s.ID)
		}
		mark := dimStyle.Render("partial")
		if f.Complete(robot.NumJoints) {
			mark = successStyle.Render("complete")
			complete = append(complete, f.Port)
		}
		fmt.Printf("  %s: %d servos [%s] %s\n", f.Port, len(f.Servos), strings.Join(ids, " "), mark)
	}

	if len(complete) == 0 {
		fmt.Println("No port with all 12 servos found.")
		fmt.Println("Make sure the robot is connected and powered on.")
		return nil
	}
	return selectPort(cfg, complete)
}

func selectPort(cfg *robot.Config, ports []string) error {
	options := make([]huh.Option[string], 0, len(ports)+1)
	for _, p := range ports {
		options = append(options, huh.NewOption(p, p))
	}
	options = append(options, huh.NewOption("Don't save", ""))

	var port string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which port should the feetech target use?").
				Options(options...).
				Value(&port),
		),
	)
	if err := form.Run(); err != nil {
		fmt.Println()
		os.Exit(0)
	}
	if port == "" {
		return nil
	}

	cfg.Feetech.Port = port
	if err := cfg.SaveTo(opts.Config); err != nil {
		return err
	}
	fmt.Printf("Saved feetech port %s to %s\n", port, opts.Config)
	return nil
}
