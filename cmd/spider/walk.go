package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
)

type WalkCommand struct {
	TargetOptions
	Cycles int  `short:"n" long:"cycles" description:"Number of gait cycles (default from config)"`
	TUI    bool `long:"tui" description:"Show a live chart of the joint angles"`
}

func (c *WalkCommand) Execute(args []string) error {
	if c.Cycles < 0 {
		return errors.New("cycles must be >= 0")
	}
	ctrl, err := newController(c.TargetOptions, c.Cycles)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	if c.TUI {
		return runWalkTUI(ctrl, c.Target)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(titleStyle.Render("Spider walk") + statusStyle.Render(fmt.Sprintf(" - %s, %d cycles", c.Target, ctrl.Cycles())))
	fmt.Println(statusStyle.Render("Press Ctrl-C to stop after the current segment"))

	err = ctrl.Run(ctx, c.Cycles)
	if errors.Is(err, context.Canceled) {
		fmt.Println("Walk stopped.")
		return nil
	}
	return err
}

func runWalkTUI(ctrl walkController, target string) error {
	runID, err := ctrl.Launch(0)
	if err != nil {
		return err
	}

	p := tea.NewProgram(initialWalkModel(ctrl, target, runID), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		ctrl.Stop()
		ctrl.Wait()
		return fmt.Errorf("error running program: %w", err)
	}

	if ctrl.Stop() {
		fmt.Println("Stopping, returning to neutral...")
	}
	ctrl.Wait()
	if msg := ctrl.Status().LastError; msg != "" {
		return errors.New(msg)
	}
	return nil
}
