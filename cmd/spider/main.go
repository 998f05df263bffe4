package main

import (
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"
)

var version = "dev"

type Options struct {
	Config  string `short:"c" long:"config" default:"spider.json" description:"Configuration file"`
	Verbose bool   `short:"v" long:"verbose" description:"Log every interpolation step"`

	Walk      WalkCommand      `command:"walk" description:"Stand up, walk the gait cycles and sit down"`
	Pose      PoseCommand      `command:"pose" description:"Move to a named pose"`
	Serve     ServeCommand     `command:"serve" description:"Serve the HTTP control API"`
	Ports     PortsCommand     `command:"ports" description:"List serial ports and scan them for bus servos"`
	Calibrate CalibrateCommand `command:"calibrate" description:"Tune servo offsets or record bus servo ranges"`
	ConfigCmd ConfigCommand    `command:"config" description:"Create or check the configuration file"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "Spider - gait and pose sequencer for a 12-servo quadruped"
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05.000"})
		if opts.Verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
		if cmd == nil {
			return nil
		}
		return cmd.Execute(args)
	}

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}
