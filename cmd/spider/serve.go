package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/gwillem/spider/pkg/api"
)

type ServeCommand struct {
	TargetOptions
	Addr string `short:"a" long:"addr" default:":8080" description:"Listen address"`
}

func (c *ServeCommand) Execute(args []string) error {
	ctrl, err := newController(c.TargetOptions, 0)
	if err != nil {
		return err
	}
	defer ctrl.Close()

	if !opts.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(titleStyle.Render("Spider API") + statusStyle.Render(fmt.Sprintf(" - %s on http://%s/api/v1", c.Target, c.Addr)))
	return api.NewServer(ctrl, version).ListenAndServe(ctx, c.Addr)
}
