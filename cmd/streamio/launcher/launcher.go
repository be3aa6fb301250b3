package launcher

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"gopkg.in/urfave/cli.v1"

	"github.com/rony4d/go-streamio/flags"
)

var app = flags.NewApp()

func init() {
	app.Action = runAction
}

// Launch parses args, builds the pipeline and runs it to completion.
func Launch(args []string) error {
	return app.Run(args)
}

func runAction(ctx *cli.Context) error {
	cfg, err := MakeAllConfigs(ctx)
	if err != nil {
		return err
	}
	if err := setupLogging(logrus.StandardLogger(), cfg.Logging); err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = NewPipeline(cfg, os.Stdin, os.Stdout).Run(runCtx, ctx.Args())
	if err != nil {
		logrus.WithError(err).Error("Pipeline failed")
	}
	return err
}
