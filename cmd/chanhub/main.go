package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/Leegeev/chanhub/pkg/config"
	"github.com/Leegeev/chanhub/pkg/logger"
	"github.com/Leegeev/chanhub/pkg/scenario"
	"github.com/Leegeev/chanhub/pkg/subpub"
)

var (
	flConfig = cli.StringFlag{
		Name:   "config, c",
		Usage:  "path to a config file (default: configs/config.*)",
		EnvVar: "CHANHUB_CONFIG_PATH",
	}
	flLogLevel = cli.StringFlag{
		Name:  "log-level, l",
		Usage: "trace, debug, info, warn, error",
	}
	flLogFormat = cli.StringFlag{
		Name:  "log-format",
		Usage: "text or json",
	}
	flScenario = cli.StringFlag{
		Name:  "scenario, s",
		Usage: "YAML script of subscribe/emit/unsubscribe steps",
	}
)

var errNoScenario = errors.New("no scenario given")

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

// newApp builds the CLI. Subscribers print what they receive to out; logs
// and usage errors go to errOut.
func newApp(out, errOut io.Writer) *cli.App {
	app := cli.NewApp()
	app.ErrWriter = errOut
	app.Name = "chanhub"
	app.Usage = "run a scripted session against an in-process channel registry"
	app.ArgsUsage = "[scenario.yaml]"
	app.Flags = []cli.Flag{flConfig, flLogLevel, flLogFormat, flScenario}
	app.Action = func(ctx *cli.Context) error {
		return run(ctx, out)
	}
	return app
}

// loadConfig reads the config file and applies command line overrides
// before validating, so a flag can fix a bad file value.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return nil, err
	}
	applyFlags(cfg, ctx)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx *cli.Context, out io.Writer) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	l, err := logger.New(cfg.Log, ctx.App.ErrWriter)
	if err != nil {
		return err
	}

	path := cfg.Scenario.Path
	if path == "" {
		return errNoScenario
	}
	script, err := scenario.Load(path)
	if err != nil {
		return err
	}

	l.WithFields(log.Fields{
		"scenario": path,
		"steps":    len(script.Steps),
	}).Info("running scenario")

	reg := subpub.New[any](
		subpub.WithLogger(l.WithField("_module", "subpub")),
	)
	if err := scenario.Run(reg, script, out); err != nil {
		return fmt.Errorf("run %s: %w", path, err)
	}

	l.WithField("channels", reg.Channels()).Debug("scenario finished")
	return nil
}

// applyFlags lets command line values override the loaded configuration.
func applyFlags(cfg *config.Config, ctx *cli.Context) {
	if v := ctx.String("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v := ctx.String("log-format"); v != "" {
		cfg.Log.Format = v
	}
	if v := ctx.String("scenario"); v != "" {
		cfg.Scenario.Path = v
	}
	if ctx.NArg() > 0 {
		cfg.Scenario.Path = ctx.Args().First()
	}
}
