// Command billing genera facturas y administra el registro desde la terminal.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/jhoicas/asha-billing/pkg/config"
	"github.com/jhoicas/asha-billing/pkg/logger"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "billing",
		Usage:     "Asha Fan Industries GST invoices",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "warn", Usage: "trace, debug, info, warn or error"},
		},
		Commands: []*cli.Command{
			generateCommand(),
			generateAllCommand(),
			exportCommand(),
			migrateCommand(),
			tokenCommand(),
		},
	}
}

// setup carga la configuración y un logger de consola para el comando.
func setup(c *cli.Context) (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(logger.Config{Env: "development", Level: c.String("log-level")})
	return cfg, log, nil
}
