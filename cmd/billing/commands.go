package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"

	"github.com/jhoicas/asha-billing/internal/domain/gst"
	"github.com/jhoicas/asha-billing/internal/infrastructure/postgres"
	"github.com/jhoicas/asha-billing/pkg/jwt"
)

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "render the invoice of one bill",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bill", Required: true, Usage: "bill number, matched exactly"},
			&cli.BoolFlag{Name: "igst", Usage: "inter-state invoice (IGST instead of CGST+SGST)"},
			&cli.StringFlag{Name: "out", Usage: "output directory (default OUTPUT_DIR)"},
			rowsFlag(),
		},
		Action: func(c *cli.Context) error {
			cfg, log, err := setup(c)
			if err != nil {
				return err
			}
			if out := c.String("out"); out != "" {
				cfg.Output.Dir = out
			}
			container, err := openRegister(c, cfg, log)
			if err != nil {
				return err
			}
			defer container.Close()

			bill := c.String("bill")
			doc, err := container.Invoice.GenerateFromRepository(c.Context, bill, gst.ModeFromIGST(c.Bool("igst")))
			if err != nil {
				return err
			}
			if doc == nil {
				return fmt.Errorf("no rows for bill %q", bill)
			}
			fmt.Fprintf(c.App.Writer, "%s  total %s  (%s)\n", doc.SavedAt, gst.FormatMoney(doc.GrandTotal), doc.Words)
			return nil
		},
	}
}

func generateAllCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate-all",
		Usage: "render an invoice for every bill in the register",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "igst", Usage: "inter-state invoices"},
			&cli.StringFlag{Name: "out", Usage: "output directory (default OUTPUT_DIR)"},
			rowsFlag(),
		},
		Action: func(c *cli.Context) error {
			cfg, log, err := setup(c)
			if err != nil {
				return err
			}
			if out := c.String("out"); out != "" {
				cfg.Output.Dir = out
			}
			container, err := openRegister(c, cfg, log)
			if err != nil {
				return err
			}
			defer container.Close()

			totals, err := container.Register.Totals(c.Context)
			if err != nil {
				return err
			}
			if len(totals) == 0 {
				fmt.Fprintln(c.App.Writer, "the register has no bills")
				return nil
			}

			bar := progressbar.NewOptions(len(totals),
				progressbar.OptionSetWriter(c.App.ErrWriter),
				progressbar.OptionSetDescription("Generating invoices"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "=",
					SaucerHead:    ">",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
			)
			mode := gst.ModeFromIGST(c.Bool("igst"))
			var failed []string
			for _, t := range totals {
				if _, err := container.Invoice.GenerateFromRepository(c.Context, t.BillNumber, mode); err != nil {
					failed = append(failed, fmt.Sprintf("%s: %v", t.BillNumber, err))
				}
				_ = bar.Add(1)
			}

			w := c.App.Writer
			fmt.Fprintf(w, "\n%d invoices written to %s\n", len(totals)-len(failed), cfg.Output.Dir)
			fmt.Fprintf(w, "%-16s %5s %16s\n", "BILL", "LINES", "TAXABLE (Rs.)")
			for _, t := range totals {
				fmt.Fprintf(w, "%-16s %5d %16s\n", t.BillNumber, t.Lines, gst.FormatMoney(t.Taxable))
			}
			for _, f := range failed {
				fmt.Fprintln(c.App.ErrWriter, "failed:", f)
			}
			if len(failed) > 0 {
				return fmt.Errorf("%d of %d invoices failed", len(failed), len(totals))
			}
			return nil
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write the register as CSV or XLSX",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Value: "csv", Usage: "csv or xlsx"},
			&cli.StringFlag{Name: "out", Value: ".", Usage: "output directory"},
			rowsFlag(),
		},
		Action: func(c *cli.Context) error {
			cfg, log, err := setup(c)
			if err != nil {
				return err
			}
			container, err := openRegister(c, cfg, log)
			if err != nil {
				return err
			}
			defer container.Close()

			file, err := container.Export.Export(c.Context, c.String("format"))
			if err != nil {
				return err
			}
			path := filepath.Join(c.String("out"), file.Filename)
			if err := os.WriteFile(path, file.Bytes, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Fprintf(c.App.Writer, "%s (%d rows)\n", path, file.Rows)
			return nil
		},
	}
}

func migrateCommand() *cli.Command {
	withMigrator := func(fn func(c *cli.Context, m *postgres.Migrator) error) cli.ActionFunc {
		return func(c *cli.Context) error {
			cfg, _, err := setup(c)
			if err != nil {
				return err
			}
			m, err := postgres.NewMigrator(cfg.DB.Migrations, cfg.DB)
			if err != nil {
				return err
			}
			defer m.Close()
			return fn(c, m)
		}
	}
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply or revert the database schema",
		Subcommands: []*cli.Command{
			{
				Name: "up",
				Action: withMigrator(func(c *cli.Context, m *postgres.Migrator) error {
					if err := m.Up(); err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, "migrations applied")
					return nil
				}),
			},
			{
				Name: "down",
				Action: withMigrator(func(c *cli.Context, m *postgres.Migrator) error {
					if err := m.Down(); err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, "migrations reverted")
					return nil
				}),
			},
			{
				Name:      "steps",
				ArgsUsage: "N",
				Action: func(c *cli.Context) error {
					var n int
					if _, err := fmt.Sscan(c.Args().First(), &n); err != nil {
						return fmt.Errorf("steps requires a number: %w", err)
					}
					return withMigrator(func(_ *cli.Context, m *postgres.Migrator) error { return m.Steps(n) })(c)
				},
			},
			{
				Name: "version",
				Action: withMigrator(func(c *cli.Context, m *postgres.Migrator) error {
					v, dirty, err := m.Version()
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "version: %d, dirty: %v\n", v, dirty)
					return nil
				}),
			},
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "mint an API token",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "user", Required: true},
			&cli.StringFlag{Name: "role", Value: jwt.RoleOperator, Usage: "admin or operator"},
		},
		Action: func(c *cli.Context) error {
			cfg, _, err := setup(c)
			if err != nil {
				return err
			}
			role := c.String("role")
			if role != jwt.RoleAdmin && role != jwt.RoleOperator {
				return fmt.Errorf("unknown role %q", role)
			}
			tok, err := jwt.Generate(cfg.JWT.Secret, c.String("user"), role, cfg.JWT.Issuer, cfg.JWT.Expiration)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, tok)
			return nil
		},
	}
}
