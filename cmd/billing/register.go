package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/jhoicas/asha-billing/internal/app"
	"github.com/jhoicas/asha-billing/internal/infrastructure/sheets"
	"github.com/jhoicas/asha-billing/pkg/config"
	"github.com/jhoicas/asha-billing/pkg/logger"
)

// errNoRegister se devuelve cuando nada puede contener filas: el registro
// en memoria arranca vacío en cada proceso nuevo.
var errNoRegister = errors.New("the in-memory register is empty in a new process: pass --rows <file.csv|file.xlsx> or set DB_DRIVER=postgres")

func rowsFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "rows",
		Usage: "CSV or XLSX register (header row first) to use instead of the database",
	}
}

// openRegister arma el contenedor. Con --rows el registro es el archivo,
// cargado en memoria para esta ejecución; la base de datos no se toca.
func openRegister(c *cli.Context, cfg *config.Config, log *logger.Logger) (*app.Container, error) {
	path := c.String("rows")
	if path == "" && !cfg.DB.UsePostgres() {
		return nil, errNoRegister
	}
	if path != "" {
		cfg.DB.Driver = "memory"
	}

	container, err := app.Build(c.Context, cfg, log)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return container, nil
	}

	table, err := readTable(path)
	if err != nil {
		container.Close()
		return nil, err
	}
	if _, err := container.Register.Import(c.Context, table); err != nil {
		container.Close()
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return container, nil
}

func readTable(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return sheets.ParseXLSX(data)
	case ".csv", ".txt":
		return sheets.ParseCSV(data)
	default:
		return nil, fmt.Errorf("rows file must be .csv or .xlsx, got %q", filepath.Base(path))
	}
}
