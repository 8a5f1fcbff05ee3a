package commands

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/learnerhub/learner-sheets/store"
)

var ExportCmd = ExportTables{
	command: command{
		driver: "",
		dsn:    "",
		debug:  false,
	},
}

type ExportTables struct {
	command
}

func (cmd *ExportTables) Name() string {
	return "export"
}

func (cmd *ExportTables) Description() string {
	return "Exports the credential result tables to timestamped CSV files"
}

func (cmd *ExportTables) Usage() string {
	return "--dsn <dsn>"
}

func (cmd *ExportTables) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] export [--driver <driver>] [--dsn <dsn>]\n", APP)
	fmt.Println()
	fmt.Println("  Exports the configured tables (CSV_HANDLE, NEWENROLLS and NOT_ENROLLED by default) to")
	fmt.Println("  UTF-8 CSV files named <prefix>_<yyyy-mm-dd_HH-MM-SS>.csv")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    learner-sheets --config learner-sheets.yaml export`)
	fmt.Println()
}

func (cmd *ExportTables) FlagSet() *flag.FlagSet {
	flagset := flag.NewFlagSet("export", flag.ExitOnError)

	flagset.StringVar(&cmd.driver, "driver", cmd.driver, "Database driver (sqlserver, postgres or sqlite3)")
	flagset.StringVar(&cmd.dsn, "dsn", cmd.dsn, "Database connection string")

	return flagset
}

func (cmd *ExportTables) Execute(args ...any) error {
	options := args[0].(*Options)

	conf, err := cmd.configure(options)
	if err != nil {
		return err
	}

	if len(conf.Exports) == 0 {
		return fmt.Errorf("no tables configured for export")
	}

	db, err := store.Open(conf.Database.Driver, conf.Database.DSN)
	if err != nil {
		return fmt.Errorf("unable to connect to database (%w)", err)
	}

	defer db.Close()

	p := pipeline{
		db:        db,
		exports:   conf.Exports,
		timestamp: time.Now(),
		debug:     cmd.debug,
	}

	files, err := p.export(context.Background())
	if err != nil {
		return err
	}

	infof("Exported %v tables", len(files))

	return nil
}
