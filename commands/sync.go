package commands

import (
	"context"
	"flag"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/sheets/v4"

	"github.com/learnerhub/learner-sheets/store"
)

var SyncCmd = Sync{
	command: command{
		workdir:     "",
		credentials: "",
		url:         "",
		area:        "",
		driver:      "",
		dsn:         "",
		debug:       false,
	},

	noTruncate:   false,
	noProcedures: false,
	noExport:     false,
	logRange:     "",
	logRetention: -1,
}

type Sync struct {
	command
	noTruncate   bool
	noProcedures bool
	noExport     bool
	logRange     string
	logRetention int
}

func (cmd *Sync) Name() string {
	return "sync"
}

func (cmd *Sync) Description() string {
	return "Loads the learner credentials from a Google Sheets worksheet into the database, runs the credential procedures and exports the results"
}

func (cmd *Sync) Usage() string {
	return "--credentials <file> --url <url> --dsn <dsn>"
}

func (cmd *Sync) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] sync [options] --url <URL>\n", APP)
	fmt.Println()
	fmt.Println("  Truncates the credential tables, inserts the worksheet records that are not already in the")
	fmt.Println("  master credentials table, executes the credential stored procedures and exports the")
	fmt.Println("  resulting tables to timestamped CSV files")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    learner-sheets --debug sync --credentials "google_cloud_key.json" \`)
	fmt.Println(`                                --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \`)
	fmt.Println(`                                --dsn "sqlserver://localhost/MSSQLSERVER02?database=nn"`)
	fmt.Println()
	fmt.Println(`    learner-sheets --config learner-sheets.yaml sync --log-range "Log!A1:F"`)
	fmt.Println()
}

func (cmd *Sync) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("sync")

	flagset.BoolVar(&cmd.noTruncate, "no-truncate", cmd.noTruncate, "Keeps the existing table contents so that only new worksheet records are inserted")
	flagset.BoolVar(&cmd.noProcedures, "no-procedures", cmd.noProcedures, "Skips executing the stored procedures")
	flagset.BoolVar(&cmd.noExport, "no-export", cmd.noExport, "Skips exporting the result tables to CSV files")
	flagset.StringVar(&cmd.logRange, "log-range", cmd.logRange, "Spreadsheet range for the sync log e.g. 'Log!A1:F'")
	flagset.IntVar(&cmd.logRetention, "log-retention", cmd.logRetention, "Log sheet records older than 'log-retention' days are automatically pruned. 0 disables pruning. Defaults to the configured value (30 days)")

	return flagset
}

func (cmd *Sync) Execute(args ...any) error {
	options := args[0].(*Options)

	conf, err := cmd.configure(options)
	if err != nil {
		return err
	}

	// ... check parameters
	if err := cmd.logOptions(conf); err != nil {
		return err
	}

	if err := conf.validate(); err != nil {
		return err
	}

	ctx := context.Background()
	id := uuid.New()
	timestamp := time.Now()

	infof("Sync %v started", id)

	scope := SHEETS_READONLY
	if conf.Sheets.LogRange != "" {
		scope = SHEETS
	}

	google, spreadsheet, err := connect(ctx, conf, scope)
	if err != nil {
		return err
	}

	if cmd.debug {
		debugf("Spreadsheet - ID:%s  range:%s  log:%s", spreadsheet.SpreadsheetId, conf.Sheets.Range, conf.Sheets.LogRange)
	}

	db, err := store.Open(conf.Database.Driver, conf.Database.DSN)
	if err != nil {
		return fmt.Errorf("unable to connect to database (%w)", err)
	}

	defer db.Close()

	p := pipeline{
		db: db,
		fetch: func(ctx context.Context) ([][]any, error) {
			return getValues(ctx, google, spreadsheet, conf.Sheets.Range)
		},
		table:      conf.Database.Table,
		truncate:   conf.Database.Truncate,
		procedures: conf.Database.Procedures,
		exports:    conf.Exports,
		timestamp:  timestamp,
		debug:      cmd.debug,
	}

	if cmd.noTruncate {
		p.truncate = nil
	}

	if cmd.noProcedures {
		p.procedures = nil
	}

	if cmd.noExport {
		p.exports = nil
	}

	s, err := p.run(ctx)
	if err != nil {
		return err
	}

	infof("Sync %v  fetched:%v  skipped:%v  inserted:%v  exported:%v", id, s.fetched, s.skipped, s.inserted, len(s.exported))

	if conf.Sheets.LogRange != "" {
		if err := cmd.log(ctx, google, spreadsheet, conf, id, timestamp, s); err != nil {
			return err
		}
	}

	return nil
}

// logOptions applies the --log-range and --log-retention overrides. A negative retention
// keeps the configured value.
func (cmd *Sync) logOptions(conf *Config) error {
	if strings.TrimSpace(cmd.logRange) != "" {
		conf.Sheets.LogRange = strings.TrimSpace(cmd.logRange)
	}

	if cmd.logRetention >= 0 {
		conf.Sheets.LogRetention = uint(cmd.logRetention)
	}

	if conf.Sheets.LogRange != "" {
		if match := regexp.MustCompile(`(.+?)!.*`).FindStringSubmatch(conf.Sheets.LogRange); len(match) < 2 {
			return fmt.Errorf("invalid log-range '%s' - expected something like 'Log!A1:F'", conf.Sheets.LogRange)
		}
	}

	return nil
}

func (cmd *Sync) log(ctx context.Context, google *sheets.Service, spreadsheet *sheets.Spreadsheet, conf *Config, id uuid.UUID, timestamp time.Time, s *summary) error {
	l := logsheet{
		area:      conf.Sheets.LogRange,
		retention: conf.Sheets.LogRetention,
		debug:     cmd.debug,
	}

	if err := l.update(ctx, google, spreadsheet, id, timestamp, s); err != nil {
		return err
	}

	return l.prune(ctx, google, spreadsheet, timestamp)
}
