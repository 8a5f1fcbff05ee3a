package commands

import (
	"context"
	"flag"
	"fmt"

	"github.com/learnerhub/learner-sheets/roster"
	"github.com/learnerhub/learner-sheets/store"
)

var CompareCmd = Compare{
	command: command{
		workdir:     "",
		credentials: "",
		url:         "",
		area:        "",
		driver:      "",
		dsn:         "",
		debug:       false,
	},
}

// Compare reports which worksheet records would be inserted by a sync that keeps the
// existing table contents. Nothing is written to the database.
type Compare struct {
	command
}

func (cmd *Compare) Name() string {
	return "compare"
}

func (cmd *Compare) Description() string {
	return "Compares the learner roster in a Google Sheets worksheet with the master credentials table"
}

func (cmd *Compare) Usage() string {
	return "--credentials <file> --url <url> --dsn <dsn>"
}

func (cmd *Compare) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] compare [options] --url <URL>\n", APP)
	fmt.Println()
	fmt.Println("  Lists the worksheet records that are not already in the master credentials table")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    learner-sheets compare --credentials "google_cloud_key.json" \`)
	fmt.Println(`                           --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \`)
	fmt.Println(`                           --driver postgres --dsn "postgres://learners@localhost/nn?sslmode=disable"`)
	fmt.Println()
}

func (cmd *Compare) FlagSet() *flag.FlagSet {
	return cmd.flagset("compare")
}

func (cmd *Compare) Execute(args ...any) error {
	options := args[0].(*Options)

	conf, err := cmd.configure(options)
	if err != nil {
		return err
	}

	if err := conf.validate(); err != nil {
		return err
	}

	ctx := context.Background()

	google, spreadsheet, err := connect(ctx, conf, SHEETS_READONLY)
	if err != nil {
		return err
	}

	values, err := getValues(ctx, google, spreadsheet, conf.Sheets.Range)
	if err != nil {
		return err
	}

	learners, err := roster.MakeRoster(values)
	if err != nil {
		return fmt.Errorf("error creating roster from worksheet (%w)", err)
	}

	db, err := store.Open(conf.Database.Driver, conf.Database.DSN)
	if err != nil {
		return fmt.Errorf("unable to connect to database (%w)", err)
	}

	defer db.Close()

	added, skipped, err := compare(ctx, db, conf.Database.Table, learners)
	if err != nil {
		return err
	}

	for _, r := range added {
		infof("new       %v", r.Key())
	}

	if cmd.debug {
		for _, r := range skipped {
			debugf("existing  %v", r.Key())
		}
	}

	infof("%v  worksheet:%v  new:%v  existing:%v", conf.Database.Table, len(learners.Records), len(added), len(skipped))

	return nil
}

func compare(ctx context.Context, db *store.DB, table string, learners *roster.Roster) ([]roster.Credential, []roster.Credential, error) {
	existing, err := db.Keys(ctx, table)
	if err != nil {
		return nil, nil, err
	}

	added, skipped := roster.Diff(learners.Records, existing)

	return added, skipped, nil
}
