package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/learnerhub/learner-sheets/export"
	"github.com/learnerhub/learner-sheets/roster"
)

var GetCmd = Get{
	command: command{
		workdir:     "",
		credentials: "",
		url:         "",
		area:        "",
		debug:       false,
	},

	file: export.Filename("learners", time.Now()),
}

type Get struct {
	command
	file string
}

func (cmd *Get) Name() string {
	return "get"
}

func (cmd *Get) Description() string {
	return "Retrieves the learner roster from a Google Sheets worksheet and stores it to a local CSV file"
}

func (cmd *Get) Usage() string {
	return "--credentials <file> --url <url> --file <file>"
}

func (cmd *Get) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] get [options] --url <URL> --file <file>\n", APP)
	fmt.Println()
	fmt.Println("  Downloads the learner roster worksheet to a CSV file")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    learner-sheets --debug get --credentials "google_cloud_key.json" \`)
	fmt.Println(`                               --url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \`)
	fmt.Println(`                               --range "Learners!A1:I" \`)
	fmt.Println(`                               --file "learners.csv"`)
	fmt.Println()
}

func (cmd *Get) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("get")

	flagset.StringVar(&cmd.file, "file", cmd.file, "CSV file name. Defaults to 'learners_<yyyy-mm-dd_HH-MM-SS>.csv'")

	return flagset
}

func (cmd *Get) Execute(args ...any) error {
	options := args[0].(*Options)

	conf, err := cmd.configure(options)
	if err != nil {
		return err
	}

	// ... check parameters
	if err := conf.validate(); err != nil {
		return err
	}

	if strings.TrimSpace(cmd.file) == "" {
		return fmt.Errorf("--file is a required option")
	}

	ctx := context.Background()

	google, spreadsheet, err := connect(ctx, conf, SHEETS_READONLY)
	if err != nil {
		return err
	}

	if cmd.debug {
		debugf("Spreadsheet - ID:%s  range:%s", spreadsheet.SpreadsheetId, conf.Sheets.Range)
	}

	values, err := getValues(ctx, google, spreadsheet, conf.Sheets.Range)
	if err != nil {
		return err
	}

	learners, err := roster.MakeRoster(values)
	if err != nil {
		return fmt.Errorf("error creating roster from worksheet (%w)", err)
	}

	if err := save(cmd.file, learners); err != nil {
		return err
	}

	infof("Retrieved %v learner records to file %s", len(learners.Records), cmd.file)

	return nil
}

func save(file string, learners *roster.Roster) error {
	dir := filepath.Dir(file)
	if err := os.MkdirAll(dir, 0770); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".learners-*")
	if err != nil {
		return err
	}

	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	header, rows := learners.Table()
	if err := export.Write(tmp, header, rows); err != nil {
		return fmt.Errorf("error creating CSV file (%w)", err)
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), file)
}
