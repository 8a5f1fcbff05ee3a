package commands

import (
	"flag"
	"fmt"
	"log"
	"regexp"
	"strings"
)

const APP = "learner-sheets"
const VERSION = "v0.1.0"

const (
	SHEETS          = "https://www.googleapis.com/auth/spreadsheets"
	SHEETS_READONLY = "https://www.googleapis.com/auth/spreadsheets.readonly"
)

// Options holds the global command line options passed to every command.
type Options struct {
	Config string
	Debug  bool
}

// command holds the Google Sheets and database options shared by the commands. Empty
// values leave the configuration file setting unchanged.
type command struct {
	workdir     string
	credentials string
	url         string
	area        string
	driver      string
	dsn         string
	debug       bool
}

func (c *command) flagset(name string) *flag.FlagSet {
	flagset := flag.NewFlagSet(name, flag.ExitOnError)

	flagset.StringVar(&c.workdir, "workdir", c.workdir, "Directory for working files (tokens, etc)")
	flagset.StringVar(&c.credentials, "credentials", c.credentials, "Path for the Google 'credentials.json' file")
	flagset.StringVar(&c.url, "url", c.url, "Spreadsheet URL")
	flagset.StringVar(&c.area, "range", c.area, "Spreadsheet range e.g. 'Learners!A1:I'. Defaults to the first worksheet")
	flagset.StringVar(&c.driver, "driver", c.driver, "Database driver (sqlserver, postgres or sqlite3)")
	flagset.StringVar(&c.dsn, "dsn", c.dsn, "Database connection string")

	return flagset
}

// configure loads the configuration file and applies any command line overrides.
func (c *command) configure(options *Options) (*Config, error) {
	c.debug = options.Debug

	conf, err := LoadConfig(options.Config)
	if err != nil {
		return nil, fmt.Errorf("could not load configuration (%w)", err)
	}

	override := func(v string, field *string) {
		if s := strings.TrimSpace(v); s != "" {
			*field = s
		}
	}

	override(c.workdir, &conf.Workdir)
	override(c.credentials, &conf.Sheets.Credentials)
	override(c.url, &conf.Sheets.URL)
	override(c.area, &conf.Sheets.Range)
	override(c.driver, &conf.Database.Driver)
	override(c.dsn, &conf.Database.DSN)

	if c.debug {
		debugf("configuration: workdir:%v  credentials:%v  url:%v  range:%v  driver:%v",
			conf.Workdir, conf.Sheets.Credentials, conf.Sheets.URL, conf.Sheets.Range, conf.Database.Driver)
	}

	return conf, nil
}

func spreadsheetID(url string) (string, error) {
	match := regexp.MustCompile(`^https://docs.google.com/spreadsheets/d/(.*?)(?:/.*)?$`).FindStringSubmatch(strings.TrimSpace(url))
	if len(match) < 2 || match[1] == "" {
		return "", fmt.Errorf("invalid spreadsheet URL - expected something like 'https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms'")
	}

	return match[1], nil
}

func helpOptions(flagset *flag.FlagSet) {
	fmt.Println("  Options:")
	fmt.Println()

	flagset.VisitAll(func(f *flag.Flag) {
		fmt.Printf("    --%-14s %s\n", f.Name, f.Usage)
	})

	fmt.Println()
	fmt.Printf("    --%-14s %s\n", "config", "(global) Configuration file path")
	fmt.Printf("    --%-14s %s\n", "debug", "(global) Displays internal information for diagnosing errors")
}

func normalise(v string) string {
	return strings.ToLower(strings.ReplaceAll(v, " ", ""))
}

func debugf(format string, args ...any) {
	log.Printf("%-5s %s", "DEBUG", fmt.Sprintf(format, args...))
}

func infof(format string, args ...any) {
	log.Printf("%-5s %s", "INFO", fmt.Sprintf(format, args...))
}

func warnf(format string, args ...any) {
	log.Printf("%-5s %s", "WARN", fmt.Sprintf(format, args...))
}
