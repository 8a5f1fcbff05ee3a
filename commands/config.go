package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the learner-sheets.yaml configuration file.
type Config struct {
	Workdir  string         `yaml:"workdir"`
	Sheets   SheetsConfig   `yaml:"sheets"`
	Database DatabaseConfig `yaml:"database"`
	Exports  []Export       `yaml:"exports"`
}

type SheetsConfig struct {
	Credentials  string `yaml:"credentials"`
	URL          string `yaml:"url"`
	Range        string `yaml:"range"`
	LogRange     string `yaml:"log-range"`
	LogRetention uint   `yaml:"log-retention"`
}

type DatabaseConfig struct {
	Driver     string   `yaml:"driver"`
	DSN        string   `yaml:"dsn"`
	Table      string   `yaml:"table"`
	Truncate   []string `yaml:"truncate"`
	Procedures []string `yaml:"procedures"`
}

// Export describes a table that is written to <dir>/<prefix>_<timestamp>.csv after a sync.
type Export struct {
	Table  string `yaml:"table"`
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
}

// NewConfig returns a configuration initialised with the defaults.
func NewConfig() *Config {
	return &Config{
		Workdir: DEFAULT_WORKDIR,
		Sheets: SheetsConfig{
			Credentials:  DEFAULT_CREDENTIALS,
			URL:          "",
			Range:        "",
			LogRange:     "",
			LogRetention: 30,
		},
		Database: DatabaseConfig{
			Driver: "sqlserver",
			DSN:    "sqlserver://localhost/MSSQLSERVER02?database=nn",
			Table:  "master_credentials_file_l",
			Truncate: []string{
				"master_credentials_file_l",
				"master_credentials_file_l2",
				"master_credentials_file_T",
				"newenrolls",
				"csv_handle",
				"NOT_ENROLLED",
			},
			Procedures: []string{
				"Initialize_Setup",
				"CREDENTIALS_EXECUTION",
			},
		},
		Exports: []Export{
			{Table: "CSV_HANDLE", Dir: filepath.Join(DEFAULT_EXPORTS, "LEARNER_cSV"), Prefix: "csv_handle"},
			{Table: "NEWENROLLS", Dir: filepath.Join(DEFAULT_EXPORTS, "CSV_HANDLE"), Prefix: "newenrolls"},
			{Table: "NOT_ENROLLED", Dir: filepath.Join(DEFAULT_EXPORTS, "NOT_ENROLLED"), Prefix: "not_enrolled"},
		},
	}
}

// LoadConfig reads the YAML configuration file over the defaults and then applies the
// LEARNER_SHEETS_DRIVER and LEARNER_SHEETS_DSN environment variables (optionally from a
// .env file). A missing default configuration file is not an error.
func LoadConfig(file string) (*Config, error) {
	conf := NewConfig()

	if file != "" {
		bytes, err := os.ReadFile(file)
		switch {
		case err != nil && errors.Is(err, fs.ErrNotExist) && file == DEFAULT_CONFIG:

		case err != nil:
			return nil, err

		default:
			if err := yaml.Unmarshal(bytes, conf); err != nil {
				return nil, fmt.Errorf("invalid configuration file %v (%w)", file, err)
			}
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("invalid .env file (%w)", err)
	}

	if v := strings.TrimSpace(os.Getenv("LEARNER_SHEETS_DRIVER")); v != "" {
		conf.Database.Driver = v
	}

	if v := strings.TrimSpace(os.Getenv("LEARNER_SHEETS_DSN")); v != "" {
		conf.Database.DSN = v
	}

	return conf, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Sheets.Credentials) == "" {
		return fmt.Errorf("--credentials is a required option")
	}

	if strings.TrimSpace(c.Sheets.URL) == "" {
		return fmt.Errorf("--url is a required option")
	}

	if _, err := spreadsheetID(c.Sheets.URL); err != nil {
		return err
	}

	if strings.TrimSpace(c.Database.Table) == "" {
		return fmt.Errorf("missing target table for credential records")
	}

	for _, e := range c.Exports {
		if strings.TrimSpace(e.Table) == "" || strings.TrimSpace(e.Dir) == "" || strings.TrimSpace(e.Prefix) == "" {
			return fmt.Errorf("invalid export %+v - requires table, dir and prefix", e)
		}
	}

	return nil
}
