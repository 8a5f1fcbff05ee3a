package store

import (
	"fmt"
	"regexp"
	"strings"
)

type dialect struct {
	quote    func(column string) string
	truncate func(table string) string
	call     func(procedure string) (string, error)
}

var dialects = map[string]dialect{
	"sqlserver": {
		quote: func(column string) string {
			return "[" + strings.ReplaceAll(column, "]", "]]") + "]"
		},
		truncate: func(table string) string {
			return "TRUNCATE TABLE " + table
		},
		call: func(procedure string) (string, error) {
			return "EXEC " + procedure, nil
		},
	},

	"postgres": {
		quote: doubleQuote,
		truncate: func(table string) string {
			return "TRUNCATE TABLE " + table
		},
		call: func(procedure string) (string, error) {
			return "CALL " + procedure + "()", nil
		},
	},

	"sqlite3": {
		quote: doubleQuote,
		truncate: func(table string) string {
			return "DELETE FROM " + table
		},
		call: func(procedure string) (string, error) {
			return "", fmt.Errorf("stored procedures are not supported by sqlite3 ('%s')", procedure)
		},
	},
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// Drivers returns the supported database driver names.
func Drivers() []string {
	return []string{"sqlserver", "postgres", "sqlite3"}
}

func validate(name string) error {
	if !identifier.MatchString(name) {
		return fmt.Errorf("invalid table/procedure name '%s'", name)
	}

	return nil
}

func doubleQuote(column string) string {
	return `"` + strings.ReplaceAll(column, `"`, `""`) + `"`
}
