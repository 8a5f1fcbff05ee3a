package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// TimestampFormat is the layout of the timestamp embedded in export file names.
const TimestampFormat = "2006-01-02_15-04-05"

// Write writes the header and rows as UTF-8 CSV prefixed with a byte-order mark.
func Write(f io.Writer, header []string, rows [][]string) error {
	if len(header) == 0 {
		return fmt.Errorf("Missing/invalid header row")
	}

	bom := transform.NewWriter(f, unicode.UTF8BOM.NewEncoder())
	w := csv.NewWriter(bom)

	if err := w.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	return bom.Close()
}

// Filename returns the export file name for a prefix and run timestamp,
// e.g. csv_handle_2025-06-01_07-30-00.csv.
func Filename(prefix string, timestamp time.Time) string {
	return fmt.Sprintf("%s_%s.csv", prefix, timestamp.Format(TimestampFormat))
}

// ToFile writes the CSV to a temporary file and then moves it to <dir>/<prefix>_<timestamp>.csv,
// creating the directory if necessary. Returns the path of the exported file.
func ToFile(dir, prefix string, timestamp time.Time, header []string, rows [][]string) (string, error) {
	if err := os.MkdirAll(dir, 0770); err != nil {
		return "", err
	}

	file := filepath.Join(dir, Filename(prefix, timestamp))

	tmp, err := os.CreateTemp(dir, ".export-*")
	if err != nil {
		return "", err
	}

	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if err := Write(tmp, header, rows); err != nil {
		return "", fmt.Errorf("error creating CSV file (%w)", err)
	}

	if err := tmp.Close(); err != nil {
		return "", err
	}

	if err := os.Rename(tmp.Name(), file); err != nil {
		return "", err
	}

	return file, nil
}
