package commands

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/sheets/v4"
)

const logTimestamp = "2006-01-02 15:04:05"

type logsheet struct {
	area      string
	retention uint
	debug     bool
}

type span struct {
	start int
	end   int
}

// update appends a summary row for the sync to the log worksheet. Columns are located by
// header name, falling back to Timestamp, RunID, Fetched, Skipped, Inserted, Exported.
func (l *logsheet) update(ctx context.Context, google *sheets.Service, spreadsheet *sheets.Spreadsheet, id uuid.UUID, timestamp time.Time, s *summary) error {
	response, err := google.Spreadsheets.Values.Get(spreadsheet.SpreadsheetId, l.area).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to retrieve column headers from log sheet (%w)", err)
	}

	var header []any
	if len(response.Values) > 0 {
		header = response.Values[0]
	}

	index := logIndex(header)
	if l.debug {
		debugf("Log sheet column index: %v", index)
	}

	rows := sheets.ValueRange{
		Values: [][]any{
			logRow(index, id, timestamp, s),
		},
	}

	if _, err := google.Spreadsheets.Values.Append(spreadsheet.SpreadsheetId, l.area, &rows).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do(); err != nil {
		return fmt.Errorf("error writing log to Google Sheets (%w)", err)
	}

	return nil
}

// prune deletes log rows older than the retention period.
func (l *logsheet) prune(ctx context.Context, google *sheets.Service, spreadsheet *sheets.Spreadsheet, now time.Time) error {
	if l.retention == 0 {
		return nil
	}

	sheet, err := getSheet(spreadsheet, l.area)
	if err != nil {
		return err
	}

	response, err := google.Spreadsheets.Values.Get(spreadsheet.SpreadsheetId, l.area).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to retrieve data from log sheet (%w)", err)
	}

	cutoff := retentionCutoff(now, l.retention)
	infof("Pruning log records from before %v", cutoff.Format("2006-01-02"))

	spans := expired(response.Values, logIndex(headerRow(response.Values))["timestamp"], cutoff)
	requests, deleted := deleteRows(sheet.Properties.SheetId, rangeTop(l.area), spans)

	if len(requests) > 0 {
		rq := sheets.BatchUpdateSpreadsheetRequest{
			Requests: requests,
		}

		if _, err := google.Spreadsheets.BatchUpdate(spreadsheet.SpreadsheetId, &rq).Context(ctx).Do(); err != nil {
			return err
		}
	}

	infof("Pruned %d log records from log sheet", deleted)

	return nil
}

// deleteRows builds the DeleteDimension requests for the expired spans. The requests are
// applied in order, so each span is shifted up by the rows already deleted.
func deleteRows(sheetID int64, offset int, spans []span) ([]*sheets.Request, int) {
	requests := []*sheets.Request{}
	deleted := 0

	for _, s := range spans {
		requests = append(requests, &sheets.Request{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(offset + s.start - deleted),
					EndIndex:   int64(offset + s.end - deleted + 1),
				},
			},
		})

		deleted += s.end - s.start + 1
	}

	return requests, deleted
}

func logIndex(header []any) map[string]int {
	index := map[string]int{}

	for i, v := range header {
		if s, ok := v.(string); ok {
			switch k := normalise(s); k {
			case "timestamp", "runid", "fetched", "skipped", "inserted", "exported":
				index[k] = i
			}
		}
	}

	if len(index) == 0 {
		index = map[string]int{
			"timestamp": 0,
			"runid":     1,
			"fetched":   2,
			"skipped":   3,
			"inserted":  4,
			"exported":  5,
		}
	}

	return index
}

func logRow(index map[string]int, id uuid.UUID, timestamp time.Time, s *summary) []any {
	columns := 0
	for _, v := range index {
		if v >= columns {
			columns = v + 1
		}
	}

	row := make([]any, columns)
	for i := range row {
		row[i] = ""
	}

	values := map[string]any{
		"timestamp": timestamp.Format(logTimestamp),
		"runid":     id.String(),
		"fetched":   s.fetched,
		"skipped":   s.skipped,
		"inserted":  s.inserted,
		"exported":  len(s.exported),
	}

	for k, v := range values {
		if ix, ok := index[k]; ok {
			row[ix] = v
		}
	}

	return row
}

func retentionCutoff(now time.Time, retention uint) time.Time {
	before := now.In(time.Local).AddDate(0, 0, -(int(retention) - 1))

	return time.Date(before.Year(), before.Month(), before.Day(), 0, 0, 0, 0, before.Location())
}

// expired returns the contiguous spans of row indices whose timestamp is before the cutoff,
// in ascending order. Rows without a valid timestamp (e.g. the header) are kept.
func expired(rows [][]any, column int, cutoff time.Time) []span {
	list := []int{}
	for row, record := range rows {
		if column < len(record) {
			if s, ok := record[column].(string); ok {
				if timestamp, err := time.ParseInLocation(logTimestamp, s, time.Local); err == nil && timestamp.Before(cutoff) {
					list = append(list, row)
				}
			}
		}
	}

	if len(list) == 0 {
		return []span{}
	}

	sort.Ints(list)

	spans := []span{}
	start := list[0]
	last := list[0]
	for _, row := range list[1:] {
		if row != last+1 {
			spans = append(spans, span{start, last})
			start = row
		}

		last = row
	}

	return append(spans, span{start, last})
}

// rangeTop returns the zero-based sheet row of the first row in an A1 range.
func rangeTop(area string) int {
	match := regexp.MustCompile(`!\$?[a-zA-Z]*\$?([0-9]+)`).FindStringSubmatch(area)
	if len(match) < 2 {
		return 0
	}

	if top, err := strconv.Atoi(match[1]); err == nil && top > 0 {
		return top - 1
	}

	return 0
}

func headerRow(rows [][]any) []any {
	if len(rows) > 0 {
		return rows[0]
	}

	return nil
}
