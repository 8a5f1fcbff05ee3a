package commands

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

func connect(ctx context.Context, conf *Config, scope string) (*sheets.Service, *sheets.Spreadsheet, error) {
	id, err := spreadsheetID(conf.Sheets.URL)
	if err != nil {
		return nil, nil, err
	}

	client, err := authorize(conf.Sheets.Credentials, scope, conf.Workdir)
	if err != nil {
		return nil, nil, fmt.Errorf("authentication/authorization error (%w)", err)
	}

	google, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, nil, fmt.Errorf("unable to create new Sheets client (%w)", err)
	}

	spreadsheet, err := google.Spreadsheets.Get(id).Context(ctx).Do()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch spreadsheet (%w)", err)
	}

	return google, spreadsheet, nil
}

// getValues retrieves the roster worksheet values. An empty range selects the whole of
// the first worksheet.
func getValues(ctx context.Context, google *sheets.Service, spreadsheet *sheets.Spreadsheet, area string) ([][]any, error) {
	if strings.TrimSpace(area) == "" {
		if len(spreadsheet.Sheets) == 0 || spreadsheet.Sheets[0].Properties == nil {
			return nil, fmt.Errorf("spreadsheet has no worksheets")
		}

		area = quote(spreadsheet.Sheets[0].Properties.Title)
	}

	response, err := google.Spreadsheets.Values.Get(spreadsheet.SpreadsheetId, area).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve data from sheet (%w)", err)
	}

	if len(response.Values) == 0 {
		return nil, fmt.Errorf("no data in spreadsheet/range")
	}

	return response.Values, nil
}

func getSheet(spreadsheet *sheets.Spreadsheet, area string) (*sheets.Sheet, error) {
	name := sheetName(area)
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && strings.EqualFold(strings.TrimSpace(sheet.Properties.Title), strings.TrimSpace(name)) {
			return sheet, nil
		}
	}

	return nil, fmt.Errorf("unable to identify worksheet for '%s'", area)
}

func sheetName(area string) string {
	if match := regexp.MustCompile(`^(.+?)!.*`).FindStringSubmatch(area); len(match) > 1 {
		area = match[1]
	}

	if strings.HasPrefix(area, "'") && strings.HasSuffix(area, "'") && len(area) > 1 {
		area = strings.ReplaceAll(area[1:len(area)-1], "''", "'")
	}

	return area
}

func quote(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
