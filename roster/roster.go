package roster

import (
	"fmt"
	"strings"
)

type Roster struct {
	Records []Credential
}

// MakeRoster builds a roster from worksheet values. The first row is the header row and
// columns are matched by normalised name, so column order is irrelevant.
func MakeRoster(rows [][]any) (*Roster, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("Empty sheet")
	}

	// .. build index
	index := map[string]int{}
	for i, v := range rows[0] {
		k := normalise(cell(v))
		if k == "" {
			continue
		}

		if _, ok := index[k]; ok {
			return nil, fmt.Errorf("Duplicate column name '%v'", v)
		}

		index[k] = i
	}

	if len(index) == 0 {
		return nil, fmt.Errorf("Missing/invalid header row")
	}

	for _, h := range Columns {
		if _, ok := index[normalise(h)]; !ok {
			return nil, fmt.Errorf("Missing '%s' column", h)
		}
	}

	// ... records
	records := []Credential{}
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}

		get := func(h string) string {
			if ix := index[normalise(h)]; ix < len(row) {
				return clean(cell(row[ix]))
			}

			return ""
		}

		records = append(records, Credential{
			FirstName: get(FirstName),
			LastName:  get(LastName),
			Username:  get(Username),
			Password:  get(Password),
			Grade:     get(Grade),
			Section:   get(Section),
			Branch:    get(Branch),
			ID:        get(ID),
			Remarks:   get(Remarks),
		})
	}

	return &Roster{
		Records: records,
	}, nil
}

// Table returns the roster as a header row plus one row per record.
func (r *Roster) Table() ([]string, [][]string) {
	header := append([]string{}, Columns...)
	rows := make([][]string, 0, len(r.Records))

	for _, record := range r.Records {
		rows = append(rows, record.Values())
	}

	return header, rows
}

func blank(row []any) bool {
	for _, v := range row {
		if clean(cell(v)) != "" {
			return false
		}
	}

	return true
}

func cell(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprintf("%v", v)
	}
}

func clean(v string) string {
	return strings.TrimSpace(v)
}

func normalise(v string) string {
	return strings.ToLower(strings.ReplaceAll(v, " ", ""))
}
