package roster

import (
	"reflect"
	"testing"
)

var header = []any{
	"First Name", "Last Name", "Username", "Password", "Class/Grade", "Section", "Branch",
	"Admission Number / Unique Identification Number", "Remarks",
}

func TestMakeRoster(t *testing.T) {
	expected := Roster{
		Records: []Credential{
			{"Ada", "Lovelace", "ada.l", "qwerty", "7", "A", "North", "A-1001", ""},
			{"Alan", "Turing", "alan.t", "uiop", "8", "B", "South", "A-1002", "transfer"},
		},
	}

	data := [][]any{
		header,
		[]any{"Ada", "Lovelace", "ada.l", "qwerty", "7", "A", "North", "A-1001", ""},
		[]any{"Alan", "Turing", "alan.t", "uiop", "8", "B", "South", "A-1002", "transfer"},
	}

	roster, err := MakeRoster(data)
	if err != nil {
		t.Fatalf("Unexpected error returned from MakeRoster (%v)", err)
	}

	if !reflect.DeepEqual(*roster, expected) {
		t.Errorf("Incorrect roster\n   expected: %v\n   got:      %v\n", expected, *roster)
	}
}

func TestMakeRosterWithOutOfOrderColumns(t *testing.T) {
	expected := Roster{
		Records: []Credential{
			{"Ada", "Lovelace", "ada.l", "qwerty", "7", "A", "North", "A-1001", "-"},
		},
	}

	data := [][]any{
		[]any{"Remarks", "branch", "Username", "LastName", "First Name", "Password", "Section",
			"Admission Number / Unique Identification Number", "Class/Grade", "Notes"},
		[]any{"-", "North", "ada.l", "Lovelace", "Ada", "qwerty", "A", "A-1001", "7", "ignored"},
	}

	roster, err := MakeRoster(data)
	if err != nil {
		t.Fatalf("Unexpected error returned from MakeRoster (%v)", err)
	}

	if !reflect.DeepEqual(*roster, expected) {
		t.Errorf("Incorrect roster\n   expected: %v\n   got:      %v\n", expected, *roster)
	}
}

func TestMakeRosterWithShortAndBlankRows(t *testing.T) {
	expected := Roster{
		Records: []Credential{
			{"Ada", "Lovelace", "ada.l", "qwerty", "7", "", "", "", ""},
			{"Alan", "Turing", "alan.t", "uiop", "8", "B", "South", "1002", ""},
		},
	}

	data := [][]any{
		header,
		[]any{" Ada ", "Lovelace", "ada.l", "qwerty", "7"},
		[]any{},
		[]any{"", " ", ""},
		[]any{"Alan", "Turing", "alan.t", "uiop", 8, "B", "South", 1002},
	}

	roster, err := MakeRoster(data)
	if err != nil {
		t.Fatalf("Unexpected error returned from MakeRoster (%v)", err)
	}

	if !reflect.DeepEqual(*roster, expected) {
		t.Errorf("Incorrect roster\n   expected: %v\n   got:      %v\n", expected, *roster)
	}
}

func TestMakeRosterWithEmptySheet(t *testing.T) {
	if _, err := MakeRoster([][]any{}); err == nil {
		t.Fatalf("Expected error return for empty sheet, got %v", err)
	}
}

func TestMakeRosterWithoutHeaders(t *testing.T) {
	if _, err := MakeRoster([][]any{[]any{}}); err == nil {
		t.Fatalf("Expected error return for missing headers, got %v", err)
	}
}

func TestMakeRosterWithMissingColumn(t *testing.T) {
	data := [][]any{
		[]any{"First Name", "Last Name", "Username", "Password", "Class/Grade", "Section", "Branch", "Remarks"},
	}

	_, err := MakeRoster(data)
	if err == nil {
		t.Fatalf("Expected error return for missing 'Admission Number' column, got %v", err)
	}

	if err.Error() != "Missing 'Admission Number / Unique Identification Number' column" {
		t.Errorf("Incorrect error message - got '%v'", err)
	}
}

func TestMakeRosterWithDuplicatedColumn(t *testing.T) {
	data := [][]any{
		append(append([]any{}, header...), "Branch"),
	}

	if _, err := MakeRoster(data); err == nil {
		t.Fatalf("Expected error return for duplicated column, got %v", err)
	}
}

func TestRosterTable(t *testing.T) {
	roster := Roster{
		Records: []Credential{
			{"Ada", "Lovelace", "ada.l", "qwerty", "7", "A", "North", "A-1001", ""},
		},
	}

	header, rows := roster.Table()

	if !reflect.DeepEqual(header, Columns) {
		t.Errorf("Incorrect header\n   expected: %v\n   got:      %v\n", Columns, header)
	}

	expected := [][]string{
		{"Ada", "Lovelace", "ada.l", "qwerty", "7", "A", "North", "A-1001", ""},
	}

	if !reflect.DeepEqual(rows, expected) {
		t.Errorf("Incorrect rows\n   expected: %v\n   got:      %v\n", expected, rows)
	}
}
