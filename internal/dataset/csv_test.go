package dataset

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"roi-insight/internal/roi"
)

func TestReadCSV_MatchesColumnsByName(t *testing.T) {
	input := "Status,Issue key,Extra,Created,Custom field (Start date),Due date,Priority\n" +
		"Done,PROJ-1,ignored,25/Aug/25 10:00 AM,25/Aug/25,27/Aug/25,High\n" +
		"To Do,PROJ-2,,01/Sep/25 09:00 AM,,,Low\n"

	records, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	r := records[0]
	if r.Key != "PROJ-1" || r.Status != "Done" || r.Priority != "High" {
		t.Errorf("unexpected record: %+v", r)
	}
	if r.Created != "25/Aug/25 10:00 AM" || r.StartDate != "25/Aug/25" || r.DueDate != "27/Aug/25" {
		t.Errorf("unexpected dates: %+v", r)
	}
	if r.Summary != "" || r.Assignee != "" {
		t.Errorf("missing columns should stay empty: %+v", r)
	}
	if records[1].StartDate != "" || records[1].DueDate != "" {
		t.Errorf("empty cells should stay empty: %+v", records[1])
	}
}

func TestReadCSV_HeaderErrors(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("")); !errors.Is(err, ErrNoHeader) {
		t.Errorf("empty input: expected ErrNoHeader, got %v", err)
	}
	if _, err := ReadCSV(strings.NewReader("foo,bar\n1,2\n")); !errors.Is(err, ErrNoHeader) {
		t.Errorf("unknown header: expected ErrNoHeader, got %v", err)
	}
}

func TestReadCSV_ByteOrderMark(t *testing.T) {
	input := "\ufeffIssue key,Status\nPROJ-9,Done\n"
	records, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Key != "PROJ-9" {
		t.Errorf("BOM-prefixed header not recognized: %+v", records)
	}
}

func TestWriteCSV_ReadBack(t *testing.T) {
	in := []roi.Record{{
		IssueType: "Story", Key: "PROJ-1", ID: "10001",
		Summary: "Needs, a comma", Description: "multi\nline",
		Assignee: "Ada", Priority: "High", Status: "Done",
		Created: "25/Aug/25 10:00 AM", DueDate: "27/Aug/25 12:00 AM", StartDate: "25/Aug/25 12:00 AM",
	}}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, in); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "Issue Type,Issue key,Issue id,") {
		t.Errorf("unexpected header: %q", strings.SplitN(buf.String(), "\n", 2)[0])
	}

	out, err := ReadCSV(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0] != in[0] {
		t.Errorf("read back %+v, want %+v", out, in)
	}
}
