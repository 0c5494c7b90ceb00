package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"roi-insight/internal/roi"
)

// Columns is the header of a tracker export, in the order it is written.
var Columns = []string{
	"Issue Type",
	"Issue key",
	"Issue id",
	"Summary",
	"Description",
	"Assignee",
	"Assignee Id",
	"Reporter",
	"Reporter Id",
	"Priority",
	"Status",
	"Resolution",
	"Created",
	"Updated",
	"Due date",
	"Custom field (Start date)",
}

// ErrNoHeader is returned for an input without a header row.
var ErrNoHeader = errors.New("dataset has no header row")

// fields maps each column to its Record field.
func fields(r *roi.Record) []*string {
	return []*string{
		&r.IssueType, &r.Key, &r.ID, &r.Summary, &r.Description,
		&r.Assignee, &r.AssigneeID, &r.Reporter, &r.ReporterID,
		&r.Priority, &r.Status, &r.Resolution,
		&r.Created, &r.Updated, &r.DueDate, &r.StartDate,
	}
}

// ReadCSV parses an export. Columns are matched by header name, so extra
// columns are ignored and missing ones stay empty.
func ReadCSV(r io.Reader) ([]roi.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, ErrNoHeader
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		index[strings.ToLower(h)] = i
	}

	positions := make([]int, len(Columns))
	found := 0
	for i, col := range Columns {
		pos, ok := index[strings.ToLower(col)]
		if !ok {
			pos = -1
		} else {
			found++
		}
		positions[i] = pos
	}
	if found == 0 {
		return nil, fmt.Errorf("%w: none of the expected columns present", ErrNoHeader)
	}

	var records []roi.Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		var rec roi.Record
		dst := fields(&rec)
		for i, pos := range positions {
			if pos >= 0 && pos < len(row) {
				*dst[i] = strings.TrimSpace(row[pos])
			}
		}
		records = append(records, rec)
	}

	return records, nil
}

// WriteCSV writes records with the standard export header.
func WriteCSV(w io.Writer, records []roi.Record) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Columns); err != nil {
		return err
	}
	for i := range records {
		dst := fields(&records[i])
		row := make([]string, len(dst))
		for j, f := range dst {
			row[j] = *f
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
