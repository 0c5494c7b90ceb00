package jira

import (
	"encoding/json"
	"strings"
	"time"

	"roi-insight/internal/roi"
)

// ExportTimeLayout is the date format of a Jira CSV export ("25/Aug/25 02:30 PM").
const ExportTimeLayout = "02/Jan/06 03:04 PM"

var apiTimeLayouts = []string{
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// FormatExportTime rewrites an API timestamp in export format, keeping the
// wall clock of its own offset. Unrecognized values pass through unchanged.
func FormatExportTime(s string) string {
	if s == "" {
		return ""
	}
	for _, layout := range apiTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(ExportTimeLayout)
		}
	}
	return s
}

// ToRecords flattens API issues into export rows.
func ToRecords(issues []IssueDTO, startDateField string) []roi.Record {
	if startDateField == "" {
		startDateField = DefaultStartDateField
	}

	records := make([]roi.Record, 0, len(issues))
	for _, iss := range issues {
		f := iss.Fields
		rec := roi.Record{
			IssueType:   f.IssueType.name(),
			Key:         iss.Key,
			ID:          iss.ID,
			Summary:     f.Summary,
			Description: descriptionText(f.Description),
			Assignee:    "Unassigned",
			Priority:    f.Priority.name(),
			Status:      f.Status.name(),
			Resolution:  f.Resolution.name(),
			Created:     FormatExportTime(f.Created),
			Updated:     FormatExportTime(f.Updated),
			DueDate:     FormatExportTime(f.DueDate),
			StartDate:   FormatExportTime(f.CustomString(startDateField)),
		}
		if f.Assignee != nil {
			rec.Assignee = f.Assignee.DisplayName
			rec.AssigneeID = f.Assignee.AccountID
		}
		if f.Reporter != nil {
			rec.Reporter = f.Reporter.DisplayName
			rec.ReporterID = f.Reporter.AccountID
		}
		records = append(records, rec)
	}
	return records
}

// adfNode is the subset of the Atlassian Document Format needed to extract text.
type adfNode struct {
	Type    string    `json:"type"`
	Text    string    `json:"text,omitempty"`
	Content []adfNode `json:"content,omitempty"`
}

// descriptionText accepts either a plain string (API v2) or an ADF document (API v3).
func descriptionText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var doc adfNode
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ""
	}
	var sb strings.Builder
	collectText(&sb, doc)
	return strings.TrimSpace(sb.String())
}

func collectText(sb *strings.Builder, n adfNode) {
	if n.Text != "" {
		sb.WriteString(n.Text)
	}
	for _, c := range n.Content {
		collectText(sb, c)
	}
	switch n.Type {
	case "paragraph", "heading", "listItem", "codeBlock", "blockquote", "hardBreak":
		sb.WriteString("\n")
	}
}
