package jira

import (
	"encoding/json"
	"strings"
)

// SearchResponse is one page of the enhanced JQL search endpoint.
type SearchResponse struct {
	Issues        []IssueDTO `json:"issues"`
	IsLast        bool       `json:"isLast"`
	NextPageToken string     `json:"nextPageToken,omitempty"`
}

// IssueDTO represents a single issue in the Jira search response.
type IssueDTO struct {
	ID     string    `json:"id"`
	Key    string    `json:"key"`
	Fields FieldsDTO `json:"fields"`
}

// NamedDTO covers issuetype, priority, status and resolution, which all carry a name.
type NamedDTO struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// UserDTO is an assignee or reporter.
type UserDTO struct {
	AccountID   string `json:"accountId"`
	DisplayName string `json:"displayName"`
}

// FieldsDTO contains the specific fields we care about. Custom fields are
// kept raw in Extra because their IDs differ between instances.
type FieldsDTO struct {
	IssueType   *NamedDTO       `json:"issuetype,omitempty"`
	Summary     string          `json:"summary"`
	Description json.RawMessage `json:"description,omitempty"`
	Assignee    *UserDTO        `json:"assignee,omitempty"`
	Reporter    *UserDTO        `json:"reporter,omitempty"`
	Priority    *NamedDTO       `json:"priority,omitempty"`
	Status      *NamedDTO       `json:"status,omitempty"`
	Resolution  *NamedDTO       `json:"resolution,omitempty"`
	Created     string          `json:"created"`
	Updated     string          `json:"updated"`
	DueDate     string          `json:"duedate"`

	Extra map[string]json.RawMessage `json:"-"`
}

func (f *FieldsDTO) UnmarshalJSON(data []byte) error {
	type plain FieldsDTO
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	p.Extra = make(map[string]json.RawMessage)
	for k, v := range all {
		if strings.HasPrefix(k, "customfield_") {
			p.Extra[k] = v
		}
	}
	*f = FieldsDTO(p)
	return nil
}

// CustomString returns a custom field as a string, or "" when absent or not a string.
func (f FieldsDTO) CustomString(id string) string {
	raw, ok := f.Extra[id]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// User is the account behind the API token.
type User struct {
	AccountID   string `json:"accountId"`
	DisplayName string `json:"displayName"`
	Email       string `json:"emailAddress,omitempty"`
}

// Project is a project summary from the project list endpoint.
type Project struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// name returns the name of an optional field, or "" when absent.
func (n *NamedDTO) name() string {
	if n == nil {
		return ""
	}
	return n.Name
}
