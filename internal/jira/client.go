package jira

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultStartDateField is the custom field holding the planned start date on Jira Cloud.
const DefaultStartDateField = "customfield_10015"

// ErrNoProject is returned when neither a project name nor key was given.
var ErrNoProject = errors.New("no project specified")

// Client is the interface for pulling ticket data from Jira.
type Client interface {
	TestConnection(ctx context.Context) (*User, error)
	GetProjects(ctx context.Context) ([]Project, error)
	SearchAll(ctx context.Context, jql string, maxTotal int) ([]IssueDTO, error)
}

// Config holds the authentication and connection settings for Jira.
type Config struct {
	BaseURL  string
	Email    string
	APIToken string

	// StartDateField is the custom field ID read as the ticket start date.
	StartDateField string

	// Performance Settings
	RequestDelay time.Duration
	PageSize     int
	MaxAttempts  int
	RetryDelay   time.Duration
	Timeout      time.Duration
}

// NewClient creates a new Jira client based on the provided configuration.
func NewClient(cfg Config) Client {
	return NewCloudClient(cfg)
}

// BuildProjectJQL selects every issue of a project in creation order.
// A project name wins over a key.
func BuildProjectJQL(projectName, projectKey string) (string, error) {
	projectName = strings.TrimSpace(projectName)
	projectKey = strings.TrimSpace(projectKey)

	switch {
	case projectName != "":
		return fmt.Sprintf(`project = "%s" ORDER BY created ASC`, strings.ReplaceAll(projectName, `"`, `\"`)), nil
	case projectKey != "":
		return fmt.Sprintf("project = %s ORDER BY created ASC", projectKey), nil
	default:
		return "", ErrNoProject
	}
}
