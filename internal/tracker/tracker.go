// Package tracker defines the issue-tracker surface the hook pipeline needs.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when an issue or user does not exist.
var ErrNotFound = errors.New("tracker: not found")

// APIError is a non-2xx answer from the tracker API.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tracker: %s %s returned %d: %s", e.Method, e.Path, e.StatusCode, strings.TrimSpace(e.Body))
}

// Client is the narrow tracker API used by the orchestrator.
type Client interface {
	FetchIssue(ctx context.Context, id int) (*Issue, error)
	FindUserByEmail(ctx context.Context, projectID int, email string) (*User, error)
	FindUserByName(ctx context.Context, projectID int, name string) (*User, error)
	AddNote(ctx context.Context, issueID int, note Note) error
	UpdateIssue(ctx context.Context, id int, issue *Issue) error
}

// ObjectRef references a tracker entity by id or by name.
type ObjectRef struct {
	ID   int    `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Named returns a reference by name, or nil for an empty name.
func Named(name string) *ObjectRef {
	if name == "" {
		return nil
	}
	return &ObjectRef{Name: name}
}

// Issue holds the mutable fields of a tracker issue.
type Issue struct {
	ID         int         `json:"id"`
	Summary    string      `json:"summary,omitempty"`
	Project    *ObjectRef  `json:"project,omitempty"`
	Status     *ObjectRef  `json:"status,omitempty"`
	Priority   *ObjectRef  `json:"priority,omitempty"`
	Severity   *ObjectRef  `json:"severity,omitempty"`
	Resolution *ObjectRef  `json:"resolution,omitempty"`
	Handler    *ObjectRef  `json:"handler,omitempty"`
	Tags       []ObjectRef `json:"tags,omitempty"`
}

// ProjectID returns the id of the project the issue belongs to, or 0.
func (i *Issue) ProjectID() int {
	if i == nil || i.Project == nil {
		return 0
	}
	return i.Project.ID
}

// AddTags appends the named tags the issue does not carry yet.
func (i *Issue) AddTags(names []string) {
	seen := make(map[string]bool, len(i.Tags))
	for _, t := range i.Tags {
		seen[strings.ToLower(t.Name)] = true
	}

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true
		i.Tags = append(i.Tags, ObjectRef{Name: name})
	}
}

// User is a tracker account.
type User struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	RealName string `json:"real_name,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Ref returns a reference to the user suitable for handler or reporter fields.
func (u *User) Ref() *ObjectRef {
	return &ObjectRef{ID: u.ID, Name: u.Name}
}

// Note is an issue note.
type Note struct {
	Text      string     `json:"text"`
	Reporter  *ObjectRef `json:"reporter,omitempty"`
	ViewState *ObjectRef `json:"view_state,omitempty"`
}

// MatchEmail finds the user with the given email, ignoring case.
func MatchEmail(users []User, email string) (*User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrNotFound
	}

	for i := range users {
		if strings.EqualFold(users[i].Email, email) {
			return &users[i], nil
		}
	}

	return nil, ErrNotFound
}

// MatchName finds a user by username first and by real name second.
func MatchName(users []User, name string) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNotFound
	}

	for i := range users {
		if users[i].Name == name {
			return &users[i], nil
		}
	}
	for i := range users {
		if strings.EqualFold(users[i].RealName, name) || strings.EqualFold(users[i].Name, name) {
			return &users[i], nil
		}
	}

	return nil, ErrNotFound
}
