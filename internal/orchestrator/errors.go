package orchestrator

import "fmt"

// ProjectMismatchError reports directives of one request touching issues of
// different tracker projects, or an issue whose project cannot be determined.
type ProjectMismatchError struct {
	IssueID int
	Bound   int
	Got     int
}

func (e *ProjectMismatchError) Error() string {
	if e.Got == 0 {
		return fmt.Sprintf("could not determine project of issue #%d", e.IssueID)
	}
	return fmt.Sprintf("issue #%d belongs to project %d, request is bound to project %d", e.IssueID, e.Got, e.Bound)
}

// UserNotFoundError reports a commit author without a tracker account.
type UserNotFoundError struct {
	ProjectID int
	Name      string
	Email     string
}

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("no tracker user for author %q <%s> in project %d", e.Name, e.Email, e.ProjectID)
}
