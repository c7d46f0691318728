package orchestrator

import "mantisbeanstalk/internal/tracker"

// project is the tracker project a request is bound to. The first issue
// touched binds it; later issues must belong to the same project.
type project struct {
	id    int
	bound bool
}

// bind returns the binding after touching issue.
func (p project) bind(issue *tracker.Issue) (project, error) {
	id := issue.ProjectID()
	if id == 0 {
		return p, &ProjectMismatchError{IssueID: issue.ID, Bound: p.id}
	}

	if !p.bound {
		return project{id: id, bound: true}, nil
	}

	if p.id != id {
		return p, &ProjectMismatchError{IssueID: issue.ID, Bound: p.id, Got: id}
	}

	return p, nil
}
