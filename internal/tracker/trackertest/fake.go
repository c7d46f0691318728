// Package trackertest provides an in-memory tracker.Client for tests.
package trackertest

import (
	"context"
	"sync"

	"mantisbeanstalk/internal/tracker"
)

// Call is one recorded client invocation.
type Call struct {
	Method  string
	IssueID int
	Project int
	Arg     string
}

// Fake is an in-memory tracker. Fetched issues are copies, so mutations only
// become visible through UpdateIssue.
type Fake struct {
	mu sync.Mutex

	issues  map[int]tracker.Issue
	users   map[int][]tracker.User
	notes   map[int][]tracker.Note
	updates map[int][]tracker.Issue
	calls   []Call

	// Injected failures, returned by the matching method when set.
	FetchErr  error
	UserErr   error
	NoteErr   error
	UpdateErr error
}

var _ tracker.Client = (*Fake)(nil)

// New returns an empty Fake.
func New() *Fake {
	return &Fake{
		issues:  map[int]tracker.Issue{},
		users:   map[int][]tracker.User{},
		notes:   map[int][]tracker.Note{},
		updates: map[int][]tracker.Issue{},
	}
}

// AddIssue stores issue id in projectID.
func (f *Fake) AddIssue(id, projectID int) {
	f.PutIssue(tracker.Issue{ID: id, Project: &tracker.ObjectRef{ID: projectID}})
}

// PutIssue stores issue as is.
func (f *Fake) PutIssue(issue tracker.Issue) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issues[issue.ID] = issue
}

// AddUser makes u a member of projectID.
func (f *Fake) AddUser(projectID int, u tracker.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[projectID] = append(f.users[projectID], u)
}

// Notes returns the notes added to issueID.
func (f *Fake) Notes(issueID int) []tracker.Note {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tracker.Note(nil), f.notes[issueID]...)
}

// Updates returns the issue bodies written for issueID.
func (f *Fake) Updates(issueID int) []tracker.Issue {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]tracker.Issue(nil), f.updates[issueID]...)
}

// Calls returns every call in order.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Methods returns the method names of every call in order.
func (f *Fake) Methods() []string {
	calls := f.Calls()
	methods := make([]string, len(calls))
	for i, c := range calls {
		methods[i] = c.Method
	}
	return methods
}

func (f *Fake) log(c Call) {
	f.calls = append(f.calls, c)
}

func (f *Fake) FetchIssue(_ context.Context, id int) (*tracker.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.log(Call{Method: "FetchIssue", IssueID: id})

	if f.FetchErr != nil {
		return nil, f.FetchErr
	}

	issue, ok := f.issues[id]
	if !ok {
		return nil, tracker.ErrNotFound
	}

	issue.Tags = append([]tracker.ObjectRef(nil), issue.Tags...)
	return &issue, nil
}

func (f *Fake) FindUserByEmail(_ context.Context, projectID int, email string) (*tracker.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.log(Call{Method: "FindUserByEmail", Project: projectID, Arg: email})

	if f.UserErr != nil {
		return nil, f.UserErr
	}
	return tracker.MatchEmail(f.users[projectID], email)
}

func (f *Fake) FindUserByName(_ context.Context, projectID int, name string) (*tracker.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.log(Call{Method: "FindUserByName", Project: projectID, Arg: name})

	if f.UserErr != nil {
		return nil, f.UserErr
	}
	return tracker.MatchName(f.users[projectID], name)
}

func (f *Fake) AddNote(_ context.Context, issueID int, note tracker.Note) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.log(Call{Method: "AddNote", IssueID: issueID, Arg: note.Text})

	if f.NoteErr != nil {
		return f.NoteErr
	}
	f.notes[issueID] = append(f.notes[issueID], note)
	return nil
}

func (f *Fake) UpdateIssue(_ context.Context, id int, issue *tracker.Issue) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.log(Call{Method: "UpdateIssue", IssueID: id})

	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	f.updates[id] = append(f.updates[id], *issue)
	f.issues[id] = *issue
	return nil
}
