package orchestrator

import (
	"context"
	"errors"
	"testing"

	"mantisbeanstalk/internal/directive"
	"mantisbeanstalk/internal/models"
	"mantisbeanstalk/internal/tracker"
	"mantisbeanstalk/internal/tracker/trackertest"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var (
	jdoe   = tracker.User{ID: 7, Name: "jdoe", RealName: "John Doe", Email: "jdoe@example.com"}
	asmith = tracker.User{ID: 8, Name: "asmith", RealName: "Anna Smith", Email: "anna@example.com"}
)

func commitBy(message, revision string) models.Commit {
	return models.Commit{
		Message:  message,
		Author:   models.CommitAuthor{Name: "John Doe", Email: "jdoe@example.com"},
		Revision: revision,
	}
}

func newOrchestrator(t *testing.T, fake *trackertest.Fake, opts ...Option) *Orchestrator {
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
	return New(fake, directive.NewParser(), opts...)
}

type recorderSpy struct {
	applied []int
	skipped map[int]string
}

func (r *recorderSpy) DirectiveApplied(_ string, d models.Directive) {
	r.applied = append(r.applied, d.IssueID)
}

func (r *recorderSpy) DirectiveSkipped(_ string, d models.Directive, reason string) {
	if r.skipped == nil {
		r.skipped = map[int]string{}
	}
	r.skipped[d.IssueID] = reason
}

func TestRunAppliesDirective(t *testing.T) {
	fake := trackertest.New()
	fake.PutIssue(tracker.Issue{
		ID:      5,
		Project: &tracker.ObjectRef{ID: 1},
		Status:  tracker.Named("new"),
		Tags:    []tracker.ObjectRef{{ID: 3, Name: "bug"}},
	})
	fake.AddUser(1, jdoe)
	fake.AddUser(1, asmith)

	o := newOrchestrator(t, fake)
	report, err := o.Run(context.Background(), []models.Commit{
		commitBy(`[#5 status=resolved resolution=fixed assign="Anna Smith" tags=bug,ui message="done"]`, "abc123"),
	})
	require.NoError(t, err)
	require.Equal(t, 1, report.Commits)
	require.Equal(t, 1, report.Applied())
	require.Zero(t, report.Skipped())

	require.Equal(t, []string{
		"FetchIssue",
		"FindUserByEmail",
		"FindUserByName",
		"AddNote",
		"UpdateIssue",
	}, fake.Methods(), "note goes in before the field update")

	notes := fake.Notes(5)
	require.Len(t, notes, 1)
	require.Equal(t, "done\n\n--------------------\nrevision: abc123", notes[0].Text)
	require.Equal(t, jdoe.ID, notes[0].Reporter.ID)

	updates := fake.Updates(5)
	require.Len(t, updates, 1)
	updated := updates[0]
	require.Equal(t, "resolved", updated.Status.Name)
	require.Equal(t, "fixed", updated.Resolution.Name)
	require.Equal(t, asmith.ID, updated.Handler.ID)
	require.Nil(t, updated.Priority)
	require.Equal(t, []tracker.ObjectRef{{ID: 3, Name: "bug"}, {Name: "ui"}}, updated.Tags)
}

func TestRunDefaultNoteWithoutRevision(t *testing.T) {
	fake := trackertest.New()
	fake.AddIssue(7, 1)
	fake.AddUser(1, jdoe)

	_, err := newOrchestrator(t, fake).Run(context.Background(), []models.Commit{
		commitBy("fix bug [#7 status=closed]", ""),
	})
	require.NoError(t, err)

	notes := fake.Notes(7)
	require.Len(t, notes, 1)
	require.Equal(t, "fix bug ", notes[0].Text)
}

func TestRunBlankNoteIsNotPosted(t *testing.T) {
	fake := trackertest.New()
	fake.AddIssue(7, 1)
	fake.AddUser(1, jdoe)

	_, err := newOrchestrator(t, fake).Run(context.Background(), []models.Commit{
		commitBy("[#7 status=closed]", "r1"),
	})
	require.NoError(t, err)

	require.Empty(t, fake.Notes(7))
	require.Len(t, fake.Updates(7), 1)
}

func TestRunLegacyPriority(t *testing.T) {
	fake := trackertest.New()
	fake.AddIssue(4, 1)
	fake.AddUser(1, jdoe)

	_, err := newOrchestrator(t, fake).Run(context.Background(), []models.Commit{
		commitBy("[#4 priority=high]", "r1"),
	})
	require.NoError(t, err)

	updated := fake.Updates(4)[0]
	require.Equal(t, "high", updated.Status.Name)
	require.Nil(t, updated.Priority)
}

func TestRunCorrectedPriority(t *testing.T) {
	fake := trackertest.New()
	fake.AddIssue(4, 1)
	fake.AddUser(1, jdoe)

	o := New(fake, directive.Parser{LegacyPriority: false})
	_, err := o.Run(context.Background(), []models.Commit{commitBy("[#4 priority=high]", "r1")})
	require.NoError(t, err)

	updated := fake.Updates(4)[0]
	require.Nil(t, updated.Status)
	require.Equal(t, "high", updated.Priority.Name)
}

func TestRunSkipsMissingIssue(t *testing.T) {
	fake := trackertest.New()
	fake.AddIssue(2, 1)
	fake.AddUser(1, jdoe)
	spy := &recorderSpy{}

	report, err := newOrchestrator(t, fake, WithRecorder(spy)).Run(context.Background(), []models.Commit{
		commitBy("[#1 status=a] [#2 status=b]", "r1"),
	})
	require.NoError(t, err)

	require.Equal(t, []Outcome{
		{Revision: "r1", IssueID: 1, Reason: ReasonIssueNotFound},
		{Revision: "r1", IssueID: 2, Applied: true},
	}, report.Outcomes)
	require.Equal(t, []int{2}, spy.applied)
	require.Equal(t, map[int]string{1: ReasonIssueNotFound}, spy.skipped)
	require.Empty(t, fake.Updates(1))
	require.Len(t, fake.Updates(2), 1)
}

func TestRunProjectMismatch(t *testing.T) {
	fake := trackertest.New()
	fake.AddIssue(1, 10)
	fake.AddIssue(2, 20)
	fake.AddUser(10, jdoe)
	fake.AddUser(20, jdoe)

	report, err := newOrchestrator(t, fake).Run(context.Background(), []models.Commit{
		commitBy("[#1 status=a]", "r1"),
		commitBy("[#2 status=b]", "r2"),
	})

	var mismatch *ProjectMismatchError
	require.True(t, errors.As(err, &mismatch), "got %v", err)
	require.Equal(t, 2, mismatch.IssueID)
	require.Equal(t, 10, mismatch.Bound)
	require.Equal(t, 20, mismatch.Got)

	require.Equal(t, 1, report.Commits)
	require.Len(t, fake.Updates(1), 1, "first commit stays applied")
	require.Empty(t, fake.Updates(2))
	require.Empty(t, fake.Notes(2))
}

func TestRunSameProjectAcrossCommits(t *testing.T) {
	fake := trackertest.New()
	fake.AddIssue(1, 10)
	fake.AddIssue(2, 10)
	fake.AddUser(10, jdoe)

	report, err := newOrchestrator(t, fake).Run(context.Background(), []models.Commit{
		commitBy("[#1 status=a]", "r1"),
		commitBy("[#2 status=b] [#1 status=c]", "r2"),
	})
	require.NoError(t, err)
	require.Equal(t, 2, report.Commits)
	require.Equal(t, 3, report.Applied())
	require.Equal(t, "c", fake.Updates(1)[1].Status.Name)
}

func TestRunIssueWithoutProject(t *testing.T) {
	fake := trackertest.New()
	fake.PutIssue(tracker.Issue{ID: 3})

	_, err := newOrchestrator(t, fake).Run(context.Background(), []models.Commit{commitBy("[#3 status=a]", "r1")})

	var mismatch *ProjectMismatchError
	require.True(t, errors.As(err, &mismatch))
	require.Contains(t, mismatch.Error(), "could not determine project")
}

func TestRunUserNotFound(t *testing.T) {
	fake := trackertest.New()
	fake.AddIssue(1, 1)
	fake.AddIssue(2, 1)
	fake.AddUser(1, asmith)

	report, err := newOrchestrator(t, fake).Run(context.Background(), []models.Commit{
		commitBy("[#1 status=a] [#2 status=b]", "r1"),
	})

	var notFound *UserNotFoundError
	require.True(t, errors.As(err, &notFound), "got %v", err)
	require.Equal(t, "jdoe@example.com", notFound.Email)
	require.Equal(t, "John Doe", notFound.Name)
	require.Zero(t, report.Commits)
	require.Empty(t, report.Outcomes)
	require.Empty(t, fake.Updates(1))
	require.NotContains(t, fake.Methods(), "UpdateIssue")
}

func TestRunAuthorFallsBackToName(t *testing.T) {
	fake := trackertest.New()
	fake.AddIssue(1, 1)
	fake.AddUser(1, tracker.User{ID: 7, Name: "jdoe", RealName: "John Doe"})

	_, err := newOrchestrator(t, fake).Run(context.Background(), []models.Commit{
		commitBy("[#1 message=hello]", "r1"),
	})
	require.NoError(t, err)
	require.Equal(t, 7, fake.Notes(1)[0].Reporter.ID)
}

func TestRunAuthorWithoutEmail(t *testing.T) {
	fake := trackertest.New()
	fake.AddIssue(1, 1)
	fake.AddUser(1, jdoe)

	commit := commitBy("[#1 status=a]", "r1")
	commit.Author = models.CommitAuthor{Name: "jdoe"}

	_, err := newOrchestrator(t, fake).Run(context.Background(), []models.Commit{commit})
	require.NoError(t, err)
	require.NotContains(t, fake.Methods(), "FindUserByEmail")
}

func TestRunUnknownAssigneeKeepsHandler(t *testing.T) {
	fake := trackertest.New()
	fake.PutIssue(tracker.Issue{ID: 1, Project: &tracker.ObjectRef{ID: 1}, Handler: &tracker.ObjectRef{ID: 8}})
	fake.AddUser(1, jdoe)

	report, err := newOrchestrator(t, fake).Run(context.Background(), []models.Commit{
		commitBy("[#1 assign=ghost status=open]", "r1"),
	})
	require.NoError(t, err)
	require.Equal(t, 1, report.Applied())

	updated := fake.Updates(1)[0]
	require.Equal(t, 8, updated.Handler.ID)
	require.Equal(t, "open", updated.Status.Name)
}

func TestRunTrackerErrorsAbort(t *testing.T) {
	boom := errors.New("connection reset")

	cases := map[string]func(f *trackertest.Fake){
		"fetch":  func(f *trackertest.Fake) { f.FetchErr = boom },
		"user":   func(f *trackertest.Fake) { f.UserErr = boom },
		"note":   func(f *trackertest.Fake) { f.NoteErr = boom },
		"update": func(f *trackertest.Fake) { f.UpdateErr = boom },
	}

	for name, inject := range cases {
		t.Run(name, func(t *testing.T) {
			fake := trackertest.New()
			fake.AddIssue(1, 1)
			fake.AddIssue(2, 1)
			fake.AddUser(1, jdoe)
			inject(fake)

			report, err := newOrchestrator(t, fake).Run(context.Background(), []models.Commit{
				commitBy("[#1 message=one]", "r1"),
				commitBy("[#2 message=two]", "r2"),
			})
			require.ErrorIs(t, err, boom)
			require.Zero(t, report.Commits)

			for _, c := range fake.Calls() {
				require.NotEqual(t, 2, c.IssueID, "second commit must not be touched")
			}
		})
	}
}

func TestRunCommitsWithoutDirectives(t *testing.T) {
	fake := trackertest.New()

	report, err := newOrchestrator(t, fake).Run(context.Background(), []models.Commit{
		commitBy("plain message", "r1"),
		commitBy("another [note]", "r2"),
	})
	require.NoError(t, err)
	require.Equal(t, 2, report.Commits)
	require.Empty(t, report.Outcomes)
	require.Empty(t, fake.Calls())
}
