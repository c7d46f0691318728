// Package orchestrator applies the directives found in hook commits to the tracker.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mantisbeanstalk/internal/directive"
	"mantisbeanstalk/internal/models"
	"mantisbeanstalk/internal/tracker"

	"go.uber.org/zap"
)

// noteSeparator precedes the revision footer appended to every note.
var noteSeparator = strings.Repeat("-", 20)

// ReasonIssueNotFound is the Outcome.Reason of a directive naming an unknown issue.
const ReasonIssueNotFound = "issue not found"

// Recorder receives one call per processed directive.
type Recorder interface {
	DirectiveApplied(revision string, d models.Directive)
	DirectiveSkipped(revision string, d models.Directive, reason string)
}

// Outcome is the result of one directive that did not abort the request.
type Outcome struct {
	Revision string `json:"revision"`
	IssueID  int    `json:"issueId"`
	Applied  bool   `json:"applied"`
	Reason   string `json:"reason,omitempty"`
}

// Report summarises a processed request.
type Report struct {
	Commits  int       `json:"commits"`
	Outcomes []Outcome `json:"outcomes"`
}

// Applied counts the directives written to the tracker.
func (r Report) Applied() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Applied {
			n++
		}
	}
	return n
}

// Skipped counts the directives that were passed over.
func (r Report) Skipped() int {
	return len(r.Outcomes) - r.Applied()
}

// Orchestrator applies directives commit by commit, in payload order.
type Orchestrator struct {
	tracker  tracker.Client
	parser   directive.Parser
	logger   *zap.Logger
	recorder Recorder
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRecorder sets the recorder notified about every directive.
func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

// New creates an Orchestrator writing through client.
func New(client tracker.Client, parser directive.Parser, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		tracker: client,
		parser:  parser,
		logger:  zap.NewNop(),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Run processes commits in order. The first fatal error stops processing;
// tracker changes made before it stay in place and the partial report is
// returned with the error.
func (o *Orchestrator) Run(ctx context.Context, commits []models.Commit) (Report, error) {
	var (
		report Report
		bound  project
	)

	for _, commit := range commits {
		next, outcomes, err := o.processCommit(ctx, bound, commit)
		report.Outcomes = append(report.Outcomes, outcomes...)
		if err != nil {
			return report, err
		}

		bound = next
		report.Commits++
	}

	return report, nil
}

func (o *Orchestrator) processCommit(ctx context.Context, bound project, commit models.Commit) (project, []Outcome, error) {
	directives := o.parser.Extract(commit.Message)
	if len(directives) == 0 {
		o.logger.Debug("commit carries no directives", zap.String("revision", commit.Revision))
		return bound, nil, nil
	}

	outcomes := make([]Outcome, 0, len(directives))
	for _, d := range directives {
		next, outcome, err := o.apply(ctx, bound, commit, d)
		if err != nil {
			o.logger.Error("directive failed",
				zap.String("revision", commit.Revision),
				zap.Int("issue", d.IssueID),
				zap.Error(err),
			)
			return bound, outcomes, err
		}

		bound = next
		outcomes = append(outcomes, outcome)
		o.record(commit.Revision, d, outcome)
	}

	return bound, outcomes, nil
}

// apply runs the update sequence for one directive. Recoverable conditions
// come back as a skipped Outcome, fatal ones as an error.
func (o *Orchestrator) apply(ctx context.Context, bound project, commit models.Commit, d models.Directive) (project, Outcome, error) {
	outcome := Outcome{Revision: commit.Revision, IssueID: d.IssueID}

	issue, err := o.tracker.FetchIssue(ctx, d.IssueID)
	if errors.Is(err, tracker.ErrNotFound) {
		outcome.Reason = ReasonIssueNotFound
		return bound, outcome, nil
	}
	if err != nil {
		return bound, outcome, fmt.Errorf("fetch issue #%d: %w", d.IssueID, err)
	}

	bound, err = bound.bind(issue)
	if err != nil {
		return bound, outcome, err
	}

	user, err := o.resolveAuthor(ctx, bound.id, commit.Author)
	if err != nil {
		return bound, outcome, err
	}

	if err := o.mutate(ctx, bound.id, issue, d); err != nil {
		return bound, outcome, err
	}

	if text := noteText(d.Note, commit.Revision); text != "" {
		note := tracker.Note{Text: text, Reporter: user.Ref()}
		if err := o.tracker.AddNote(ctx, d.IssueID, note); err != nil {
			return bound, outcome, fmt.Errorf("add note to issue #%d: %w", d.IssueID, err)
		}
	}

	if err := o.tracker.UpdateIssue(ctx, d.IssueID, issue); err != nil {
		return bound, outcome, fmt.Errorf("update issue #%d: %w", d.IssueID, err)
	}

	outcome.Applied = true
	return bound, outcome, nil
}

// resolveAuthor finds the tracker account of the commit author, by email
// first and display name second.
func (o *Orchestrator) resolveAuthor(ctx context.Context, projectID int, author models.CommitAuthor) (*tracker.User, error) {
	if author.Email != "" {
		user, err := o.tracker.FindUserByEmail(ctx, projectID, author.Email)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, tracker.ErrNotFound) {
			return nil, fmt.Errorf("find user by email: %w", err)
		}
	}

	user, err := o.tracker.FindUserByName(ctx, projectID, author.Name)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, tracker.ErrNotFound) {
		return nil, fmt.Errorf("find user by name: %w", err)
	}

	return nil, &UserNotFoundError{ProjectID: projectID, Name: author.Name, Email: author.Email}
}

// mutate applies the directive's field changes to the fetched issue.
func (o *Orchestrator) mutate(ctx context.Context, projectID int, issue *tracker.Issue, d models.Directive) error {
	if d.AssignTo != "" {
		handler, err := o.tracker.FindUserByName(ctx, projectID, d.AssignTo)
		switch {
		case err == nil:
			issue.Handler = handler.Ref()
		case errors.Is(err, tracker.ErrNotFound):
			o.logger.Debug("assignee not found, handler unchanged",
				zap.Int("issue", d.IssueID),
				zap.String("assign", d.AssignTo),
			)
		default:
			return fmt.Errorf("find assignee %q: %w", d.AssignTo, err)
		}
	}

	if ref := tracker.Named(d.Status); ref != nil {
		issue.Status = ref
	}
	if ref := tracker.Named(d.Priority); ref != nil {
		issue.Priority = ref
	}
	if ref := tracker.Named(d.Severity); ref != nil {
		issue.Severity = ref
	}
	if ref := tracker.Named(d.Resolution); ref != nil {
		issue.Resolution = ref
	}

	if len(d.Tags) > 0 {
		issue.AddTags(d.Tags)
	}

	return nil
}

// noteText appends the revision footer to note. Blank notes yield "".
func noteText(note, revision string) string {
	if strings.TrimSpace(note) == "" {
		return ""
	}

	if revision == "" {
		return note
	}

	return note + "\n\n" + noteSeparator + "\n" + "revision: " + revision
}

func (o *Orchestrator) record(revision string, d models.Directive, outcome Outcome) {
	if outcome.Applied {
		o.logger.Info("directive applied", zap.String("revision", revision), zap.Int("issue", d.IssueID))
	} else {
		o.logger.Debug("directive skipped",
			zap.String("revision", revision),
			zap.Int("issue", d.IssueID),
			zap.String("reason", outcome.Reason),
		)
	}

	if o.recorder == nil {
		return
	}

	if outcome.Applied {
		o.recorder.DirectiveApplied(revision, d)
	} else {
		o.recorder.DirectiveSkipped(revision, d, outcome.Reason)
	}
}
