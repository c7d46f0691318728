package events

import (
	"strconv"

	"mantisbeanstalk/internal/models"
)

// HookReceived records one processed hook request.
func (e *Emitter) HookReceived(field string, commits, applied, skipped int, failure string) {
	if e == nil {
		return
	}

	props := map[string]any{
		"field":   field,
		"commits": commits,
		"applied": applied,
		"skipped": skipped,
	}
	if failure != "" {
		props["error"] = failure
	}

	e.Emit(models.Event{
		Action: "hook.received",

		ActorRole: ActorSystem,
		ActorID:   field,

		TargetType: TargetHook,
		TargetID:   field,

		Props: props,
	})
}

// DirectiveApplied records a directive written to the tracker.
func (e *Emitter) DirectiveApplied(revision string, d models.Directive) {
	if e == nil {
		return
	}

	e.Emit(directiveEvent("directive.applied", revision, d, nil))
}

// DirectiveSkipped records a directive passed over for reason.
func (e *Emitter) DirectiveSkipped(revision string, d models.Directive, reason string) {
	if e == nil {
		return
	}

	e.Emit(directiveEvent("directive.skipped", revision, d, map[string]any{"reason": reason}))
}

func directiveEvent(action, revision string, d models.Directive, extra map[string]any) models.Event {
	props := map[string]any{
		"revision": revision,
		"status":   d.Status,
		"priority": d.Priority,
		"assignTo": d.AssignTo,
		"tags":     d.Tags,
	}
	for k, v := range extra {
		props[k] = v
	}

	return models.Event{
		Action: action,

		ActorRole: ActorAuthor,
		ActorID:   revision,

		TargetType: TargetIssue,
		TargetID:   strconv.Itoa(d.IssueID),

		Props: props,
	}
}
