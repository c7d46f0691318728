package beanstalkhooks

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"mantisbeanstalk/internal/audit"
	"mantisbeanstalk/internal/errmsg"
	"mantisbeanstalk/internal/events"
	"mantisbeanstalk/internal/models"
	"mantisbeanstalk/internal/orchestrator"
	"mantisbeanstalk/internal/payload"
	"mantisbeanstalk/internal/utils"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

const tokenQuery = "token"

// Handler turns hook requests into tracker updates and audits each request.
type Handler struct {
	Orchestrator *orchestrator.Orchestrator
	Audit        audit.Sink
	Events       *events.Emitter
	Logger       *zap.Logger

	// Token, when set, must be passed as the token query parameter.
	Token string

	now func() time.Time
}

// NewHandler returns a Handler; a nil sink disables auditing.
func NewHandler(o *orchestrator.Orchestrator, sink audit.Sink, logger *zap.Logger) *Handler {
	if sink == nil {
		sink = audit.Multi{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Handler{
		Orchestrator: o,
		Audit:        sink,
		Logger:       logger,
		now:          time.Now,
	}
}

// hookResponse is returned for a fully processed request.
type hookResponse struct {
	Commits  int                    `json:"commits"`
	Applied  int                    `json:"applied"`
	Skipped  int                    `json:"skipped"`
	Outcomes []orchestrator.Outcome `json:"outcomes"`
}

// commitsHandler applies the directives of a Beanstalk commit hook.
// @Summary Beanstalk commit hook
// @Description Reads the `commit` (single commit) or `payload` (commit list) form field and applies the bracketed directives of every commit message to the tracker.
// @Tags Mantis Hooks
// @Accept x-www-form-urlencoded
// @Produce json
// @Param commit formData string false "Single-commit hook JSON"
// @Param payload formData string false "Multi-commit hook JSON"
// @Param token query string false "Shared hook token"
// @Success 200 {object} hookResponse
// @Failure 400 {object} errmsg._HookInvalidPayload
// @Failure 401 {object} errmsg._HookTokenInvalid
// @Failure 409 {object} errmsg._HookProjectMismatch
// @Failure 422 {object} errmsg._HookUserNotFound
// @Failure 502 {object} errmsg._TrackerFailure
// @Router /mantis/beanstalk [post]
func (h *Handler) commitsHandler(c fiber.Ctx) error {
	if h.Token != "" {
		given := c.Query(tokenQuery)
		if subtle.ConstantTimeCompare([]byte(given), []byte(h.Token)) != 1 {
			return utils.StatusError(c, errmsg.HookTokenInvalid)
		}
	}

	ctx := c.RequestCtx()
	received := h.now()

	commitField := c.FormValue(payload.FieldCommit)
	payloadField := c.FormValue(payload.FieldPayload)

	var report orchestrator.Report
	req, err := payload.FromForm(commitField, payloadField)
	if err == nil {
		report, err = h.Orchestrator.Run(ctx, req.Commits)
	}

	h.audit(ctx, models.AuditRecord{
		ReceivedAt: received,
		Field:      req.Field,
		Revision:   req.Revision(),
		Raw:        rawRequest(commitField, payloadField, c.Body()),
		Outcome:    describe(report, err),
		Failed:     err != nil,
	})

	failure := ""
	if err != nil {
		failure = err.Error()
	}
	h.Events.HookReceived(req.Field, len(req.Commits), report.Applied(), report.Skipped(), failure)

	fields := []zap.Field{
		zap.String("field", req.Field),
		zap.Int("commits", len(req.Commits)),
		zap.Int("applied", report.Applied()),
		zap.Int("skipped", report.Skipped()),
	}

	if err != nil {
		h.Logger.Error("hook failed", append(fields, zap.Error(err))...)
		return utils.StatusError(c, statusFor(err))
	}

	h.Logger.Info("hook processed", fields...)

	return c.JSON(hookResponse{
		Commits:  report.Commits,
		Applied:  report.Applied(),
		Skipped:  report.Skipped(),
		Outcomes: report.Outcomes,
	})
}

// audit records the request. Failures are logged and never change the response.
func (h *Handler) audit(ctx context.Context, rec models.AuditRecord) {
	if err := h.Audit.Record(ctx, rec); err != nil {
		h.Logger.Error("audit write failed", zap.String("revision", rec.Revision), zap.Error(err))
	}
}

// statusFor maps a processing error onto the response catalogue.
func statusFor(err error) errmsg.StatusError {
	var (
		invalid  *payload.ValidationError
		mismatch *orchestrator.ProjectMismatchError
		noUser   *orchestrator.UserNotFoundError
	)

	switch {
	case errors.As(err, &invalid):
		return errmsg.HookInvalidPayload(invalid)
	case errors.As(err, &mismatch):
		return errmsg.HookProjectMismatch
	case errors.As(err, &noUser):
		return errmsg.HookUserNotFound
	default:
		return errmsg.TrackerFailure(err)
	}
}

func rawRequest(commit, payload string, body []byte) string {
	switch {
	case commit != "":
		return commit
	case payload != "":
		return payload
	default:
		return string(body)
	}
}

func describe(report orchestrator.Report, err error) string {
	var b strings.Builder

	if err != nil {
		fmt.Fprintf(&b, "failed: %v\n", err)
	}
	fmt.Fprintf(&b, "commits: %d, applied: %d, skipped: %d\n", report.Commits, report.Applied(), report.Skipped())

	for _, o := range report.Outcomes {
		if o.Applied {
			fmt.Fprintf(&b, "#%d (%s): applied\n", o.IssueID, o.Revision)
		} else {
			fmt.Fprintf(&b, "#%d (%s): skipped, %s\n", o.IssueID, o.Revision, o.Reason)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
