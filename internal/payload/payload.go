// Package payload normalises the two Beanstalk hook payload shapes into an
// ordered list of commits.
package payload

import (
	"encoding/json"
	"strconv"
	"strings"

	"mantisbeanstalk/internal/models"
)

// Form fields carrying the hook JSON.
const (
	FieldCommit  = "commit"  // single-commit shape (svn)
	FieldPayload = "payload" // multi-commit shape (git)
)

// ValidationError reports a hook payload that cannot be processed at all.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid hook payload: " + e.Reason
}

func invalid(reason string) error {
	return &ValidationError{Reason: reason}
}

// Request is a decoded hook request.
type Request struct {
	Field   string
	Body    string
	Commits []models.Commit
}

// Revision returns the revision of a single-commit request, or "" otherwise.
func (r Request) Revision() string {
	if r.Field != FieldCommit || len(r.Commits) != 1 {
		return ""
	}
	return r.Commits[0].Revision
}

// FromForm picks the populated form field, undoes the `\"` escaping Beanstalk
// applies and normalises the JSON inside it.
func FromForm(commit, payload string) (Request, error) {
	req := Request{}

	switch {
	case commit != "":
		req.Field, req.Body = FieldCommit, commit
	case payload != "":
		req.Field, req.Body = FieldPayload, payload
	default:
		return req, invalid("could not find hook data in request")
	}

	req.Body = strings.ReplaceAll(req.Body, `\"`, `"`)

	commits, err := Normalize([]byte(req.Body))
	if err != nil {
		return req, err
	}
	req.Commits = commits

	return req, nil
}

// revision accepts either a JSON string or a JSON number.
type revision string

func (r *revision) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = revision(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*r = revision(n.String())

	return nil
}

type singleCommit struct {
	Message     *string  `json:"message"`
	Author      string   `json:"author"`
	AuthorEmail string   `json:"author_email"`
	Revision    revision `json:"revision"`
}

type multiCommit struct {
	ID      revision `json:"id"`
	Message *string  `json:"message"`
	Author  struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"author"`
}

// Normalize decodes a hook JSON document. A document with a "commits" field is
// the multi-commit shape, anything else is a single commit.
func Normalize(data []byte) ([]models.Commit, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, invalid("payload is not a JSON object")
	}

	if raw, ok := fields["commits"]; ok {
		return normalizeMulti(raw)
	}

	return normalizeSingle(data)
}

func normalizeSingle(data []byte) ([]models.Commit, error) {
	var sc singleCommit
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, invalid("malformed commit: " + err.Error())
	}

	if sc.Message == nil {
		return nil, invalid("missing commit message")
	}
	if *sc.Message == "" {
		return nil, invalid("empty commit message")
	}

	return []models.Commit{{
		Message: *sc.Message,
		Author: models.CommitAuthor{
			Name:  strings.TrimSpace(sc.Author),
			Email: strings.TrimSpace(sc.AuthorEmail),
		},
		Revision: strings.TrimSpace(string(sc.Revision)),
	}}, nil
}

func normalizeMulti(raw json.RawMessage) ([]models.Commit, error) {
	var mcs []multiCommit
	if err := json.Unmarshal(raw, &mcs); err != nil {
		return nil, invalid("malformed commits: " + err.Error())
	}

	if len(mcs) == 0 {
		return nil, invalid("no commits in payload")
	}

	commits := make([]models.Commit, 0, len(mcs))
	for i, mc := range mcs {
		if mc.Message == nil || *mc.Message == "" {
			return nil, invalid("commit " + mc.idOr(i) + " has no message")
		}

		commits = append(commits, models.Commit{
			Message: *mc.Message,
			Author: models.CommitAuthor{
				Name:  strings.TrimSpace(mc.Author.Name),
				Email: strings.TrimSpace(mc.Author.Email),
			},
			Revision: strings.TrimSpace(string(mc.ID)),
		})
	}

	return commits, nil
}

func (mc multiCommit) idOr(index int) string {
	if mc.ID != "" {
		return string(mc.ID)
	}
	return "#" + strconv.Itoa(index)
}
