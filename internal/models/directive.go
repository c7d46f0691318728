package models

// Directive is one bracketed instruction found in a commit message, e.g.
// `[#123 status=resolved assign=jdoe tags=bug,ui]`. Empty string fields are unset.
type Directive struct {
	IssueID    int      `json:"issueId"`
	Status     string   `json:"status,omitempty"`
	Priority   string   `json:"priority,omitempty"`
	Resolution string   `json:"resolution,omitempty"`
	Severity   string   `json:"severity,omitempty"`
	AssignTo   string   `json:"assignTo,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Note       string   `json:"note,omitempty"`
}
