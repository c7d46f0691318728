package directive

import (
	"strings"

	"mantisbeanstalk/internal/models"
)

// Keys understood inside a directive. Anything else is ignored.
const (
	keyStatus     = "status"
	keyPriority   = "priority"
	keyResolution = "resolution"
	keySeverity   = "severity"
	keyAssign     = "assign"
	keyTags       = "tags"
	keyMessage    = "message"
)

// Parser turns directive text into models.Directive values.
type Parser struct {
	// LegacyPriority writes the priority value into Status, the way existing
	// directive users have always seen it behave. Disable to set Priority instead.
	LegacyPriority bool
}

// NewParser returns a Parser with the legacy priority behaviour enabled.
func NewParser() Parser {
	return Parser{LegacyPriority: true}
}

// Pairs folds tokens two at a time into a key/value map: tokens[0] is a key,
// tokens[1] its value and so on. The last value for a repeated key wins and
// an unpaired trailing key is dropped.
func Pairs(tokens []string) map[string]string {
	fields := make(map[string]string, len(tokens)/2)
	for i := 0; i+1 < len(tokens); i += 2 {
		fields[tokens[i]] = tokens[i+1]
	}
	return fields
}

// Build creates the directive for issueID from its tokens. defaultNote is used
// when the tokens carry no message key.
func (p Parser) Build(issueID int, tokens []string, defaultNote string) models.Directive {
	fields := Pairs(tokens)

	d := models.Directive{
		IssueID: issueID,
		Note:    defaultNote,
	}

	if v, ok := fields[keyStatus]; ok {
		d.Status = v
	}
	if v, ok := fields[keyPriority]; ok {
		if p.LegacyPriority {
			d.Status = v
		} else {
			d.Priority = v
		}
	}
	if v, ok := fields[keyResolution]; ok {
		d.Resolution = v
	}
	if v, ok := fields[keySeverity]; ok {
		d.Severity = v
	}
	if v, ok := fields[keyAssign]; ok {
		d.AssignTo = v
	}
	if v, ok := fields[keyTags]; ok {
		d.Tags = strings.Split(v, ",")
	}
	if v, ok := fields[keyMessage]; ok {
		d.Note = v
	}

	return d
}
