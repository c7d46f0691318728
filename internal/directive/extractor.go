package directive

import (
	"regexp"
	"strconv"
	"strings"

	"mantisbeanstalk/internal/models"
)

var (
	// spanPattern finds candidate spans; the first ']' closes a span.
	spanPattern = regexp.MustCompile(`\[#.*?\]`)
	// bodyPattern requires the issue id digits directly after "[#".
	bodyPattern = regexp.MustCompile(`\[#(\d+)(.*?)\]`)
)

type span struct {
	text    string
	issueID int
	body    string
}

// Extract returns the directives found in message, in order of appearance.
// Spans without a positive issue id right after "[#" are skipped silently.
//
// A directive without an explicit message key gets the commit message with
// every directive span of that message removed as its note.
func (p Parser) Extract(message string) []models.Directive {
	spans := findSpans(message)
	if len(spans) == 0 {
		return nil
	}

	note := message
	for _, s := range spans {
		note = strings.ReplaceAll(note, s.text, "")
	}

	directives := make([]models.Directive, 0, len(spans))
	for _, s := range spans {
		directives = append(directives, p.Build(s.issueID, Tokenize(s.body), note))
	}

	return directives
}

func findSpans(message string) []span {
	var spans []span

	for _, candidate := range spanPattern.FindAllString(message, -1) {
		m := bodyPattern.FindStringSubmatch(candidate)
		if m == nil {
			continue
		}

		id, err := strconv.Atoi(m[1])
		if err != nil || id <= 0 {
			continue
		}

		spans = append(spans, span{text: m[0], issueID: id, body: m[2]})
	}

	return spans
}
