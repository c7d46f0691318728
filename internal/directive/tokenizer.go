// Package directive extracts and parses the bracketed issue directives embedded
// in commit messages, e.g. `[#123 status=resolved assign="J Doe" tags=bug,ui]`.
package directive

import (
	"regexp"
	"strings"
)

// whitespaceRun matches the runs collapsed to a single space before scanning.
var whitespaceRun = regexp.MustCompile(`\s{2,}`)

// Tokenize splits a directive body (the text between the issue id and the
// closing bracket) into ordered raw tokens.
//
// Unquoted spaces and '=' end the current token. A '"' toggles quoting and is
// dropped; inside quotes spaces are kept but '=' still ends the token. Tokens are
// emitted unconditionally, empty ones included, so keys and values stay paired by
// position. An unterminated quote runs to the end of the body.
func Tokenize(body string) []string {
	body = whitespaceRun.ReplaceAllString(strings.TrimSpace(body), " ") + "]"

	var (
		tokens   []string
		current  strings.Builder
		inQuotes bool
	)

	emit := func() {
		tokens = append(tokens, current.String())
		current.Reset()
	}

	for _, r := range body {
		switch {
		case r == '=':
			emit()
		case r == '"':
			inQuotes = !inQuotes
		case r == ' ' && inQuotes:
			current.WriteRune(r)
		case r == ' ' || r == ']':
			emit()
		default:
			current.WriteRune(r)
		}
	}

	return tokens
}
