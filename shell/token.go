// Package shell implements the interactive command layer over the
// wrapper API: a read-eval-print loop with a fixed verb registry,
// relative path resolution and a recursive find engine.
package shell

import (
	"errors"
	"strings"
)

// ErrUnterminatedQuote reports a line with an unclosed double quote.
var ErrUnterminatedQuote = errors.New("unterminated quote")

// Tokenize splits a command line on whitespace. Double quotes delimit
// terms that may contain whitespace; inside quotes a backslash escapes a
// quote or another backslash, everything else is literal.
func Tokenize(line string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	inQuote := false
	started := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case inQuote:
			if c == '\\' && i+1 < len(line) && (line[i+1] == '"' || line[i+1] == '\\') {
				i++
				cur.WriteByte(line[i])
				continue
			}
			if c == '"' {
				inQuote = false
				continue
			}
			cur.WriteByte(c)

		case c == '"':
			inQuote = true
			started = true

		case c == ' ' || c == '\t':
			if started {
				tokens = append(tokens, cur.String())
				cur.Reset()
				started = false
			}

		default:
			started = true
			cur.WriteByte(c)
		}
	}

	if inQuote {
		return nil, ErrUnterminatedQuote
	}
	if started {
		tokens = append(tokens, cur.String())
	}
	return tokens, nil
}
