package services

import (
	"strconv"
	"strings"
)

// parseNumberedList splits a model response into exactly want translations.
// The grammar is strict: one "N. text" (or "N) text") line per input, in
// ascending order starting at 1. Blank lines are ignored. Any deviation
// returns a *ParseError so the caller can retry at batch size one instead
// of guessing at a partial mapping.
func parseNumberedList(response string, want int) ([]string, error) {
	results := make([]string, 0, want)

	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		number, text, ok := splitNumberedLine(line)
		if !ok {
			return nil, &ParseError{Expected: want, Got: len(results), Line: line}
		}
		if number != len(results)+1 {
			return nil, &ParseError{Expected: want, Got: len(results), Line: line}
		}
		if len(results) == want {
			return nil, &ParseError{Expected: want, Got: len(results) + 1, Line: line}
		}
		results = append(results, text)
	}

	if len(results) != want {
		return nil, &ParseError{Expected: want, Got: len(results)}
	}
	return results, nil
}

// splitNumberedLine parses "12. translated text" into (12, "translated text").
func splitNumberedLine(line string) (int, string, bool) {
	sep := strings.IndexAny(line, ".)")
	if sep <= 0 {
		return 0, "", false
	}
	number, err := strconv.Atoi(strings.TrimSpace(line[:sep]))
	if err != nil {
		return 0, "", false
	}
	text := strings.TrimSpace(line[sep+1:])
	if text == "" {
		return 0, "", false
	}
	return number, text, true
}
