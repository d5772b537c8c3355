package words

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// degraded strips the JSON punctuation a naive text read leaves behind.
var degraded = strings.NewReplacer("[", "", "]", "", `"`, "")

// ParseWordList decodes a word-list payload.
//
// The happy path is a JSON array of strings. Anything else is treated as a
// bracketed, comma-separated text payload and sanitized. Every resulting
// word must be purely alphabetic; one bad entry fails the whole payload with
// ErrParse so a half-garbled batch never reaches the player.
func ParseWordList(body []byte) ([]string, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrParse)
	}

	var raw []string
	if err := json.Unmarshal(body, &raw); err != nil {
		raw = strings.Split(degraded.Replace(string(body)), ",")
	}

	out := make([]string, 0, len(raw))
	for _, w := range raw {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if !isAlpha(w) {
			return nil, fmt.Errorf("%w: unexpected token %q", ErrParse, w)
		}
		out = append(out, w)
	}
	if len(out) == 0 {
		return nil, ErrEmptyResult
	}
	return out, nil
}
