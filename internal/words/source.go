// internal/words/source.go
//
// Word supply contract for the game engine.
//
// A Source hands out batches of candidate words of a given length and answers
// "is this a dictionary word?". Two implementations live in this package:
//   - Client:   remote word-list + dictionary HTTP APIs.
//   - Embedded: offline list compiled into the binary (or read from WORDS_FILE).
//
// Failure policy:
//   - FetchWords reports ErrNetwork / ErrParse / ErrEmptyResult (wrapped with %w).
//     Callers treat every one of them as "no data yet, retry later".
//   - CheckDictionary never fails; any problem reaching the dictionary is "not found".

package words

import (
	"context"
	"errors"
)

var (
	// ErrNetwork covers transport failures and non-200 responses.
	ErrNetwork = errors.New("words: network error")
	// ErrParse means the provider answered with a body we could not trust.
	ErrParse = errors.New("words: malformed response")
	// ErrEmptyResult means the provider returned zero usable words.
	ErrEmptyResult = errors.New("words: empty result")
)

// Source supplies candidate words and validates guesses.
type Source interface {
	// FetchWords returns up to count lowercase words of exactly length letters.
	FetchWords(ctx context.Context, count, length int) ([]string, error)

	// CheckDictionary reports whether word is a known dictionary word.
	CheckDictionary(ctx context.Context, word string) bool
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
