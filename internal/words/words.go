// internal/words/words.go
//
// Offline Source backed by a local word list.
//
// Loading behavior (LoadEmbedded):
//   1. If path is set (WORDS_FILE), read one word per line from that file.
//   2. Otherwise fall back to the list embedded in the assets package.
//
// Constraints:
//   • Words must be alphabetic (a–z) and at least minWordLength letters.
//   • Lists are normalized to lowercase and de-duplicated.
//   • The loaded list is immutable; Embedded is safe for concurrent use.

package words

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/robalobadob/unscrambler/assets"
)

const minWordLength = 2

// Embedded serves words and dictionary checks from an in-memory list.
type Embedded struct {
	byLength map[int][]string
	set      map[string]struct{}
}

// LoadEmbedded reads the word list at path, or the embedded default when path is empty.
func LoadEmbedded(path string) (*Embedded, error) {
	var (
		list []string
		err  error
	)
	if path != "" {
		list, err = readWordFile(path)
	} else {
		list, err = assets.WordList()
	}
	if err != nil {
		return nil, fmt.Errorf("load word list: %w", err)
	}
	e := NewEmbedded(list)
	if len(e.set) == 0 {
		return nil, errors.New("words: word list is empty")
	}
	return e, nil
}

// NewEmbedded builds an Embedded source from list. Invalid entries are skipped.
func NewEmbedded(list []string) *Embedded {
	e := &Embedded{
		byLength: make(map[int][]string),
		set:      make(map[string]struct{}, len(list)),
	}
	for _, w := range normalize(list) {
		if _, dup := e.set[w]; dup {
			continue
		}
		e.set[w] = struct{}{}
		e.byLength[len(w)] = append(e.byLength[len(w)], w)
	}
	return e
}

// FetchWords picks up to count distinct random words of the given length.
func (e *Embedded) FetchWords(ctx context.Context, count, length int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	pool := e.byLength[length]
	if len(pool) == 0 || count <= 0 {
		return nil, fmt.Errorf("%w: no %d-letter words", ErrEmptyResult, length)
	}
	if count > len(pool) {
		count = len(pool)
	}
	out := make([]string, 0, count)
	for _, i := range rand.Perm(len(pool))[:count] {
		out = append(out, pool[i])
	}
	return out, nil
}

// CheckDictionary reports whether word is in the list.
func (e *Embedded) CheckDictionary(_ context.Context, word string) bool {
	_, ok := e.set[strings.ToLower(strings.TrimSpace(word))]
	return ok
}

// Stats returns the number of words and the longest available length.
func (e *Embedded) Stats() (count int, maxLength int) {
	for n := range e.byLength {
		if n > maxLength {
			maxLength = n
		}
	}
	return len(e.set), maxLength
}

// readWordFile loads one word per line from a file.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		out = append(out, sc.Text())
	}
	return out, sc.Err()
}

// normalize lowercases, trims and filters a raw list, skipping comments.
func normalize(list []string) []string {
	out := make([]string, 0, len(list))
	for _, line := range list {
		w := strings.TrimSpace(strings.ToLower(line))
		if strings.HasPrefix(w, "#") {
			continue
		}
		if len(w) >= minWordLength && isAlpha(w) {
			out = append(out, w)
		}
	}
	return out
}
