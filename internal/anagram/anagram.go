// internal/anagram/anagram.go
//
// Letter-multiset helpers shared by the word buffer and the session engine.
//   - IsAnagram: exact rune-multiset comparison (case-sensitive).
//   - Scramble:  random permutation of a word's runes.
package anagram

import "slices"

// IsAnagram reports whether a and b contain exactly the same runes with the
// same multiplicities. Matching is case-sensitive; two empty strings match.
func IsAnagram(a, b string) bool {
	ra, rb := []rune(a), []rune(b)
	if len(ra) != len(rb) {
		return false
	}
	slices.Sort(ra)
	slices.Sort(rb)
	return slices.Equal(ra, rb)
}
