package anagram

import "math/rand/v2"

// Scramble returns a uniformly random permutation of word's runes.
// Words of length 0 or 1 come back unchanged. The result may equal the input.
func Scramble(word string) string {
	r := []rune(word)
	if len(r) <= 1 {
		return word
	}
	rand.Shuffle(len(r), func(i, j int) { r[i], r[j] = r[j], r[i] })
	return string(r)
}
