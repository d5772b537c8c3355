// internal/game/snapshot.go
//
// Save/load support for a session.
//   - Snapshot: copy the persistable fields (score, clock, word, progress).
//   - Restore:  rebuild a live session from a saved snapshot, repairing an
//               invalid arrangement and ending a session with no time left.

package game

import (
	"time"

	"github.com/robalobadob/unscrambler/internal/anagram"
	"github.com/robalobadob/unscrambler/internal/words"
)

// Snapshot captures the persistable fields of the session.
// A pending dictionary check is not saved; the guess is simply lost.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Score:           s.score,
		TimeRemainingMs: s.remaining.Milliseconds(),
		WordLength:      s.length,
		Level:           s.solved,
		TotalGuesses:    s.guesses,
		SavedAt:         time.Now().UTC(),
	}
	if s.current != nil {
		snap.OriginalWord = s.current.Original
		snap.ScrambledWord = s.current.Scrambled
	}
	return snap
}

// Restore rebuilds a session from a snapshot. An arrangement that is not a
// permutation of the saved word is replaced by a fresh scramble.
func Restore(id string, src words.Source, cfg Config, snap Snapshot) *Session {
	s := newSession(id, src, cfg)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.score = snap.Score
	s.remaining = time.Duration(max(snap.TimeRemainingMs, 0)) * time.Millisecond
	s.solved = max(snap.Level, 0)
	s.guesses = max(snap.TotalGuesses, s.solved)
	if snap.WordLength > 0 {
		s.length = min(snap.WordLength, s.cfg.MaxLength)
		s.buf.SetLength(s.length)
	}

	if s.remaining == 0 {
		s.endLocked()
		return s
	}
	if snap.OriginalWord != "" {
		p := Pair{Original: snap.OriginalWord, Scrambled: snap.ScrambledWord}
		if !anagram.IsAnagram(p.Scrambled, p.Original) {
			p.Scrambled = anagram.Scramble(p.Original)
		}
		s.current = &p
		s.state = StateActive
		return s
	}
	s.pullLocked()
	return s
}
