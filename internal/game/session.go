// internal/game/session.go
//
// Core engine for a single timed unscramble session.
// Responsibilities:
//   - Pull words from the Buffer without ever blocking the caller.
//   - Judge guesses: exact match first, then anagram + dictionary check.
//   - Apply rewards/penalties to score and clock; escalate word length.
//   - Track state transitions: awaiting_word → active ⇄ validating → ended.
//
// Notes:
//   - Dictionary checks run in a goroutine; the verdict is applied on the next
//     Tick (or Wait), so SubmitGuess returns immediately.
//   - mu guards every field below it and is never held across network I/O.
//   - Matching is exact and case-sensitive; callers normalize input.
package game

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/robalobadob/unscrambler/internal/anagram"
	"github.com/robalobadob/unscrambler/internal/words"
)

// Session is one player's game.
type Session struct {
	ID    string
	Owner string // user or anonymous id, set by the caller

	cfg    Config
	src    words.Source
	buf    *Buffer
	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	state      State
	score      uint
	remaining  time.Duration
	length     int
	solved     int
	guesses    int
	current    *Pair
	history    []Guess
	last       Verdict
	check      *dictCheck
	observedAt time.Time
	recorded   bool
}

// dictCheck is an outstanding dictionary lookup. valid is written by the
// lookup goroutine before done is closed.
type dictCheck struct {
	guess string
	pair  Pair
	valid bool
	done  chan struct{}
}

// NewSession starts a session and kicks off the first word fetch.
func NewSession(id string, src words.Source, cfg Config) *Session {
	s := newSession(id, src, cfg)
	s.mu.Lock()
	s.pullLocked()
	s.mu.Unlock()
	return s
}

func newSession(id string, src words.Source, cfg Config) *Session {
	cfg = cfg.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		ID:     id,
		cfg:    cfg,
		src:    src,
		ctx:    ctx,
		cancel: cancel,
		buf: NewBuffer(src, BufferOptions{
			Length:      cfg.InitialLength,
			MaxLength:   cfg.MaxLength,
			BatchSize:   cfg.BatchSize,
			GrowOnDrain: cfg.Escalation == EscalateOnDrain,
		}),
		state:      StateAwaitingWord,
		remaining:  cfg.InitialTime,
		length:     cfg.InitialLength,
		history:    []Guess{},
		observedAt: time.Now(),
	}
}

// SubmitGuess judges text against the current word.
//
//   - exact match           → correct, applied immediately
//   - not an anagram        → incorrect, applied immediately (no network)
//   - anagram of the answer → dictionary check dispatched, VerdictPending
//
// Empty guesses, guesses with no word on screen, guesses while a check is
// outstanding and guesses after the clock ran out are ignored.
func (s *Session) SubmitGuess(text string) Verdict {
	text = strings.TrimSpace(text)

	s.mu.Lock()
	defer s.mu.Unlock()
	if text == "" || s.state != StateActive || s.current == nil {
		return VerdictIgnored
	}
	pair := *s.current
	if text == pair.Original {
		s.correctLocked(text)
		return VerdictCorrect
	}
	if !anagram.IsAnagram(text, pair.Original) {
		s.incorrectLocked(text)
		return VerdictIncorrect
	}

	dc := &dictCheck{guess: text, pair: pair, done: make(chan struct{})}
	s.check = dc
	s.state = StateValidating
	s.last = VerdictPending
	go func(ctx context.Context) {
		dc.valid = s.src.CheckDictionary(ctx, dc.guess)
		close(dc.done)
	}(s.ctx)
	return VerdictPending
}

// Tick advances the clock by d, applies a finished dictionary verdict and
// pulls a new word when one is needed. Ended sessions ignore ticks.
func (s *Session) Tick(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickLocked(d)
}

// Observe ticks by the wall-clock time elapsed since the previous Observe
// (or since the session was created).
func (s *Session) Observe(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := now.Sub(s.observedAt)
	if d < 0 {
		d = 0
	}
	s.observedAt = now
	s.tickLocked(d)
}

func (s *Session) tickLocked(d time.Duration) {
	if s.state == StateEnded {
		return
	}
	s.collectLocked()
	if s.state == StateEnded {
		return
	}
	if d > 0 {
		s.spendLocked(d)
		if s.state == StateEnded {
			return
		}
	}
	s.pullLocked()
}

// Wait blocks until the background step the session is waiting on (a word
// refill or a dictionary check) completes, then applies it. It returns
// immediately when nothing is outstanding.
func (s *Session) Wait(ctx context.Context) error {
	s.mu.Lock()
	var ch <-chan struct{}
	switch {
	case s.state == StateValidating && s.check != nil:
		ch = s.check.done
	case s.state == StateAwaitingWord:
		ch = s.buf.Ready()
	}
	s.mu.Unlock()
	if ch == nil {
		return nil
	}

	select {
	case <-ch:
		s.Tick(0)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// collectLocked applies a finished dictionary verdict, discarding stale ones.
func (s *Session) collectLocked() {
	dc := s.check
	if dc == nil {
		return
	}
	select {
	case <-dc.done:
	default:
		return
	}
	s.check = nil
	if s.state != StateValidating || s.current == nil || *s.current != dc.pair {
		return
	}
	s.state = StateActive
	if dc.valid {
		s.correctLocked(dc.guess)
	} else {
		s.incorrectLocked(dc.guess)
	}
}

// pullLocked moves awaiting_word → active when the buffer has a word.
func (s *Session) pullLocked() {
	if s.state != StateAwaitingWord {
		return
	}
	p, ok := s.buf.TryTake()
	if !ok {
		return
	}
	s.current = &p
	s.state = StateActive
	if s.cfg.Escalation == EscalateOnDrain {
		s.length = max(s.length, s.buf.Length())
	}
}

func (s *Session) correctLocked(text string) {
	s.score += s.cfg.CorrectReward
	s.remaining += s.cfg.TimeBonus
	s.solved++
	s.guesses++
	s.history = append(s.history, Guess{Text: text, Correct: true})
	s.last = VerdictCorrect
	s.current = nil
	s.state = StateAwaitingWord

	if s.cfg.Escalation == EscalateEveryK && s.solved%s.cfg.LengthStep == 0 && s.length < s.cfg.MaxLength {
		s.length++
		s.buf.SetLength(s.length)
	}
	s.pullLocked()
}

func (s *Session) incorrectLocked(text string) {
	if s.score >= s.cfg.IncorrectPenalty {
		s.score -= s.cfg.IncorrectPenalty
	} else {
		s.score = 0
	}
	s.guesses++
	s.history = append(s.history, Guess{Text: text, Correct: false})
	s.last = VerdictIncorrect
	if s.cfg.RescrambleOnMiss && s.current != nil {
		s.current.Scrambled = anagram.Scramble(s.current.Original)
	}
	s.spendLocked(s.cfg.TimePenalty)
}

// spendLocked takes d off the clock, ending the session at zero.
func (s *Session) spendLocked(d time.Duration) {
	if d >= s.remaining {
		s.remaining = 0
		s.endLocked()
		return
	}
	s.remaining -= d
}

func (s *Session) endLocked() {
	s.state = StateEnded
	s.check = nil
	s.cancel()
	s.buf.Close()
}

// Close ends the session and releases its background work.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateEnded {
		s.endLocked()
	}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Ended reports whether the clock has run out.
func (s *Session) Ended() bool { return s.State() == StateEnded }

// Display builds the per-frame view.
func (s *Session) Display() DisplayState {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := DisplayState{
		State:           s.state,
		Letters:         []string{},
		TimeRemainingMs: s.remaining.Milliseconds(),
		Score:           s.score,
		WordLength:      s.length,
		Loading:         s.state == StateAwaitingWord,
		LastVerdict:     s.last,
		History:         append([]Guess(nil), s.history...),
	}
	if s.current != nil && s.state != StateEnded {
		d.Scrambled = s.current.Scrambled
		d.Letters = strings.Split(s.current.Scrambled, "")
	}
	if d.History == nil {
		d.History = []Guess{}
	}
	return d
}

// Result summarizes the session. It stays valid after the session ends.
func (s *Session) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := Result{Score: s.score, WordsSolved: s.solved, Guesses: s.guesses}
	if s.guesses > 0 {
		r.GuessRatio = float64(s.solved) / float64(s.guesses)
	}
	return r
}

// MarkRecorded returns true exactly once, the first time it is called on an
// ended session. Callers use it to persist results a single time.
func (s *Session) MarkRecorded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateEnded || s.recorded {
		return false
	}
	s.recorded = true
	return true
}
