// internal/game/types.go
//
// Core type definitions for the unscramble engine.
// Defines:
//   - Pair:         scrambled/original word shown to the player.
//   - State:        session lifecycle (awaiting_word → active → validating → ended).
//   - Guess:        one history entry.
//   - Config:       tunables (rewards, penalties, difficulty progression).
//   - DisplayState: per-tick view handed to the rendering layer.
//   - Snapshot:     serializable save-game shape.

package game

import "time"

// Pair is the word currently in play. Scrambled is always a permutation of Original.
type Pair struct {
	Scrambled string `json:"scrambled"`
	Original  string `json:"original"`
}

// State is the coarse session state.
type State string

const (
	StateAwaitingWord State = "awaiting_word" // no word yet, refill pending
	StateActive       State = "active"        // word shown, accepting guesses
	StateValidating   State = "validating"    // dictionary check outstanding
	StateEnded        State = "ended"         // time expired, read-only
)

// Verdict is the outcome of a single guess.
type Verdict string

const (
	VerdictCorrect   Verdict = "correct"
	VerdictIncorrect Verdict = "incorrect"
	VerdictPending   Verdict = "pending" // dictionary check dispatched
	VerdictIgnored   Verdict = "ignored" // empty guess, no word, busy or ended
)

// Guess is one entry of the guess history.
type Guess struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Escalation selects how word length grows over a session.
type Escalation string

const (
	// EscalateEveryK adds one letter after every LengthStep correct answers.
	EscalateEveryK Escalation = "correct"
	// EscalateOnDrain adds one letter whenever the buffer hands out its last word.
	EscalateOnDrain Escalation = "drain"
)

// Config holds the session tunables.
type Config struct {
	InitialTime      time.Duration
	InitialLength    int
	MaxLength        int
	CorrectReward    uint
	IncorrectPenalty uint
	TimeBonus        time.Duration
	TimePenalty      time.Duration

	// LengthStep is k: correct answers needed per extra letter (EscalateEveryK).
	LengthStep int
	Escalation Escalation

	// BatchSize is how many words one buffer refill asks for.
	BatchSize int

	// RescrambleOnMiss shows a fresh arrangement after a wrong guess instead
	// of restoring the previous one.
	RescrambleOnMiss bool
}

// DefaultLengthStep is k when nothing else is configured.
const DefaultLengthStep = 4

// DefaultConfig returns the standard game rules.
func DefaultConfig() Config {
	return Config{
		InitialTime:      60 * time.Second,
		InitialLength:    4,
		MaxLength:        15,
		CorrectReward:    10,
		IncorrectPenalty: 5,
		TimeBonus:        5 * time.Second,
		TimePenalty:      5 * time.Second,
		LengthStep:       DefaultLengthStep,
		Escalation:       EscalateEveryK,
		BatchSize:        5,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.InitialTime <= 0 {
		c.InitialTime = d.InitialTime
	}
	if c.InitialLength <= 0 {
		c.InitialLength = d.InitialLength
	}
	if c.MaxLength < c.InitialLength {
		c.MaxLength = max(d.MaxLength, c.InitialLength)
	}
	if c.LengthStep <= 0 {
		c.LengthStep = d.LengthStep
	}
	if c.Escalation == "" {
		c.Escalation = d.Escalation
	}
	if c.BatchSize <= 0 {
		c.BatchSize = d.BatchSize
	}
	return c
}

// DisplayState is everything the presentation layer needs for one frame.
type DisplayState struct {
	State           State    `json:"state"`
	Scrambled       string   `json:"scrambled"`
	Letters         []string `json:"letters"`
	TimeRemainingMs int64    `json:"timeRemainingMs"`
	Score           uint     `json:"score"`
	WordLength      int      `json:"wordLength"`
	Loading         bool     `json:"loading"`
	LastVerdict     Verdict  `json:"lastVerdict,omitempty"`
	History         []Guess  `json:"history"`
}

// Result is the read-only summary of a finished (or running) session.
type Result struct {
	Score       uint    `json:"score"`
	WordsSolved int     `json:"wordsSolved"`
	Guesses     int     `json:"guesses"`
	GuessRatio  float64 `json:"guessRatio"` // correct / total, 0 when no guesses
}

// Snapshot is the persisted form of a session.
type Snapshot struct {
	Score           uint      `json:"score" jsonschema:"description=Points at save time"`
	TimeRemainingMs int64     `json:"timeRemainingMs" jsonschema:"minimum=0,description=Clock budget left in milliseconds"`
	WordLength      int       `json:"wordLength" jsonschema:"minimum=1,description=Target length for the next fetched words"`
	OriginalWord    string    `json:"originalWord,omitempty" jsonschema:"description=Answer for the word in play"`
	ScrambledWord   string    `json:"scrambledWord,omitempty" jsonschema:"description=Arrangement shown to the player"`
	Level           int       `json:"level" jsonschema:"minimum=0,description=Correct answers so far (drives difficulty)"`
	TotalGuesses    int       `json:"totalGuesses" jsonschema:"minimum=0"`
	SavedAt         time.Time `json:"savedAt"`
}
