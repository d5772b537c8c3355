// internal/game/buffer.go
//
// Pre-fetched word queue feeding a session.
//
// Responsibilities:
//   - Hold untouched candidate words (scrambling happens on take, never in the queue).
//   - Start a background refill when a take finds the queue empty, with at most one
//     refill outstanding at any time.
//   - Track the target word length for the next refill (difficulty coupling).
//
// Locking:
//   - mu guards pending, length, inFlight, done and closed.
//   - mu is never held across FetchWords; the network call runs in its own goroutine
//     and re-acquires mu only to publish the result.

package game

import (
	"context"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/unscrambler/internal/anagram"
	"github.com/robalobadob/unscrambler/internal/words"
)

// BufferOptions configures a Buffer.
type BufferOptions struct {
	Length      int  // initial target word length
	MaxLength   int  // upper bound for length growth
	BatchSize   int  // words requested per refill
	GrowOnDrain bool // add a letter whenever the last pending word is taken
}

// Buffer is a queue of candidate words refilled from a words.Source.
type Buffer struct {
	src         words.Source
	batch       int
	maxLength   int
	growOnDrain bool

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	pending  []string
	length   int
	inFlight bool
	done     chan struct{} // closed when the in-flight refill completes
	closed   bool
}

// closedChan is returned by Ready when nothing is in flight.
var closedChan = func() chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}()

// NewBuffer creates an empty buffer. No fetch happens until the first TryTake.
func NewBuffer(src words.Source, opts BufferOptions) *Buffer {
	if opts.Length <= 0 {
		opts.Length = 1
	}
	if opts.MaxLength < opts.Length {
		opts.MaxLength = opts.Length
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Buffer{
		src:         src,
		batch:       opts.BatchSize,
		maxLength:   opts.MaxLength,
		growOnDrain: opts.GrowOnDrain,
		ctx:         ctx,
		cancel:      cancel,
		length:      opts.Length,
	}
}

// TryTake pops the most recently fetched word and scrambles it.
// When the queue is empty it returns false and, unless a refill is already
// outstanding, starts one in the background.
func (b *Buffer) TryTake() (Pair, bool) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return Pair{}, false
	}
	n := len(b.pending)
	if n == 0 {
		b.startRefillLocked()
		b.mu.Unlock()
		return Pair{}, false
	}
	w := b.pending[n-1]
	b.pending = b.pending[:n-1]
	if n == 1 && b.growOnDrain && b.length < b.maxLength {
		b.length++
	}
	b.mu.Unlock()

	return Pair{Scrambled: anagram.Scramble(w), Original: w}, true
}

// startRefillLocked dispatches a refill unless one is already running. Caller holds mu.
func (b *Buffer) startRefillLocked() {
	if b.inFlight {
		return
	}
	b.inFlight = true
	b.done = make(chan struct{})
	go b.refill(b.length, b.done)
}

// refill runs FetchWords without holding mu and publishes the result.
func (b *Buffer) refill(length int, done chan struct{}) {
	fetched, err := b.src.FetchWords(b.ctx, b.batch, length)

	b.mu.Lock()
	defer b.mu.Unlock()
	defer close(done)
	b.inFlight = false

	switch {
	case b.closed:
		// session is gone; drop the response
	case err != nil:
		log.Warn().Err(err).Int("length", length).Msg("word refill failed")
	case length != b.length:
		log.Debug().Int("fetched", length).Int("target", b.length).Msg("discarding stale refill")
	default:
		b.pending = append(b.pending, fetched...)
	}
}

// Ready returns a channel closed when the outstanding refill completes.
// With no refill in flight the channel is already closed.
func (b *Buffer) Ready() <-chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.inFlight {
		return closedChan
	}
	return b.done
}

// Wait blocks until the outstanding refill (if any) completes or ctx is done.
func (b *Buffer) Wait(ctx context.Context) error {
	select {
	case <-b.Ready():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetLength changes the target length for future refills and drops pending
// words of any other length. Lengths above MaxLength are clamped.
func (b *Buffer) SetLength(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	n = min(n, b.maxLength)
	if n <= 0 || n == b.length {
		return
	}
	b.length = n
	kept := b.pending[:0]
	for _, w := range b.pending {
		if utf8.RuneCountInString(w) == n {
			kept = append(kept, w)
		}
	}
	b.pending = kept
}

// Length returns the current target word length.
func (b *Buffer) Length() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.length
}

// Len returns the number of pending words.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// InFlight reports whether a refill is outstanding.
func (b *Buffer) InFlight() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.inFlight
}

// Close cancels any in-flight fetch and empties the queue. Later results are discarded.
func (b *Buffer) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	b.pending = nil
	b.cancel()
}
