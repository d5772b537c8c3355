package game

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/robalobadob/unscrambler/internal/words"
)

// fakeSource returns canned words per length and canned dictionary answers.
type fakeSource struct {
	mu       sync.Mutex
	byLength map[int][]string
	dict     map[string]bool
	failNext int           // number of upcoming fetches that fail
	gate     chan struct{} // when set, FetchWords blocks until it is closed
	dictGate chan struct{} // when set, CheckDictionary blocks until it is closed
	lengths  []int         // requested lengths, in call order

	fetches   atomic.Int32
	checks    atomic.Int32
	active    atomic.Int32
	maxActive atomic.Int32
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		byLength: map[int][]string{
			4: {"bake", "cake", "lake"},
			5: {"stone", "crane", "plant"},
			6: {"garden", "planet"},
		},
		dict: map[string]bool{"notes": true, "tones": false},
	}
}

func (f *fakeSource) FetchWords(ctx context.Context, count, length int) ([]string, error) {
	f.fetches.Add(1)
	n := f.active.Add(1)
	defer f.active.Add(-1)
	for {
		m := f.maxActive.Load()
		if n <= m || f.maxActive.CompareAndSwap(m, n) {
			break
		}
	}

	f.mu.Lock()
	gate := f.gate
	f.lengths = append(f.lengths, length)
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", words.ErrNetwork, ctx.Err())
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext > 0 {
		f.failNext--
		return nil, fmt.Errorf("%w: connection refused", words.ErrNetwork)
	}
	list := f.byLength[length]
	if len(list) == 0 {
		return nil, words.ErrEmptyResult
	}
	if count < len(list) {
		list = list[:count]
	}
	return append([]string(nil), list...), nil
}

func (f *fakeSource) CheckDictionary(ctx context.Context, word string) bool {
	f.checks.Add(1)
	f.mu.Lock()
	gate := f.dictGate
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return false
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dict[word]
}

func (f *fakeSource) requested() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.lengths...)
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}
