package words

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseWordList(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
		err  error
	}{
		{"json", `["apple","pear"]`, []string{"apple", "pear"}, nil},
		{"degraded text", `[apple, "pear" ,plum]`, []string{"apple", "pear", "plum"}, nil},
		{"bare list", `apple,pear`, []string{"apple", "pear"}, nil},
		{"uppercase", `["Apple"]`, []string{"apple"}, nil},
		{"stray punctuation", `["app{le"]`, nil, ErrParse},
		{"blank", `   `, nil, ErrParse},
		{"empty array", `[]`, nil, ErrEmptyResult},
		{"only separators", `[,,]`, nil, ErrEmptyResult},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWordList([]byte(tt.body))
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("err = %v, want %v", err, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("word[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestEmbedded_Default(t *testing.T) {
	e, err := LoadEmbedded("")
	if err != nil {
		t.Fatalf("LoadEmbedded: %v", err)
	}
	count, maxLen := e.Stats()
	if count == 0 {
		t.Fatal("embedded list is empty")
	}
	if maxLen < 8 {
		t.Errorf("max length = %d, want at least 8", maxLen)
	}

	got, err := e.FetchWords(context.Background(), 5, 4)
	if err != nil {
		t.Fatalf("FetchWords: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("FetchWords returned %d words, want 5", len(got))
	}
	seen := map[string]bool{}
	for _, w := range got {
		if len(w) != 4 {
			t.Errorf("word %q has length %d, want 4", w, len(w))
		}
		if seen[w] {
			t.Errorf("duplicate word %q in batch", w)
		}
		seen[w] = true
		if !e.CheckDictionary(context.Background(), w) {
			t.Errorf("CheckDictionary(%q) = false for a listed word", w)
		}
	}
}

func TestEmbedded_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(path, []byte("# comment\nStone\nnotes\nx\nbad-word\nstone\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	e, err := LoadEmbedded(path)
	if err != nil {
		t.Fatalf("LoadEmbedded: %v", err)
	}
	if n, _ := e.Stats(); n != 2 {
		t.Errorf("count = %d, want 2", n)
	}
	if !e.CheckDictionary(context.Background(), "NOTES") {
		t.Error("CheckDictionary should be case-insensitive")
	}
	if e.CheckDictionary(context.Background(), "bad-word") {
		t.Error("invalid entry should have been skipped")
	}

	got, err := e.FetchWords(context.Background(), 10, 5)
	if err != nil {
		t.Fatalf("FetchWords: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("FetchWords returned %d words, want 2 (pool size)", len(got))
	}
	if _, err := e.FetchWords(context.Background(), 1, 9); !errors.Is(err, ErrEmptyResult) {
		t.Errorf("err = %v, want ErrEmptyResult", err)
	}
}

func TestEmbedded_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadEmbedded(path); err == nil {
		t.Error("LoadEmbedded on empty file should fail")
	}
}

func TestEmbedded_CanceledContext(t *testing.T) {
	e := NewEmbedded([]string{"stone"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.FetchWords(ctx, 1, 5); !errors.Is(err, ErrNetwork) {
		t.Errorf("err = %v, want ErrNetwork", err)
	}
}
