package words

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(ClientOptions{
		WordAPIURL:       srv.URL,
		DictionaryAPIURL: srv.URL,
		Timeout:          2 * time.Second,
	})
}

func TestClient_FetchWords(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/word" {
			t.Errorf("path = %q, want /word", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`["stone","Crane","toolong"]`))
	})

	got, err := c.FetchWords(context.Background(), 3, 5)
	if err != nil {
		t.Fatalf("FetchWords: %v", err)
	}
	if gotQuery != "number=3&length=5" {
		t.Errorf("query = %q, want %q", gotQuery, "number=3&length=5")
	}
	want := []string{"stone", "crane"}
	if len(got) != len(want) {
		t.Fatalf("FetchWords = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("word[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestClient_FetchWords_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"server error", http.StatusInternalServerError, `oops`, ErrNetwork},
		{"html body", http.StatusOK, `<html>busy</html>`, ErrParse},
		{"empty array", http.StatusOK, `[]`, ErrEmptyResult},
		{"wrong lengths only", http.StatusOK, `["ab","abcdefg"]`, ErrEmptyResult},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.FetchWords(context.Background(), 2, 4)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestClient_FetchWords_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(ClientOptions{WordAPIURL: url, Timeout: time.Second})
	if _, err := c.FetchWords(context.Background(), 1, 4); !errors.Is(err, ErrNetwork) {
		t.Errorf("err = %v, want ErrNetwork", err)
	}
}

func TestClient_CheckDictionary(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/entries/en/stone":
			_, _ = w.Write([]byte(`[{"word":"stone"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	if !c.CheckDictionary(context.Background(), "stone") {
		t.Error("CheckDictionary(stone) = false, want true")
	}
	if c.CheckDictionary(context.Background(), "snote") {
		t.Error("CheckDictionary(snote) = true, want false")
	}
	if c.CheckDictionary(context.Background(), "  ") {
		t.Error("CheckDictionary(blank) = true, want false")
	}
}

func TestClient_CheckDictionary_TransportFailureIsInvalid(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(ClientOptions{DictionaryAPIURL: url, Timeout: time.Second})
	if c.CheckDictionary(context.Background(), "stone") {
		t.Error("CheckDictionary on dead server = true, want false")
	}
}

func TestClient_CheckDictionary_SharesInFlightRequests(t *testing.T) {
	var hits atomic.Int32
	first := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		once.Do(func() { close(first) })
		<-release
	})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !c.CheckDictionary(context.Background(), "tones") {
				t.Error("CheckDictionary = false, want true")
			}
		}()
	}

	select {
	case <-first:
	case <-time.After(2 * time.Second):
		t.Fatal("no dictionary request arrived")
	}
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := hits.Load(); n != 1 {
		t.Errorf("dictionary hits = %d, want 1", n)
	}
}

func TestClient_CheckDictionary_CancelledCallerDoesNotFailOthers(t *testing.T) {
	var hits atomic.Int32
	first := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		once.Do(func() { close(first) })
		<-release
	})

	ctxA, cancelA := context.WithCancel(context.Background())
	defer cancelA()
	gotA := make(chan bool, 1)
	go func() { gotA <- c.CheckDictionary(ctxA, "tones") }()

	select {
	case <-first:
	case <-time.After(2 * time.Second):
		t.Fatal("no dictionary request arrived")
	}
	gotB := make(chan bool, 1)
	go func() { gotB <- c.CheckDictionary(context.Background(), "tones") }()
	time.Sleep(100 * time.Millisecond)

	cancelA()
	select {
	case ok := <-gotA:
		if ok {
			t.Error("cancelled caller = true, want false")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled caller did not return")
	}

	close(release)
	select {
	case ok := <-gotB:
		if !ok {
			t.Error("remaining caller = false, want true")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("remaining caller did not return")
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("dictionary hits = %d, want 1", n)
	}
}
