// internal/words/client.go
//
// HTTP-backed Source.
//   - FetchWords:      GET {wordURL}/word?number={count}&length={length}
//   - CheckDictionary: GET {dictURL}/entries/en/{word}  (200 => valid)
//
// Concurrent dictionary checks for the same word share one request
// (singleflight), so several sessions validating "stone" at once cost a single
// round trip.

package words

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultWordAPIURL       = "https://random-word-api.herokuapp.com"
	DefaultDictionaryAPIURL = "https://api.dictionaryapi.dev/api/v2"

	maxBodyBytes = 1 << 20

	// defaultLookupTimeout bounds a shared dictionary lookup when no
	// client timeout is configured.
	defaultLookupTimeout = 10 * time.Second
)

// ClientOptions configures a Client. Zero values fall back to defaults.
type ClientOptions struct {
	WordAPIURL       string
	DictionaryAPIURL string
	Timeout          time.Duration // 0 = no per-request timeout
	HTTPClient       *http.Client
}

// Client talks to the remote word-list and dictionary APIs.
type Client struct {
	wordURL string
	dictURL string
	http    *http.Client
	timeout time.Duration
	checks  singleflight.Group
}

// NewClient builds a Client from opts.
func NewClient(opts ClientOptions) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	wordURL := opts.WordAPIURL
	if wordURL == "" {
		wordURL = DefaultWordAPIURL
	}
	dictURL := opts.DictionaryAPIURL
	if dictURL == "" {
		dictURL = DefaultDictionaryAPIURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultLookupTimeout
	}
	return &Client{
		wordURL: strings.TrimRight(wordURL, "/"),
		dictURL: strings.TrimRight(dictURL, "/"),
		http:    hc,
		timeout: timeout,
	}
}

// FetchWords requests count words of the given length. Words of any other
// length in the response are dropped.
func (c *Client) FetchWords(ctx context.Context, count, length int) ([]string, error) {
	u := fmt.Sprintf("%s/word?number=%d&length=%d", c.wordURL, count, length)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: word api status %d", ErrNetwork, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrNetwork, err)
	}

	list, err := ParseWordList(body)
	if err != nil {
		return nil, err
	}
	out := list[:0]
	for _, w := range list {
		if utf8.RuneCountInString(w) == length {
			out = append(out, w)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no %d-letter words", ErrEmptyResult, length)
	}
	return out, nil
}

// CheckDictionary looks word up in the remote dictionary.
//
// The shared request is not bound to any one caller's ctx; each caller stops
// waiting (and reports false) when its own ctx is done.
func (c *Client) CheckDictionary(ctx context.Context, word string) bool {
	word = strings.TrimSpace(word)
	if word == "" {
		return false
	}
	ch := c.checks.DoChan(word, func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		return c.lookup(lctx, word), nil
	})
	select {
	case res := <-ch:
		ok, _ := res.Val.(bool)
		return ok
	case <-ctx.Done():
		return false
	}
}

func (c *Client) lookup(ctx context.Context, word string) bool {
	u := c.dictURL + "/entries/en/" + url.PathEscape(word)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("word", word).Msg("dictionary lookup failed")
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	return resp.StatusCode == http.StatusOK
}
