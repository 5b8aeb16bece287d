// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package catalog searches the public manga catalog (Jikan v4, backed by MyAnimeList).

Only entries with an English title are returned; that title becomes the
candidate title. Requests are spaced by [MinInterval] to stay within the
public rate limits.
*/
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/taibuivan/mangatrack/internal/library"
	"github.com/taibuivan/mangatrack/pkg/pointer"
)

const (
	// DefaultBaseURL is the public Jikan v4 endpoint.
	DefaultBaseURL = "https://api.jikan.moe/v4"

	// MinInterval is the minimum spacing between two requests.
	MinInterval = 350 * time.Millisecond

	// SearchLimit is the page size requested by [Client.Search].
	SearchLimit = 20

	defaultTimeout = 15 * time.Second
)

var (
	// ErrNoEnglishTitle is returned by [Client.Get] for entries without an English title.
	ErrNoEnglishTitle = errors.New("catalog entry has no English title")

	// ErrNotFound is returned when the catalog has no entry with the given id.
	ErrNotFound = errors.New("catalog entry not found")

	// ErrEmptyQuery is returned by [Client.Search] for a blank query.
	ErrEmptyQuery = errors.New("search query is empty")
)

// StatusError is a non-2xx catalog response other than 404.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog responded with HTTP %d", e.Status)
}

// # Wire Format

type title struct {
	Type  string `json:"type"`
	Title string `json:"title"`
}

type entry struct {
	MalID         int             `json:"mal_id"`
	TitleEnglish  string          `json:"title_english"`
	Titles        []title         `json:"titles"`
	TitleJapanese string          `json:"title_japanese"`
	Synopsis      string          `json:"synopsis"`
	Chapters      *int            `json:"chapters"`
	Score         *float64        `json:"score"`
	Images        *library.Images `json:"images"`
	Type          string          `json:"type"`
}

// englishTitle returns title_english, else the first English entry of titles.
func (e entry) englishTitle() string {
	if t := strings.TrimSpace(e.TitleEnglish); t != "" {
		return t
	}
	for _, t := range e.Titles {
		if t.Type == "English" && strings.TrimSpace(t.Title) != "" {
			return strings.TrimSpace(t.Title)
		}
	}
	return ""
}

// candidate maps e, reporting false when it has no English title.
func (e entry) candidate() (library.Candidate, bool) {
	english := e.englishTitle()
	if english == "" {
		return library.Candidate{}, false
	}

	return library.Candidate{
		ID:            e.MalID,
		Title:         english,
		TitleJapanese: e.TitleJapanese,
		Synopsis:      e.Synopsis,
		Images:        e.Images,
		TotalChapters: pointer.Positive(e.Chapters), // 0 or null while publishing
		Score:         e.Score,
		Type:          e.Type,
	}, true
}

// # Client

// Client is a rate-limited Jikan client. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option customizes a [Client].
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithInterval changes the minimum spacing between requests.
func WithInterval(interval time.Duration) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Every(interval), 1) }
}

// New creates a client for baseURL, or [DefaultBaseURL] when empty.
func New(baseURL string, opts ...Option) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    rate.NewLimiter(rate.Every(MinInterval), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search returns up to [SearchLimit] candidates matching query, skipping
// entries without an English title.
func (c *Client) Search(ctx context.Context, query string) ([]library.Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(SearchLimit))

	var payload struct {
		Data []entry `json:"data"`
	}
	if err := c.get(ctx, "/manga?"+params.Encode(), &payload); err != nil {
		return nil, err
	}

	candidates := make([]library.Candidate, 0, len(payload.Data))
	for _, e := range payload.Data {
		if candidate, ok := e.candidate(); ok {
			candidates = append(candidates, candidate)
		}
	}
	return candidates, nil
}

// Get returns the candidate with the given MyAnimeList id.
func (c *Client) Get(ctx context.Context, id int) (library.Candidate, error) {
	var payload struct {
		Data entry `json:"data"`
	}
	if err := c.get(ctx, "/manga/"+strconv.Itoa(id), &payload); err != nil {
		return library.Candidate{}, err
	}

	candidate, ok := payload.Data.candidate()
	if !ok {
		return library.Candidate{}, ErrNoEnglishTitle
	}
	return candidate, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("catalog_request_build_failed: %w", err)
	}
	request.Header.Set("Accept", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("catalog_request_failed: %w", err)
	}
	defer response.Body.Close()

	switch {
	case response.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case response.StatusCode < 200 || response.StatusCode > 299:
		_, _ = io.Copy(io.Discard, response.Body)
		return &StatusError{Status: response.StatusCode}
	}

	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("catalog_decode_failed: %w", err)
	}
	return nil
}
