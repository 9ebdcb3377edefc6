// Package search provides shared name search types and logic. It is used by
// both the REST API endpoint and the MCP server tool.
package search

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/papercomputeco/namematch/pkg/matcher"
)

// DefaultTopK is the number of matches returned when none is requested.
const DefaultTopK = 5

var (
	// ErrEmptyQuery is returned for a blank query.
	ErrEmptyQuery = errors.New("query must be a non-empty string")

	// ErrMatcher is returned when the matcher reported an error.
	ErrMatcher = errors.New("name matcher failed")
)

// MatcherFactory builds a matcher for the named collection that reports to
// reporter. An empty collection name selects the configured default.
type MatcherFactory func(collection string, reporter matcher.Reporter) (*matcher.Matcher, error)

// SearchInput represents the input arguments for a search request.
type SearchInput struct {
	Collection string `json:"collection,omitempty"`
	Query      string `json:"query"`
	TopK       int    `json:"top_k,omitempty"`
}

// SearchResult represents a single ranked match.
type SearchResult struct {
	Rank  int     `json:"rank"`
	Name  string  `json:"name"`
	Score float32 `json:"score"`
}

// SearchOutput represents the output of a search operation.
type SearchOutput struct {
	Collection string           `json:"collection"`
	Query      string           `json:"query"`
	Best       *SearchResult    `json:"best,omitempty"`
	Results    []SearchResult   `json:"results"`
	Count      int              `json:"count"`
	Markdown   string           `json:"markdown"`
	Notices    []matcher.Notice `json:"notices,omitempty"`
}

// Error carries the notices reported by a failed matcher operation.
type Error struct {
	Notices []matcher.Notice
}

func (e *Error) Error() string {
	for i := len(e.Notices) - 1; i >= 0; i-- {
		if e.Notices[i].Level == matcher.LevelError {
			return e.Notices[i].Message
		}
	}
	return ErrMatcher.Error()
}

func (e *Error) Unwrap() error {
	return ErrMatcher
}

// Search opens the collection, finds the names closest to the query and
// returns them ranked, most relevant first.
func Search(
	ctx context.Context,
	newMatcher MatcherFactory,
	input SearchInput,
	logger *slog.Logger,
) (*SearchOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, ErrEmptyQuery
	}

	topK := input.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	rec := &matcher.Recorder{}
	m, err := newMatcher(input.Collection, rec)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	logger.Debug("searching names",
		"collection", m.CollectionName(),
		"query", input.Query,
		"top_k", topK,
	)

	if !m.Initialize(ctx) {
		return nil, &Error{Notices: rec.Notices}
	}

	matches := m.FindSimilarNames(ctx, input.Query, topK)
	if rec.Has(matcher.LevelError) {
		return nil, &Error{Notices: rec.Notices}
	}

	output := &SearchOutput{
		Collection: m.CollectionName(),
		Query:      input.Query,
		Results:    make([]SearchResult, len(matches)),
		Count:      len(matches),
		Markdown:   matcher.FormatMarkdown(matches),
		Notices:    rec.Notices,
	}
	for i, match := range matches {
		output.Results[i] = SearchResult{
			Rank:  i + 1,
			Name:  match.Text,
			Score: match.Score,
		}
	}
	if len(output.Results) > 0 {
		best := output.Results[0]
		output.Best = &best
	}

	return output, nil
}
