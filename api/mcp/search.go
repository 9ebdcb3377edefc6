package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/namematch/api/search"
)

var (
	searchToolName    = "find_similar_names"
	searchDescription = "Find the stored names most similar to a query name, such as alternative spellings of a person or place. Returns matches ranked by relevance score (higher is more similar)."
)

// SearchInput represents the input arguments for the search tool.
type SearchInput struct {
	Collection string `json:"collection,omitempty" jsonschema:"the collection to search (default: the configured collection)"`
	Query      string `json:"query" jsonschema:"the name or phrase to look up"`
	TopK       int    `json:"top_k,omitempty" jsonschema:"number of results to return (default: 5)"`
}

// handleSearch processes a find_similar_names request.
func (s *Server) handleSearch(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, search.SearchOutput, error) {
	logger := s.config.Logger

	logger.Debug("MCP search request",
		"collection", input.Collection,
		"query", input.Query,
		"top_k", input.TopK,
	)

	output, err := search.Search(ctx, s.config.NewMatcher, search.SearchInput{
		Collection: input.Collection,
		Query:      input.Query,
		TopK:       input.TopK,
	}, logger)
	if err != nil {
		logger.Error("name search failed", "error", err)
		return errorResult(fmt.Sprintf("Failed to search names: %v", err)), search.SearchOutput{}, nil
	}

	// Tools returning structured content also return the serialized JSON
	// in a TextContent block for older clients.
	jsonBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal search output", "error", err)
		return errorResult(fmt.Sprintf("Failed to serialize results: %v", err)), search.SearchOutput{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, *output, nil
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}
