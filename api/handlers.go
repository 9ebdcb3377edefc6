package api

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/namematch/api/search"
	"github.com/papercomputeco/namematch/pkg/matcher"
	"github.com/papercomputeco/namematch/pkg/vector"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string           `json:"error"`
	Notices []matcher.Notice `json:"notices,omitempty"`
}

// CollectionResponse describes a collection after a create or delete.
type CollectionResponse struct {
	Collection string           `json:"collection"`
	Size       int              `json:"size"`
	Notices    []matcher.Notice `json:"notices,omitempty"`
}

// AddNamesRequest is the body of POST /v1/collections/:name/names.
// Names is untyped so that non-string elements can be skipped rather than
// rejecting the request.
type AddNamesRequest struct {
	Names []any `json:"names"`
}

// AddNamesResponse reports how many names were stored.
type AddNamesResponse struct {
	Collection string           `json:"collection"`
	Added      int              `json:"added"`
	Notices    []matcher.Notice `json:"notices,omitempty"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// failure writes a 502 carrying the matcher's notices.
func failure(c *fiber.Ctx, rec *matcher.Recorder) error {
	return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
		Error:   (&search.Error{Notices: rec.Notices}).Error(),
		Notices: rec.Notices,
	})
}

// handleGetCollection handles PUT /v1/collections/:name: it gets or creates
// the collection and seeds it when empty.
// Query parameters:
//   - seed (optional, default true): add the sample names to an empty collection
func (s *Server) handleGetCollection(c *fiber.Ctx) error {
	rec := &matcher.Recorder{}
	m, err := s.config.NewMatcher(c.Params("name"), rec)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}
	defer m.Close()

	var seed []string
	if c.QueryBool("seed", true) {
		seed = s.config.Seed
	}

	ctx := c.UserContext()
	if !m.GetCollection(ctx, seed) {
		return failure(c, rec)
	}

	size, err := m.Size(ctx)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: err.Error(), Notices: rec.Notices})
	}

	return c.JSON(CollectionResponse{
		Collection: m.CollectionName(),
		Size:       size,
		Notices:    rec.Notices,
	})
}

// handleDeleteCollection handles DELETE /v1/collections/:name.
func (s *Server) handleDeleteCollection(c *fiber.Ctx) error {
	rec := &matcher.Recorder{}
	m, err := s.config.NewMatcher(c.Params("name"), rec)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}
	defer m.Close()

	ctx := c.UserContext()
	if !m.Connect(ctx) || !m.DeleteCollection(ctx) {
		if errors.Is(m.Err(), vector.ErrCollectionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Error:   fmt.Sprintf("collection %q not found", m.CollectionName()),
				Notices: rec.Notices,
			})
		}
		return failure(c, rec)
	}

	return c.JSON(CollectionResponse{
		Collection: m.CollectionName(),
		Notices:    rec.Notices,
	})
}

// handleAddNames handles POST /v1/collections/:name/names.
func (s *Server) handleAddNames(c *fiber.Ctx) error {
	var req AddNamesRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid request body: " + err.Error(),
		})
	}

	if req.Names == nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: matcher.ErrNotAList.Error()})
	}

	rec := &matcher.Recorder{}
	m, err := s.config.NewMatcher(c.Params("name"), rec)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}
	defer m.Close()

	ctx := c.UserContext()
	if !m.Initialize(ctx) {
		return failure(c, rec)
	}

	added, err := m.AddItems(ctx, req.Names)
	if errors.Is(err, matcher.ErrNotAList) {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}
	if rec.Has(matcher.LevelError) {
		return failure(c, rec)
	}

	return c.Status(fiber.StatusCreated).JSON(AddNamesResponse{
		Collection: m.CollectionName(),
		Added:      added,
		Notices:    rec.Notices,
	})
}

// handleSearchEndpoint handles GET /v1/collections/:name/search requests.
// Query parameters:
//   - query (required): the name to search for
//   - top_k (optional, default 5): number of results to return
func (s *Server) handleSearchEndpoint(c *fiber.Ctx) error {
	query := c.Query("query")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "query parameter is required",
		})
	}

	topK := search.DefaultTopK
	if topKStr := c.Query("top_k"); topKStr != "" {
		parsed, err := strconv.Atoi(topKStr)
		if err != nil || parsed <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: "top_k must be a positive integer",
			})
		}
		topK = parsed
	}

	output, err := search.Search(
		c.UserContext(),
		s.config.NewMatcher,
		search.SearchInput{
			Collection: c.Params("name"),
			Query:      query,
			TopK:       topK,
		},
		s.logger,
	)

	var serr *search.Error
	switch {
	case errors.Is(err, search.ErrEmptyQuery):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	case errors.As(err, &serr):
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: serr.Error(), Notices: serr.Notices})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: err.Error()})
	}

	return c.JSON(output)
}
