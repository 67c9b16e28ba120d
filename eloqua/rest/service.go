// Package rest is the thin session layer for the Eloqua REST 2.0 API:
// paging state carried across queries, plus a generic asset search.
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/eloquacloud/eloqua-sdk-go/internal/httpx"
)

// Service provides REST API operations. Page, Count, and Depth persist
// across queries until Reset; zero values are unset and stay out of the
// request.
type Service struct {
	transport *httpx.Transport

	// Page selects the result page, starting at 1.
	Page int
	// Count caps the page size.
	Count int
	// Depth picks the response detail: minimal, partial, or complete.
	Depth string
}

// NewService creates a REST service on the shared transport.
func NewService(transport *httpx.Transport) *Service {
	return &Service{transport: transport}
}

// Reset clears the paging state.
func (s *Service) Reset() {
	s.Page = 0
	s.Count = 0
	s.Depth = ""
}

// SearchResult is the REST search envelope.
type SearchResult struct {
	Elements []map[string]any `json:"elements"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
}

// Query searches an asset collection, "assets/emails" or "data/contacts"
// style, with an optional search term and the service's paging state.
func (s *Service) Query(ctx context.Context, assetPath, search string) (*SearchResult, error) {
	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}
	if s.Page > 0 {
		query.Set("page", strconv.Itoa(s.Page))
	}
	if s.Count > 0 {
		query.Set("count", strconv.Itoa(s.Count))
	}
	if s.Depth != "" {
		query.Set("depth", s.Depth)
	}

	resp, err := s.transport.Do(ctx, &httpx.Request{
		API:    httpx.APIRest,
		Method: http.MethodGet,
		Path:   "/" + strings.TrimPrefix(assetPath, "/"),
		Query:  query,
	})
	if err != nil {
		return nil, err
	}

	var result SearchResult
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("decode search result: %w", err)
	}
	return &result, nil
}
