// Package bulk implements the Eloqua Bulk 2.0 API: building import and
// export jobs, resolving field and filter names against the instance, and
// driving definitions, syncs, and data transfer.
package bulk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/eloquacloud/eloqua-sdk-go/internal/httpx"
)

// Service provides Bulk API operations. All methods that take a *Job
// mutate it in place; the job's owner serializes access.
type Service struct {
	transport *httpx.Transport
}

// NewService creates a Bulk service on the shared transport.
func NewService(transport *httpx.Transport) *Service {
	return &Service{transport: transport}
}

// get performs a GET against the Bulk API root.
func (s *Service) get(ctx context.Context, path string, query url.Values, out any) error {
	resp, err := s.transport.Do(ctx, &httpx.Request{
		API:    httpx.APIBulk,
		Method: http.MethodGet,
		Path:   path,
		Query:  query,
	})
	if err != nil {
		return err
	}
	return decode(resp, out)
}

// post performs a POST against the Bulk API root.
func (s *Service) post(ctx context.Context, path string, body, out any) error {
	resp, err := s.transport.Do(ctx, &httpx.Request{
		API:    httpx.APIBulk,
		Method: http.MethodPost,
		Path:   path,
		Body:   body,
	})
	if err != nil {
		return err
	}
	return decode(resp, out)
}

// delete performs a DELETE against the Bulk API root.
func (s *Service) delete(ctx context.Context, path string) error {
	_, err := s.transport.Do(ctx, &httpx.Request{
		API:    httpx.APIBulk,
		Method: http.MethodDelete,
		Path:   path,
	})
	return err
}

// decode unmarshals a response body into out when both are present.
func decode(resp *httpx.Response, out any) error {
	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// page is the Bulk API search envelope.
type page[T any] struct {
	Items        []T  `json:"items"`
	TotalResults int  `json:"totalResults"`
	Limit        int  `json:"limit"`
	Offset       int  `json:"offset"`
	Count        int  `json:"count"`
	HasMore      bool `json:"hasMore"`
}

// pageStep controls how the offset advances between pages.
type pageStep int

const (
	// stepByPage advances the offset by one per fetched page; the field
	// catalog endpoints treat offset as a page cursor.
	stepByPage pageStep = iota
	// stepByCount advances the offset by the page limit; sync data and log
	// endpoints treat offset as a record index.
	stepByCount
)

// collectPages walks a paged endpoint until hasMore goes false,
// aggregating items in fetch order. base carries query parameters beyond
// the paging pair.
func collectPages[T any](ctx context.Context, s *Service, path string, base url.Values, limit int, step pageStep) ([]T, error) {
	var all []T
	offset := 0
	for {
		query := url.Values{}
		for k, v := range base {
			query[k] = v
		}
		query.Set("limit", strconv.Itoa(limit))
		query.Set("offset", strconv.Itoa(offset))

		var pg page[T]
		if err := s.get(ctx, path, query, &pg); err != nil {
			return nil, err
		}
		all = append(all, pg.Items...)
		if !pg.HasMore {
			return all, nil
		}
		if step == stepByPage {
			offset++
		} else {
			offset += limit
		}
	}
}
