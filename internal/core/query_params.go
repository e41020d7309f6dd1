// internal/core/query_params.go
package core

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Default and limit constants for pagination
const (
	DefaultLimit = 20
	MaxLimit     = 100
	DefaultOrder = "desc"
)

// ErrInvalidQuery wraps every list query parsing failure.
var ErrInvalidQuery = errors.New("invalid query parameter")

// ListQueryOptions holds parsed pagination and sorting parameters.
type ListQueryOptions struct {
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string // "asc" or "desc"
}

// ParseListQueryOptions extracts pagination and sorting options from query
// parameters. sortable lists the accepted sort columns; the first entry is the
// default sort column.
func ParseListQueryOptions(queryParams url.Values, sortable []string) (*ListQueryOptions, error) {
	opts := &ListQueryOptions{
		Limit:     DefaultLimit,
		Offset:    0,
		SortOrder: DefaultOrder,
	}
	if len(sortable) > 0 {
		opts.SortBy = sortable[0]
	}

	if limitStr := queryParams.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return nil, fmt.Errorf("%w: 'limit' must be an integer", ErrInvalidQuery)
		}
		if limit < 1 {
			return nil, fmt.Errorf("%w: 'limit' must be at least 1", ErrInvalidQuery)
		}
		if limit > MaxLimit {
			return nil, fmt.Errorf("%w: 'limit' maximum is %d", ErrInvalidQuery, MaxLimit)
		}
		opts.Limit = limit
	}

	if offsetStr := queryParams.Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return nil, fmt.Errorf("%w: 'offset' must be an integer", ErrInvalidQuery)
		}
		if offset < 0 {
			return nil, fmt.Errorf("%w: 'offset' must be non-negative", ErrInvalidQuery)
		}
		opts.Offset = offset
	}

	if sortBy := queryParams.Get("sort"); sortBy != "" {
		if !IsValidIdentifier(sortBy) || !contains(sortable, sortBy) {
			return nil, fmt.Errorf("%w: cannot sort by '%s'", ErrInvalidQuery, sortBy)
		}
		opts.SortBy = sortBy
	}

	if order := queryParams.Get("order"); order != "" {
		lowerOrder := strings.ToLower(order)
		if lowerOrder != "asc" && lowerOrder != "desc" {
			return nil, fmt.Errorf("%w: 'order' must be 'asc' or 'desc'", ErrInvalidQuery)
		}
		opts.SortOrder = lowerOrder
	}

	return opts, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
