package pagination

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

const (
	defaultPerPage = 15
	maxPerPage     = 100
)

// =============================================================================
// Page-Based Pagination
// =============================================================================

// Pagination is the page metadata returned with list responses
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// PaginationParams represents input parameters for pagination
type PaginationParams struct {
	Page    int `form:"page" json:"page"`
	PerPage int `form:"per_page" json:"per_page"`
}

// DefaultPagination returns default pagination values
func DefaultPagination() *PaginationParams {
	return &PaginationParams{
		Page:    1,
		PerPage: defaultPerPage,
	}
}

// FromQuery builds params from raw query values, falling back to defaults
// for anything missing or malformed.
func FromQuery(page, perPage string) *PaginationParams {
	params := DefaultPagination()
	if n, err := strconv.Atoi(page); err == nil {
		params.Page = n
	}
	if n, err := strconv.Atoi(perPage); err == nil {
		params.PerPage = n
	}
	params.Validate()
	return params
}

// Validate ensures pagination parameters are within valid ranges
func (p *PaginationParams) Validate() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = defaultPerPage
	}
	if p.PerPage > maxPerPage {
		p.PerPage = maxPerPage
	}
}

// Offset calculates the offset for SQL queries
func (p *PaginationParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// NewPagination creates a new Pagination response
func NewPagination(page, perPage int, total int64) *Pagination {
	if perPage < 1 {
		perPage = defaultPerPage
	}
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))

	return &Pagination{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

// PaginatedResult represents a paginated result with items and pagination info
type PaginatedResult[T any] struct {
	Items      []T         `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

// NewPaginatedResult creates a new paginated result
func NewPaginatedResult[T any](items []T, pagination *Pagination) *PaginatedResult[T] {
	if items == nil {
		items = []T{}
	}
	return &PaginatedResult[T]{
		Items:      items,
		Pagination: pagination,
	}
}

// =============================================================================
// Cursor-Based Pagination (Keyset Pagination)
// =============================================================================

// CursorDirection represents the direction of cursor navigation
type CursorDirection string

const (
	CursorDirectionNext CursorDirection = "next"
	CursorDirectionPrev CursorDirection = "prev"
)

// Cursor is the decoded keyset position: the sort timestamp plus the row id
// as a tie breaker.
type Cursor struct {
	ID string    `json:"id"`
	At time.Time `json:"at"`
}

// CursorParams represents input parameters for cursor-based pagination
type CursorParams struct {
	Cursor    string          `form:"cursor" json:"cursor"`
	Direction CursorDirection `form:"direction" json:"direction"`
	Limit     int             `form:"limit" json:"limit"`
}

// CursorPagination represents cursor-based pagination response metadata
type CursorPagination struct {
	NextCursor *string `json:"next_cursor,omitempty"`
	PrevCursor *string `json:"prev_cursor,omitempty"`
	HasNext    bool    `json:"has_next"`
	HasPrev    bool    `json:"has_prev"`
	Limit      int     `json:"limit"`
}

// CursorPaginatedResult represents a cursor-paginated result with items
type CursorPaginatedResult[T any] struct {
	Items      []T               `json:"items"`
	Pagination *CursorPagination `json:"pagination"`
}

// Validate ensures cursor pagination parameters are within valid ranges
func (c *CursorParams) Validate() {
	if c.Limit < 1 {
		c.Limit = defaultPerPage
	}
	if c.Limit > maxPerPage {
		c.Limit = maxPerPage
	}
	if c.Direction != CursorDirectionPrev {
		c.Direction = CursorDirectionNext
	}
}

// DecodeCursor decodes a base64 cursor string into a Cursor struct
func (c *CursorParams) DecodeCursor() (*Cursor, error) {
	if c.Cursor == "" {
		return nil, nil
	}

	decoded, err := base64.URLEncoding.DecodeString(c.Cursor)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor format: %w", err)
	}

	var cursor Cursor
	if err := json.Unmarshal(decoded, &cursor); err != nil {
		return nil, fmt.Errorf("invalid cursor data: %w", err)
	}

	return &cursor, nil
}

// EncodeCursor creates a base64 encoded cursor
func EncodeCursor(id string, at time.Time) string {
	data, _ := json.Marshal(Cursor{ID: id, At: at})
	return base64.URLEncoding.EncodeToString(data)
}

// NewCursorPagination builds the response metadata. items must have been
// fetched with limit+1 so the extra row signals another page.
func NewCursorPagination[T any](items []T, params *CursorParams, key func(T) (string, time.Time)) (*CursorPagination, []T) {
	hasMore := len(items) > params.Limit
	if hasMore {
		items = items[:params.Limit]
	}

	pagination := &CursorPagination{
		Limit:   params.Limit,
		HasNext: hasMore,
		HasPrev: params.Cursor != "",
	}
	// a prev page looks ahead towards newer rows
	if params.Direction == CursorDirectionPrev && params.Cursor != "" {
		pagination.HasNext, pagination.HasPrev = true, hasMore
	}

	if len(items) > 0 {
		id, at := key(items[len(items)-1])
		next := EncodeCursor(id, at)
		pagination.NextCursor = &next

		id, at = key(items[0])
		prev := EncodeCursor(id, at)
		pagination.PrevCursor = &prev
	}

	return pagination, items
}

// NewCursorPaginatedResult creates a new cursor-paginated result
func NewCursorPaginatedResult[T any](items []T, pagination *CursorPagination) *CursorPaginatedResult[T] {
	if items == nil {
		items = []T{}
	}
	return &CursorPaginatedResult[T]{
		Items:      items,
		Pagination: pagination,
	}
}
