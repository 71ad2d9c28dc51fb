// Package pagination implements keyset paging over rows ordered newest first
// by (created_at, id).
package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 250
)

var ErrInvalidToken = errors.New("invalid_page_token")

// Query is bound from the page_token and page_size query parameters.
type Query struct {
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size"`
}

// Size returns the requested page size clamped to [1, MaxPageSize]. Zero and
// negative sizes mean DefaultPageSize.
func (q Query) Size() int {
	switch {
	case q.PageSize <= 0:
		return DefaultPageSize
	case q.PageSize > MaxPageSize:
		return MaxPageSize
	default:
		return q.PageSize
	}
}

// After decodes the page token. It returns nil for the first page.
func (q Query) After() (*Cursor, error) {
	token := strings.TrimSpace(q.PageToken)
	if token == "" {
		return nil, nil
	}
	cursor, err := ParseCursor(token)
	if err != nil {
		return nil, err
	}
	return &cursor, nil
}

// Cursor is the position of the last row a page returned.
type Cursor struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

func NewCursor(id int64, createdAt time.Time) Cursor {
	return Cursor{ID: id, CreatedAt: createdAt.UTC()}
}

// Token renders the cursor as an opaque URL-safe string.
func (c Cursor) Token() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode cursor: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func ParseCursor(token string) (Cursor, error) {
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var c Cursor
	if err := json.Unmarshal(b, &c); err != nil {
		return Cursor{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c.ID <= 0 || c.CreatedAt.IsZero() {
		return Cursor{}, fmt.Errorf("%w: incomplete cursor", ErrInvalidToken)
	}
	return c, nil
}

// Page describes where the next page starts.
type Page struct {
	NextPageToken string `json:"next_page_token"`
	HasMore       bool   `json:"has_more"`
}

// Cut trims rows fetched with one row of lookahead down to size and builds the
// matching Page. The token points at the last row kept, and is only set when
// the lookahead row exists. size must be positive.
func Cut[T any](rows []T, size int, cursorOf func(T) Cursor) ([]T, Page, error) {
	if len(rows) <= size {
		return rows, Page{}, nil
	}

	rows = rows[:size]
	token, err := cursorOf(rows[size-1]).Token()
	if err != nil {
		return nil, Page{}, err
	}
	return rows, Page{NextPageToken: token, HasMore: true}, nil
}
