package pagination

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// DefaultCount is the page size used when the caller does not pick one.
const DefaultCount = 10

// AllowedCounts are the page sizes offered by the search forms.
var AllowedCounts = []int{10, 20, 50}

// IsAllowed reports whether n is one of AllowedCounts.
func IsAllowed(n int) bool {
	for _, c := range AllowedCounts {
		if c == n {
			return true
		}
	}
	return false
}

// ParseCount parses a page size. An empty value yields fallback.
func ParseCount(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("count %q is not a number", raw)
	}
	if !IsAllowed(n) {
		return 0, fmt.Errorf("count must be one of %v, got %d", AllowedCounts, n)
	}
	return n, nil
}

// Params holds the single-page search size extracted from a request.
type Params struct {
	Count int
}

// FromContext reads _count (or count) from the query string.
func FromContext(c echo.Context, fallback int) (Params, error) {
	raw := c.QueryParam("_count")
	if raw == "" {
		raw = c.QueryParam("count")
	}
	n, err := ParseCount(raw, fallback)
	if err != nil {
		return Params{}, err
	}
	return Params{Count: n}, nil
}

// Response wraps a search result page for the JSON API.
type Response struct {
	Data  interface{} `json:"data"`
	Total int         `json:"total"`
	Count int         `json:"count"`
}

func NewResponse(data interface{}, total, count int) *Response {
	return &Response{
		Data:  data,
		Total: total,
		Count: count,
	}
}
