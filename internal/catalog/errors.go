package catalog

import (
	"errors"
	"fmt"

	"github.com/Simplici0/decoquote/internal/pricing"
)

// ErrUpstreamFetch marks a failure to obtain pricing data. It is recoverable:
// callers show "pricing unavailable" and may retry.
var ErrUpstreamFetch = errors.New("catalog: upstream fetch failed")

// ErrNotFound is returned when the catalog has no data for a style and method.
var ErrNotFound = errors.New("catalog: style not found")

// FetchError carries the style and method whose data could not be loaded.
type FetchError struct {
	Style  string
	Method pricing.Method
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch pricing data for %s/%s: %v", e.Style, e.Method, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is makes every FetchError match ErrUpstreamFetch.
func (e *FetchError) Is(target error) bool { return target == ErrUpstreamFetch }
