// Package pagespec parses user-supplied page selections like "1,3,5" or
// "1-5,10-15,20". Pages are 1-indexed inclusive; the engine converts to
// whatever indexing the document library expects.
package pagespec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidSpec reports a malformed page specification: a non-numeric
// token, a page below 1, or a range whose start exceeds its end.
var ErrInvalidSpec = errors.New("invalid page specification")

// Range is a 1-indexed inclusive page range. A single page N is the range
// (N, N).
type Range struct {
	Start int
	End   int
}

// String renders the range in the "3" / "1-5" form accepted back by
// ParseRanges and by the document engine's page selection syntax.
func (r Range) String() string {
	if r.Start == r.End {
		return strconv.Itoa(r.Start)
	}
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// Pages returns every page number covered by the range, in order.
func (r Range) Pages() []int {
	pages := make([]int, 0, r.End-r.Start+1)
	for p := r.Start; p <= r.End; p++ {
		pages = append(pages, p)
	}
	return pages
}

// ParseRanges parses a comma-separated mix of single pages and ranges:
// "1-5,10-15,20" yields [(1,5),(10,15),(20,20)]; "3" yields [(3,3)].
func ParseRanges(spec string) ([]Range, error) {
	parts := strings.Split(spec, ",")
	ranges := make([]Range, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("%w: empty token in %q", ErrInvalidSpec, spec)
		}

		if before, after, found := strings.Cut(part, "-"); found {
			start, err := parsePage(before)
			if err != nil {
				return nil, err
			}
			end, err := parsePage(after)
			if err != nil {
				return nil, err
			}
			if start > end {
				return nil, fmt.Errorf("%w: range %q start must be <= end", ErrInvalidSpec, part)
			}
			ranges = append(ranges, Range{Start: start, End: end})
			continue
		}

		page, err := parsePage(part)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, Range{Start: page, End: page})
	}

	return ranges, nil
}

// ParseList parses a comma-separated list of single 1-indexed pages:
// "1,3,5" yields [1,3,5].
func ParseList(spec string) ([]int, error) {
	parts := strings.Split(spec, ",")
	pages := make([]int, 0, len(parts))

	for _, part := range parts {
		page, err := parsePage(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}

	return pages, nil
}

// Expand flattens ranges into the ordered list of covered pages.
// "1-3,7" becomes [1,2,3,7].
func Expand(ranges []Range) []int {
	var pages []int
	for _, r := range ranges {
		pages = append(pages, r.Pages()...)
	}
	return pages
}

// CheckBounds verifies every page fits a document of totalPages pages.
func CheckBounds(pages []int, totalPages int) error {
	for _, p := range pages {
		if p < 1 || p > totalPages {
			return fmt.Errorf("%w: page %d out of bounds (document has %d pages)", ErrInvalidSpec, p, totalPages)
		}
	}
	return nil
}

// CheckRangeBounds verifies every range fits a document of totalPages pages.
func CheckRangeBounds(ranges []Range, totalPages int) error {
	for _, r := range ranges {
		if r.Start < 1 || r.End > totalPages {
			return fmt.Errorf("%w: range %s out of bounds (document has %d pages)", ErrInvalidSpec, r, totalPages)
		}
	}
	return nil
}

func parsePage(s string) (int, error) {
	s = strings.TrimSpace(s)
	page, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a page number", ErrInvalidSpec, s)
	}
	if page < 1 {
		return 0, fmt.Errorf("%w: page numbers are 1-indexed, got %d", ErrInvalidSpec, page)
	}
	return page, nil
}
