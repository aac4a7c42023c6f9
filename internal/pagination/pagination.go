// Package pagination computes page windows over a counted collection.
//
// Out-of-range page numbers are clamped to the nearest valid page instead
// of producing an error.
package pagination

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/songkeeper/internal/common"
)

// Window is one page of a collection of totalCount items.
type Window struct {
	Page       int
	TotalPages int
	PageSize   int
	TotalCount int
	Offset     int
}

// Compute clamps requestedPage into [1, TotalPages]. A non-positive
// pageSize falls back to common.DefaultPageSize. TotalPages is at least 1,
// so an empty collection still has one (empty) page.
func Compute(requestedPage, totalCount, pageSize int) Window {
	if pageSize <= 0 {
		pageSize = common.DefaultPageSize
	}
	if totalCount < 0 {
		totalCount = 0
	}

	totalPages := (totalCount + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	page := requestedPage
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	return Window{
		Page:       page,
		TotalPages: totalPages,
		PageSize:   pageSize,
		TotalCount: totalCount,
		Offset:     (page - 1) * pageSize,
	}
}

// Link names.
const (
	LinkNext  = "nextPage"
	LinkLast  = "lastPage"
	LinkPrev  = "prevPage"
	LinkFirst = "firstPage"
)

// Links returns navigation links for w. next/last appear only when a later
// page exists, prev/first only when an earlier one does; a single-page
// collection has none.
func (w Window) Links(basePath string) map[string]string {
	links := make(map[string]string, 4)
	if w.Page < w.TotalPages {
		links[LinkNext] = pageURL(basePath, w.Page+1)
		links[LinkLast] = pageURL(basePath, w.TotalPages)
	}
	if w.Page > 1 {
		links[LinkPrev] = pageURL(basePath, w.Page-1)
		links[LinkFirst] = pageURL(basePath, 1)
	}
	return links
}

func pageURL(basePath string, page int) string {
	sep := "?"
	if strings.Contains(basePath, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%spage=%d", basePath, sep, page)
}

// ParsePage reads a page query parameter. Anything that is not an integer
// yields 1; range clamping is left to Compute. Integers too large for int
// saturate, so Compute still picks the nearest end.
func ParsePage(raw string) int {
	raw = strings.TrimSpace(raw)
	n, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) {
		if strings.HasPrefix(raw, "-") {
			return math.MinInt
		}
		return math.MaxInt
	}
	if err != nil {
		return 1
	}
	return n
}
