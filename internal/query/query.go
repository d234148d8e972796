// Package query implements the filter, sort and paginate pipeline shared by
// every admin list endpoint. Records take part by implementing Queryable.
package query

import (
	"slices"
	"strings"
)

// DefaultLimit is used when a request carries no positive limit.
const DefaultLimit = 10

// Queryable resolves a named field to its string form. ok is false for
// fields the record does not know.
type Queryable interface {
	Field(name string) (value string, ok bool)
}

// Options drives one pass of the pipeline. Build it with NewOptions.
type Options struct {
	Page          int
	Limit         int
	SortField     string
	SortAscending bool
	FilterField   string
	FilterValues  []string
	ExactMatch    bool
}

// NewOptions normalizes request parameters. Non-positive page or limit fall
// back to 1 and DefaultLimit; sortBy "desc" (any case) sorts descending,
// anything else ascending.
func NewOptions(page, limit int, sortField, sortBy, filterField string, filterValues []string, exactMatch bool) Options {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return Options{
		Page:          page,
		Limit:         limit,
		SortField:     strings.TrimSpace(sortField),
		SortAscending: !strings.EqualFold(strings.TrimSpace(sortBy), "desc"),
		FilterField:   strings.TrimSpace(filterField),
		FilterValues:  slices.Clone(filterValues),
		ExactMatch:    exactMatch,
	}
}

// PageReply is one page of results plus the size of the filtered set.
type PageReply[T any] struct {
	Data       []T `json:"data"`
	TotalCount int `json:"totalCount"`
}

// Apply runs filter, sort and paginate in that order.
func Apply[T Queryable](records []T, opts Options) PageReply[T] {
	page, total := Paginate(Sort(Filter(records, opts), opts), opts)
	return PageReply[T]{Data: page, TotalCount: total}
}

// Filter keeps the records whose FilterField matches any of FilterValues.
// Without a FilterField every record passes.
func Filter[T Queryable](records []T, opts Options) []T {
	if opts.FilterField == "" {
		return records
	}
	out := make([]T, 0, len(records))
	for _, r := range records {
		v, ok := r.Field(opts.FilterField)
		if !ok {
			continue
		}
		if matches(v, opts.FilterValues, opts.ExactMatch) {
			out = append(out, r)
		}
	}
	return out
}

func matches(v string, candidates []string, exact bool) bool {
	for _, c := range candidates {
		if exact {
			if v == c {
				return true
			}
		} else if strings.Contains(v, c) {
			return true
		}
	}
	return false
}

// Sort orders records by SortField, comparing the resolved strings
// lexicographically. Unknown fields compare as "". The sort is stable and
// the input slice is not modified.
func Sort[T Queryable](records []T, opts Options) []T {
	if opts.SortField == "" {
		return records
	}
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b T) int {
		av, _ := a.Field(opts.SortField)
		bv, _ := b.Field(opts.SortField)
		if opts.SortAscending {
			return strings.Compare(av, bv)
		}
		return strings.Compare(bv, av)
	})
	return out
}

// Paginate returns the 1-based page of records and the total record count.
// Pages past the end are empty.
func Paginate[T any](records []T, opts Options) ([]T, int) {
	total := len(records)
	page, limit := opts.Page, opts.Limit
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if total == 0 || page-1 > (total-1)/limit {
		return []T{}, total
	}
	start := (page - 1) * limit
	end := total
	if limit < total-start {
		end = start + limit
	}
	return slices.Clone(records[start:end]), total
}
