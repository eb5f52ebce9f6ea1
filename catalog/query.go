package catalog

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// AllCategories disables the category filter.
	AllCategories = "All"
	// Uncategorized stands in for an empty category.
	Uncategorized = "Uncategorized"
)

// SortOption names one of the descending orders a query can request.
type SortOption string

const (
	SortNewest    SortOption = "newest"
	SortDownloads SortOption = "downloads"
	SortLikes     SortOption = "likes"
	SortRating    SortOption = "rating"
	SortScore     SortOption = "score"
)

// SortOptions lists every order, in the sequence the browser cycles through them.
var SortOptions = []SortOption{SortScore, SortNewest, SortDownloads, SortLikes, SortRating}

// ParseSortOption validates a user-supplied sort name. Matching is case-insensitive.
func ParseSortOption(s string) (SortOption, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SortScore, nil
	}
	for _, opt := range SortOptions {
		if string(opt) == s {
			return opt, nil
		}
	}
	return "", fmt.Errorf("unknown sort option %q (want one of %s)", s, sortOptionNames())
}

func sortOptionNames() string {
	names := make([]string, len(SortOptions))
	for i, opt := range SortOptions {
		names[i] = string(opt)
	}
	return strings.Join(names, ", ")
}

// Next returns the option after o in SortOptions, wrapping around.
func (o SortOption) Next() SortOption {
	for i, opt := range SortOptions {
		if opt == o {
			return SortOptions[(i+1)%len(SortOptions)]
		}
	}
	return SortOptions[0]
}

// Query is one search/filter/sort request.
type Query struct {
	Search   string
	Category string
	Sort     SortOption
}

// Apply filters by search term, then category, then sorts the survivors.
// The input slice is never reordered; the result is always a fresh slice.
func Apply(records []Record, q Query) []Record {
	result := FilterSearch(records, q.Search)
	result = FilterCategory(result, q.Category)
	SortRecords(result, q.Sort)
	return result
}

// FilterSearch keeps records whose name, author, or category contains term,
// ignoring case. An empty term keeps everything.
func FilterSearch(records []Record, term string) []Record {
	out := make([]Record, 0, len(records))
	if term == "" {
		return append(out, records...)
	}
	lower := strings.ToLower(term)
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Name), lower) ||
			strings.Contains(strings.ToLower(r.Author), lower) ||
			strings.Contains(strings.ToLower(r.Category), lower) {
			out = append(out, r)
		}
	}
	return out
}

// FilterCategory keeps records in the given category. AllCategories and the empty
// string keep everything.
func FilterCategory(records []Record, category string) []Record {
	out := make([]Record, 0, len(records))
	if category == "" || category == AllCategories {
		return append(out, records...)
	}
	for _, r := range records {
		if r.CategoryLabel() == category {
			out = append(out, r)
		}
	}
	return out
}

// SortRecords orders records in place, descending by the option's key.
// Equal keys keep their relative order. Unknown options sort by score.
func SortRecords(records []Record, opt SortOption) {
	less := lessFunc(opt)
	sort.SliceStable(records, func(i, j int) bool {
		return less(records[i], records[j])
	})
}

// lessFunc returns a "comes before" predicate: a precedes b when its key is larger.
func lessFunc(opt SortOption) func(a, b Record) bool {
	switch opt {
	case SortNewest:
		return func(a, b Record) bool { return a.Uploaded.After(b.Uploaded) }
	case SortDownloads:
		return func(a, b Record) bool { return a.Downloads > b.Downloads }
	case SortLikes:
		return func(a, b Record) bool { return a.Likes > b.Likes }
	case SortRating:
		return func(a, b Record) bool { return a.RatingOrZero() > b.RatingOrZero() }
	default:
		return func(a, b Record) bool { return a.Score > b.Score }
	}
}

// Categories returns AllCategories followed by the sorted distinct category labels.
func Categories(records []Record) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		seen[r.CategoryLabel()] = struct{}{}
	}
	cats := make([]string, 0, len(seen))
	for c := range seen {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return append([]string{AllCategories}, cats...)
}

// CategoryCounts maps each category label to the number of records in it.
func CategoryCounts(records []Record) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.CategoryLabel()]++
	}
	return counts
}

// Find returns the record with the given ID.
func Find(records []Record, id string) (Record, bool) {
	for _, r := range records {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}

func normalizeCategory(c string) string {
	if c == "" {
		return Uncategorized
	}
	return c
}
