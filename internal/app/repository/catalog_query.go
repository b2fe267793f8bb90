package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPageSize is the fixed page size of every paginated listing.
const DefaultPageSize = 20

type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortOldest    SortKey = "oldest"
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
	SortNameAsc   SortKey = "name_asc"
	SortNameDesc  SortKey = "name_desc"
)

// ParseSort maps a query-string value to a SortKey. Unknown values fall back
// to newest first.
func ParseSort(s string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortOldest:
		return SortOldest
	case SortPriceAsc:
		return SortPriceAsc
	case SortPriceDesc:
		return SortPriceDesc
	case SortNameAsc:
		return SortNameAsc
	case SortNameDesc:
		return SortNameDesc
	}
	return SortNewest
}

// Page is a 1-based page request with the fixed page size.
type Page struct {
	Number int
	Size   int
}

// NewPage normalizes a requested page number; anything below 1 becomes 1.
func NewPage(number int) Page {
	if number < 1 {
		number = 1
	}
	return Page{Number: number, Size: DefaultPageSize}
}

func (p Page) normalized() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	return p
}

func (p Page) Offset() int {
	p = p.normalized()
	return (p.Number - 1) * p.Size
}

func (p Page) apply(query *gorm.DB) *gorm.DB {
	p = p.normalized()
	return query.Limit(p.Size).Offset(p.Offset())
}

// TotalPages returns the number of pages needed for total rows.
func (p Page) TotalPages(total int64) int {
	p = p.normalized()
	if total <= 0 {
		return 0
	}
	return int((total + int64(p.Size) - 1) / int64(p.Size))
}

// NormalizeSearch trims a search term; whitespace-only input means no filter.
func NormalizeSearch(q string) string {
	return strings.TrimSpace(q)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a case-insensitive LIKE pattern for substring matches.
func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
}

func prefixPattern(q string) string {
	return likeEscaper.Replace(strings.ToLower(q)) + "%"
}

// likeAny builds "(LOWER(a) LIKE ? ESCAPE '\' OR LOWER(b) LIKE ? ...)" over columns.
func likeAny(columns ...string) string {
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, col)
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

func repeatArg(arg interface{}, n int) []interface{} {
	args := make([]interface{}, n)
	for i := range args {
		args[i] = arg
	}
	return args
}

// orderBy wraps a complete ORDER BY list as one expression so that ranked
// CASE parameters and the trailing tie-breaks stay in a single clause.
func orderBy(sql string, vars ...interface{}) clause.OrderBy {
	return clause.OrderBy{Expression: clause.Expr{SQL: sql, Vars: vars, WithoutParentheses: true}}
}

// artworkRelevanceSQL ranks search hits: name prefix, name substring,
// category, artist name, then anything else (description).
const artworkRelevanceSQL = `CASE` +
	` WHEN LOWER(artworks.name) LIKE ? ESCAPE '\' THEN 0` +
	` WHEN LOWER(artworks.name) LIKE ? ESCAPE '\' THEN 1` +
	` WHEN LOWER(artworks.category) LIKE ? ESCAPE '\' THEN 2` +
	` WHEN LOWER(artists.full_name) LIKE ? ESCAPE '\' THEN 3` +
	` ELSE 4 END`

// artworkOrder returns the ORDER BY for an artwork listing. With a search
// term the relevance rank leads the default (newest) ordering and breaks ties
// for every other sort key. Recency and id always close the list.
func artworkOrder(sort SortKey, q string) clause.OrderBy {
	var primary string
	switch sort {
	case SortOldest:
		primary = "artworks.uploaded_at ASC"
	case SortPriceAsc:
		primary = "artworks.cost ASC"
	case SortPriceDesc:
		primary = "artworks.cost DESC"
	case SortNameAsc:
		primary = "LOWER(artworks.name) ASC"
	case SortNameDesc:
		primary = "LOWER(artworks.name) DESC"
	}

	const tail = "artworks.uploaded_at DESC, artworks.id ASC"

	if q == "" {
		if primary == "" {
			return orderBy(tail)
		}
		return orderBy(primary + ", " + tail)
	}

	contains := containsPattern(q)
	vars := []interface{}{prefixPattern(q), contains, contains, contains}
	if primary == "" {
		return orderBy(artworkRelevanceSQL+", "+tail, vars...)
	}
	return orderBy(primary+", "+artworkRelevanceSQL+", "+tail, vars...)
}

func artistOrder(sort SortKey) clause.OrderBy {
	const tail = "artists.id ASC"
	switch sort {
	case SortOldest:
		return orderBy("artists.joined_at ASC, " + tail)
	case SortNameAsc:
		return orderBy("LOWER(artists.full_name) ASC, " + tail)
	case SortNameDesc:
		return orderBy("LOWER(artists.full_name) DESC, " + tail)
	}
	// price sorts have no meaning for artists
	return orderBy("artists.joined_at DESC, " + tail)
}
