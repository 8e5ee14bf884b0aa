package listing

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Tab scopes for the listing view.
const (
	TabAll       = "all"
	TabSale      = "sale"
	TabRent      = "rent"
	TabTemporary = "temporary"
	TabFavorites = "favorites"
)

// Sort keys.
const (
	SortNewest       = "newest"
	SortOldest       = "oldest"
	SortPriceAsc     = "price_asc"
	SortPriceDesc    = "price_desc"
	SortAreaDesc     = "area_desc"
	SortBedroomsDesc = "bedrooms_desc"
)

// FilterState is the full set of independently togglable predicates for
// a listing collection, plus one sort key. All predicates are
// conjunctive. Zero values mean "not set".
type FilterState struct {
	Tab        string `json:"tab,omitempty"`
	Query      string `json:"query,omitempty"`
	CityID     int64  `json:"city_id,omitempty"`
	CategoryID int64  `json:"category_id,omitempty"`
	Type       string `json:"property_type,omitempty"`
	MinPrice   int64  `json:"min_price,omitempty"`
	MaxPrice   int64  `json:"max_price,omitempty"`
	Bedrooms   string `json:"bedrooms,omitempty"`  // "1", "2", "3" or "4+"
	Bathrooms  string `json:"bathrooms,omitempty"` // "1", "2" or "3+"
	Sort       string `json:"sort,omitempty"`
}

// Validate rejects filter states with unknown enum values so bad query
// parameters fail loudly instead of silently matching nothing.
func (f FilterState) Validate() error {
	switch f.Tab {
	case "", TabAll, TabSale, TabRent, TabTemporary, TabFavorites:
	default:
		return fmt.Errorf("invalid tab %q", f.Tab)
	}
	if f.Type != "" && !ValidType(f.Type) {
		return fmt.Errorf("invalid property type %q", f.Type)
	}
	switch f.Sort {
	case "", SortNewest, SortOldest, SortPriceAsc, SortPriceDesc, SortAreaDesc, SortBedroomsDesc:
	default:
		return fmt.Errorf("invalid sort %q", f.Sort)
	}
	if f.Bedrooms != "" && !validCountFilter(f.Bedrooms, "4+") {
		return fmt.Errorf("invalid bedrooms filter %q", f.Bedrooms)
	}
	if f.Bathrooms != "" && !validCountFilter(f.Bathrooms, "3+") {
		return fmt.Errorf("invalid bathrooms filter %q", f.Bathrooms)
	}
	return nil
}

func validCountFilter(s, plus string) bool {
	if s == plus {
		return true
	}
	n, err := strconv.Atoi(s)
	return err == nil && n >= 0
}

// Apply runs the filter pipeline over the full source collection and
// returns a newly ordered slice. It never mutates items and always
// starts from the complete collection, so repeated calls with the same
// state are idempotent. The favorites set is consulted only for the
// favorites tab.
func Apply(items []*Property, f FilterState, favorites map[int64]bool) []*Property {
	out := make([]*Property, 0, len(items))
	query := strings.ToLower(strings.TrimSpace(f.Query))

	for _, p := range items {
		if !matchesTab(p, f.Tab, favorites) {
			continue
		}
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		if f.CityID != 0 && (p.CityID == nil || *p.CityID != f.CityID) {
			continue
		}
		if f.CategoryID != 0 && (p.CategoryID == nil || *p.CategoryID != f.CategoryID) {
			continue
		}
		if f.Type != "" && p.Type != f.Type {
			continue
		}
		if f.MinPrice != 0 && p.Price < f.MinPrice {
			continue
		}
		if f.MaxPrice != 0 && p.Price > f.MaxPrice {
			continue
		}
		if f.Bedrooms != "" && !matchesCount(p.Bedrooms, f.Bedrooms, "4+", 4) {
			continue
		}
		if f.Bathrooms != "" && !matchesCount(p.Bathrooms, f.Bathrooms, "3+", 3) {
			continue
		}
		out = append(out, p)
	}

	sortProperties(out, f.Sort)
	return out
}

func matchesTab(p *Property, tab string, favorites map[int64]bool) bool {
	switch tab {
	case "", TabAll:
		return true
	case TabFavorites:
		return favorites[p.ID]
	default:
		return p.Type == tab
	}
}

func matchesQuery(p *Property, query string) bool {
	for _, field := range []string{p.Title, p.Description, p.Address, p.Neighborhood} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func matchesCount(have int, want, plus string, threshold int) bool {
	if want == plus {
		return have >= threshold
	}
	n, err := strconv.Atoi(want)
	if err != nil {
		return false
	}
	return have == n
}

func sortProperties(items []*Property, key string) {
	var less func(a, b *Property) bool

	switch key {
	case SortOldest:
		less = func(a, b *Property) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case SortPriceAsc:
		less = func(a, b *Property) bool { return a.Price < b.Price }
	case SortPriceDesc:
		less = func(a, b *Property) bool { return a.Price > b.Price }
	case SortAreaDesc:
		less = func(a, b *Property) bool { return a.Area > b.Area }
	case SortBedroomsDesc:
		less = func(a, b *Property) bool { return a.Bedrooms > b.Bedrooms }
	default: // SortNewest
		less = func(a, b *Property) bool { return a.CreatedAt.After(b.CreatedAt) }
	}

	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
}

// Chip is a human-readable summary of one active filter predicate. The
// Key names the field a clear action would reset.
type Chip struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Chips derives the active-filter chips from a filter state, one per
// non-default field. It is a pure projection: the same state always
// produces the same chips.
func Chips(f FilterState) []Chip {
	var chips []Chip

	if f.Tab != "" && f.Tab != TabAll {
		chips = append(chips, Chip{Key: "tab", Label: tabLabel(f.Tab)})
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		chips = append(chips, Chip{Key: "query", Label: fmt.Sprintf("Search: %s", q)})
	}
	if f.CityID != 0 {
		chips = append(chips, Chip{Key: "city_id", Label: fmt.Sprintf("City #%d", f.CityID)})
	}
	if f.CategoryID != 0 {
		chips = append(chips, Chip{Key: "category_id", Label: fmt.Sprintf("Category #%d", f.CategoryID)})
	}
	if f.Type != "" {
		chips = append(chips, Chip{Key: "property_type", Label: typeLabel(f.Type)})
	}
	switch {
	case f.MinPrice != 0 && f.MaxPrice != 0:
		chips = append(chips, Chip{Key: "price", Label: fmt.Sprintf("Price %d–%d", f.MinPrice, f.MaxPrice)})
	case f.MinPrice != 0:
		chips = append(chips, Chip{Key: "price", Label: fmt.Sprintf("Price from %d", f.MinPrice)})
	case f.MaxPrice != 0:
		chips = append(chips, Chip{Key: "price", Label: fmt.Sprintf("Price up to %d", f.MaxPrice)})
	}
	if f.Bedrooms != "" {
		chips = append(chips, Chip{Key: "bedrooms", Label: fmt.Sprintf("%s bedrooms", f.Bedrooms)})
	}
	if f.Bathrooms != "" {
		chips = append(chips, Chip{Key: "bathrooms", Label: fmt.Sprintf("%s bathrooms", f.Bathrooms)})
	}

	return chips
}

func tabLabel(tab string) string {
	switch tab {
	case TabFavorites:
		return "Favorites"
	default:
		return typeLabel(tab)
	}
}

func typeLabel(t string) string {
	switch t {
	case TypeSale:
		return "For sale"
	case TypeRent:
		return "For rent"
	case TypeTemporary:
		return "Seasonal rental"
	default:
		return t
	}
}
