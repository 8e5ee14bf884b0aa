package listing

import (
	"reflect"
	"testing"
	"time"
)

func day(n int) time.Time {
	return time.Date(2025, 6, n, 12, 0, 0, 0, time.UTC)
}

func sampleProperties() []*Property {
	city1, city2 := int64(1), int64(2)
	cat1 := int64(1)
	return []*Property{
		{ID: 1, Title: "Casa na praia", Neighborhood: "Campeche", CityID: &city1, CategoryID: &cat1, Type: TypeSale, Price: 900000, Bedrooms: 4, Bathrooms: 3, Area: 220, CreatedAt: day(1)},
		{ID: 2, Title: "Apartamento vista mar", Address: "Av. Beira Mar 100", CityID: &city1, Type: TypeRent, Price: 4500, Bedrooms: 2, Bathrooms: 1, Area: 75, CreatedAt: day(2)},
		{ID: 3, Title: "Cobertura duplex", Description: "Vista para a praia de Geribá", CityID: &city2, Type: TypeSale, Price: 1500000, Bedrooms: 5, Bathrooms: 4, Area: 310, CreatedAt: day(3)},
		{ID: 4, Title: "Kitnet temporada", CityID: &city2, Type: TypeTemporary, Price: 300, Bedrooms: 1, Bathrooms: 1, Area: 30, CreatedAt: day(4)},
		{ID: 5, Title: "Sobrado no centro", Neighborhood: "Centro", CityID: &city1, Type: TypeSale, Price: 650000, Bedrooms: 3, Bathrooms: 2, Area: 180, CreatedAt: day(5)},
	}
}

func ids(items []*Property) []int64 {
	out := make([]int64, len(items))
	for i, p := range items {
		out[i] = p.ID
	}
	return out
}

func TestApplyDefaultIsNewestFirst(t *testing.T) {
	got := Apply(sampleProperties(), FilterState{}, nil)

	want := []int64{5, 4, 3, 2, 1}
	if !reflect.DeepEqual(ids(got), want) {
		t.Errorf("ids = %v, want %v", ids(got), want)
	}
}

func TestApplyTabScope(t *testing.T) {
	items := sampleProperties()

	sale := Apply(items, FilterState{Tab: TabSale}, nil)
	for _, p := range sale {
		if p.Type != TypeSale {
			t.Errorf("sale tab returned type %q", p.Type)
		}
	}
	if len(sale) != 3 {
		t.Errorf("sale tab returned %d items, want 3", len(sale))
	}

	favs := map[int64]bool{2: true, 4: true}
	gotFavs := Apply(items, FilterState{Tab: TabFavorites}, favs)
	if !reflect.DeepEqual(ids(gotFavs), []int64{4, 2}) {
		t.Errorf("favorites tab ids = %v, want [4 2]", ids(gotFavs))
	}
}

func TestApplyFreeTextSearchesAllTextFields(t *testing.T) {
	items := sampleProperties()

	// "praia" appears in a title, a description, nowhere else
	got := Apply(items, FilterState{Query: "  PRAIA "}, nil)
	if !reflect.DeepEqual(ids(got), []int64{3, 1}) {
		t.Errorf("ids = %v, want [3 1]", ids(got))
	}

	// address match
	got = Apply(items, FilterState{Query: "beira mar"}, nil)
	if !reflect.DeepEqual(ids(got), []int64{2}) {
		t.Errorf("ids = %v, want [2]", ids(got))
	}

	// neighborhood match
	got = Apply(items, FilterState{Query: "campeche"}, nil)
	if !reflect.DeepEqual(ids(got), []int64{1}) {
		t.Errorf("ids = %v, want [1]", ids(got))
	}
}

func TestApplyPriceRangeIsInclusive(t *testing.T) {
	got := Apply(sampleProperties(), FilterState{MinPrice: 650000, MaxPrice: 900000}, nil)
	if !reflect.DeepEqual(ids(got), []int64{5, 1}) {
		t.Errorf("ids = %v, want [5 1]", ids(got))
	}
}

func TestApplyBedroomsPlus(t *testing.T) {
	// {bedrooms: 3}, {bedrooms: 4}, {bedrooms: 5} with "4+" keeps the last two
	items := []*Property{
		{ID: 1, Bedrooms: 3, CreatedAt: day(1)},
		{ID: 2, Bedrooms: 4, CreatedAt: day(2)},
		{ID: 3, Bedrooms: 5, CreatedAt: day(3)},
	}

	got := Apply(items, FilterState{Bedrooms: "4+"}, nil)
	if !reflect.DeepEqual(ids(got), []int64{3, 2}) {
		t.Errorf("ids = %v, want [3 2]", ids(got))
	}

	got = Apply(items, FilterState{Bedrooms: "3"}, nil)
	if !reflect.DeepEqual(ids(got), []int64{1}) {
		t.Errorf("exact ids = %v, want [1]", ids(got))
	}
}

func TestApplyBathroomsPlus(t *testing.T) {
	got := Apply(sampleProperties(), FilterState{Bathrooms: "3+"}, nil)
	if !reflect.DeepEqual(ids(got), []int64{3, 1}) {
		t.Errorf("ids = %v, want [3 1]", ids(got))
	}
}

func TestApplyConjunction(t *testing.T) {
	got := Apply(sampleProperties(), FilterState{Tab: TabSale, CityID: 1, Bedrooms: "4+"}, nil)
	if !reflect.DeepEqual(ids(got), []int64{1}) {
		t.Errorf("ids = %v, want [1]", ids(got))
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	items := sampleProperties()
	f := FilterState{Tab: TabSale, Query: "casa", Sort: SortPriceAsc}

	first := Apply(items, f, nil)
	second := Apply(items, f, nil)
	if !reflect.DeepEqual(ids(first), ids(second)) {
		t.Errorf("first = %v, second = %v", ids(first), ids(second))
	}
}

func TestApplyNeverMutatesSource(t *testing.T) {
	items := sampleProperties()
	before := ids(items)

	Apply(items, FilterState{Sort: SortPriceAsc}, nil)

	if !reflect.DeepEqual(ids(items), before) {
		t.Errorf("source order changed: %v", ids(items))
	}
}

func TestApplyMonotonicity(t *testing.T) {
	items := sampleProperties()

	base := FilterState{CityID: 1}
	narrowed := base
	narrowed.Bedrooms = "4+"

	if len(Apply(items, narrowed, nil)) > len(Apply(items, base, nil)) {
		t.Error("adding a predicate increased the result set")
	}
}

func TestApplySortKeys(t *testing.T) {
	items := sampleProperties()

	tests := []struct {
		sort string
		want []int64
	}{
		{SortNewest, []int64{5, 4, 3, 2, 1}},
		{SortOldest, []int64{1, 2, 3, 4, 5}},
		{SortPriceAsc, []int64{4, 2, 5, 1, 3}},
		{SortPriceDesc, []int64{3, 1, 5, 2, 4}},
		{SortAreaDesc, []int64{3, 1, 5, 2, 4}},
		{SortBedroomsDesc, []int64{3, 1, 5, 2, 4}},
	}

	for _, tt := range tests {
		got := Apply(items, FilterState{Sort: tt.sort}, nil)
		if !reflect.DeepEqual(ids(got), tt.want) {
			t.Errorf("sort %s: ids = %v, want %v", tt.sort, ids(got), tt.want)
		}
	}
}

func TestApplyPriceAscIsOrdered(t *testing.T) {
	got := Apply(sampleProperties(), FilterState{Sort: SortPriceAsc}, nil)
	for i := 1; i < len(got); i++ {
		if got[i-1].Price > got[i].Price {
			t.Fatalf("out of order at %d: %d > %d", i, got[i-1].Price, got[i].Price)
		}
	}
}

func TestApplySortIsStable(t *testing.T) {
	// Equal prices keep their relative (newest-first input) order.
	items := []*Property{
		{ID: 1, Price: 100, CreatedAt: day(1)},
		{ID: 2, Price: 100, CreatedAt: day(1)},
		{ID: 3, Price: 100, CreatedAt: day(1)},
	}

	got := Apply(items, FilterState{Sort: SortPriceAsc}, nil)
	if !reflect.DeepEqual(ids(got), []int64{1, 2, 3}) {
		t.Errorf("ids = %v, want stable [1 2 3]", ids(got))
	}
}

func TestFilterStateValidate(t *testing.T) {
	valid := []FilterState{
		{},
		{Tab: TabFavorites, Sort: SortAreaDesc},
		{Bedrooms: "4+", Bathrooms: "3+"},
		{Bedrooms: "2", Type: TypeRent},
	}
	for _, f := range valid {
		if err := f.Validate(); err != nil {
			t.Errorf("Validate(%+v) = %v, want nil", f, err)
		}
	}

	invalid := []FilterState{
		{Tab: "bogus"},
		{Type: "timeshare"},
		{Sort: "random"},
		{Bedrooms: "5+"},
		{Bathrooms: "x"},
	}
	for _, f := range invalid {
		if err := f.Validate(); err == nil {
			t.Errorf("Validate(%+v) = nil, want error", f)
		}
	}
}

func TestChipsProjection(t *testing.T) {
	f := FilterState{
		Tab:      TabSale,
		Query:    "praia",
		CityID:   1,
		MinPrice: 100000,
		Bedrooms: "4+",
	}

	chips := Chips(f)
	keys := make([]string, len(chips))
	for i, c := range chips {
		keys[i] = c.Key
	}

	want := []string{"tab", "query", "city_id", "price", "bedrooms"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("chip keys = %v, want %v", keys, want)
	}
}

func TestChipsEmptyForDefaults(t *testing.T) {
	if chips := Chips(FilterState{Tab: TabAll, Sort: SortNewest}); len(chips) != 0 {
		t.Errorf("chips = %v, want none for default state", chips)
	}
}

func TestChipsConsistentWithState(t *testing.T) {
	f := FilterState{CityID: 2, Bathrooms: "3+"}

	// Clearing the field named by each chip removes exactly that chip.
	for _, chip := range Chips(f) {
		cleared := f
		switch chip.Key {
		case "city_id":
			cleared.CityID = 0
		case "bathrooms":
			cleared.Bathrooms = ""
		}
		for _, remaining := range Chips(cleared) {
			if remaining.Key == chip.Key {
				t.Errorf("chip %q survived clearing its field", chip.Key)
			}
		}
	}
}
