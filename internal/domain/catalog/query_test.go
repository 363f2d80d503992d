package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/shopease/internal/domain/product"
)

func p(id, name, desc, price string, c product.Category, rating float64) product.Product {
	return product.Product{
		ID:          id,
		Name:        name,
		Description: desc,
		Price:       decimal.RequireFromString(price),
		Category:    c,
		Rating:      rating,
		Stock:       10,
	}
}

func storefront() []product.Product {
	return []product.Product{
		p("1", "Wireless Headphones", "Premium noise-cancelling wireless headphones.", "299.99", product.CategoryElectronics, 4.8),
		p("2", "Smart Watch", "Advanced smartwatch with health monitoring.", "249.99", product.CategoryElectronics, 4.5),
		p("3", "Premium Cotton T-Shirt", "Ultra-soft t-shirt for all day comfort.", "29.99", product.CategoryClothing, 4.3),
		p("4", "Designer Jeans", "Stylish designer jeans with premium denim.", "89.99", product.CategoryClothing, 4.6),
		p("5", "Bestselling Novel", "Award-winning novel.", "19.99", product.CategoryBooks, 4.9),
		p("6", "Coffee Table", "Modern coffee table made from sustainable wood.", "199.99", product.CategoryHome, 4.4),
		p("7", "Professional Camera", "High-resolution digital camera.", "1299.99", product.CategoryElectronics, 4.7),
		p("8", "Decorative Lamp", "Stylish lamp that adds elegance.", "79.99", product.CategoryHome, 4.2),
	}
}

func ids(products []product.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestQuery_DefaultFilterKeepsCatalogOrder(t *testing.T) {
	got := Query(storefront(), DefaultFilter())
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6", "7", "8"}, ids(got))
}

func TestQuery_SearchCotton(t *testing.T) {
	f := DefaultFilter()
	f.SearchTerm = "cotton"

	got := Query(storefront(), f)

	require.Len(t, got, 1)
	assert.Equal(t, "Premium Cotton T-Shirt", got[0].Name)
	assert.True(t, decimal.RequireFromString("29.99").Equal(got[0].Price))
}

func TestQuery_Filters(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *Filter)
		want   []string
	}{
		{
			name:   "search is case-insensitive",
			mutate: func(f *Filter) { f.SearchTerm = "STYLISH" },
			want:   []string{"4", "8"},
		},
		{
			name:   "search matches description",
			mutate: func(f *Filter) { f.SearchTerm = "wood" },
			want:   []string{"6"},
		},
		{
			name:   "category",
			mutate: func(f *Filter) { f.Category = product.CategoryElectronics },
			want:   []string{"1", "2", "7"},
		},
		{
			name: "price range is inclusive",
			mutate: func(f *Filter) {
				f.PriceRange = PriceRange{Min: decimal.RequireFromString("29.99"), Max: decimal.RequireFromString("89.99")}
			},
			want: []string{"3", "4", "8"},
		},
		{
			name: "filters combine",
			mutate: func(f *Filter) {
				f.SearchTerm = "premium"
				f.Category = product.CategoryClothing
				f.PriceRange.Max = decimal.NewFromInt(50)
			},
			want: []string{"3"},
		},
		{
			name:   "no match",
			mutate: func(f *Filter) { f.SearchTerm = "kayak" },
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := DefaultFilter()
			tt.mutate(&f)
			assert.Equal(t, tt.want, ids(Query(storefront(), f)))
		})
	}
}

func TestQuery_Sorts(t *testing.T) {
	tests := []struct {
		sort SortOption
		want []string
	}{
		{sort: SortPriceAsc, want: []string{"5", "3", "8", "4", "6", "2", "1", "7"}},
		{sort: SortPriceDesc, want: []string{"7", "1", "2", "6", "4", "8", "3", "5"}},
		{sort: SortRatingDesc, want: []string{"5", "1", "7", "4", "2", "6", "3", "8"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			f := DefaultFilter()
			f.Sort = tt.sort
			assert.Equal(t, tt.want, ids(Query(storefront(), f)))
		})
	}
}

func TestQuery_SortIsStable(t *testing.T) {
	products := []product.Product{
		p("a", "A", "", "10", product.CategoryHome, 3),
		p("b", "B", "", "5", product.CategoryHome, 4),
		p("c", "C", "", "10", product.CategoryHome, 4),
		p("d", "D", "", "5", product.CategoryHome, 3),
		p("e", "E", "", "10", product.CategoryHome, 4),
	}

	f := DefaultFilter()
	f.Sort = SortPriceAsc
	got := Query(products, f)
	assert.Equal(t, []string{"b", "d", "a", "c", "e"}, ids(got))
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i-1].Price.LessThanOrEqual(got[i].Price))
	}

	f.Sort = SortPriceDesc
	assert.Equal(t, []string{"a", "c", "e", "b", "d"}, ids(Query(products, f)))

	f.Sort = SortRatingDesc
	assert.Equal(t, []string{"b", "c", "e", "a", "d"}, ids(Query(products, f)))
}

func TestQuery_DoesNotMutateInput(t *testing.T) {
	products := storefront()
	f := DefaultFilter()
	f.Sort = SortPriceDesc

	_ = Query(products, f)

	assert.Equal(t, ids(storefront()), ids(products))
}

func TestFilter_Reset(t *testing.T) {
	f := Filter{
		SearchTerm: "lamp",
		Category:   product.CategoryHome,
		PriceRange: PriceRange{Min: decimal.NewFromInt(5), Max: decimal.NewFromInt(10)},
		Sort:       SortRatingDesc,
	}

	f.Reset()

	assert.Equal(t, "", f.SearchTerm)
	assert.Equal(t, product.CategoryAll, f.Category)
	assert.True(t, decimal.Zero.Equal(f.PriceRange.Min))
	assert.True(t, decimal.NewFromInt(2000).Equal(f.PriceRange.Max))
	assert.Equal(t, SortDefault, f.Sort)
}

func TestFilter_Validate(t *testing.T) {
	require.NoError(t, DefaultFilter().Validate())

	f := DefaultFilter()
	f.PriceRange = PriceRange{Min: decimal.NewFromInt(10), Max: decimal.NewFromInt(5)}
	require.ErrorIs(t, f.Validate(), ErrInvalidPriceRange)

	f = DefaultFilter()
	f.PriceRange.Min = decimal.NewFromInt(-1)
	require.ErrorIs(t, f.Validate(), ErrInvalidPriceRange)

	f = DefaultFilter()
	f.Category = "toys"
	require.ErrorIs(t, f.Validate(), product.ErrUnknownCategory)

	f = DefaultFilter()
	f.Sort = "newest"
	require.ErrorIs(t, f.Validate(), ErrUnknownSortOption)
}

func TestParseSortOption(t *testing.T) {
	tests := map[string]SortOption{
		"":               SortDefault,
		"default":        SortDefault,
		"price-asc":      SortPriceAsc,
		"price-low-high": SortPriceAsc,
		"Price-Desc":     SortPriceDesc,
		"price-high-low": SortPriceDesc,
		"rating":         SortRatingDesc,
		"rating-desc":    SortRatingDesc,
	}
	for in, want := range tests {
		got, err := ParseSortOption(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseSortOption("newest")
	require.ErrorIs(t, err, ErrUnknownSortOption)
}

func TestSearchAdmin(t *testing.T) {
	assert.Equal(t, []string{"6", "8"}, ids(SearchAdmin(storefront(), "home")))
	assert.Equal(t, []string{"5"}, ids(SearchAdmin(storefront(), "Novel")))
}

func TestFacets(t *testing.T) {
	products := storefront()
	products[6].Stock = 0

	fs := Facets(products)

	assert.Equal(t, []CategoryCount{
		{Category: product.CategoryAll, Count: 8},
		{Category: product.CategoryElectronics, Count: 3},
		{Category: product.CategoryClothing, Count: 2},
		{Category: product.CategoryBooks, Count: 1},
		{Category: product.CategoryHome, Count: 2},
	}, fs.Categories)
	assert.True(t, decimal.RequireFromString("19.99").Equal(fs.PriceBounds.Min))
	assert.True(t, decimal.RequireFromString("1299.99").Equal(fs.PriceBounds.Max))
	assert.Equal(t, 7, fs.InStock)
	assert.Equal(t, 1, fs.OutOfStock)
}

func TestFacets_Empty(t *testing.T) {
	fs := Facets(nil)

	require.Len(t, fs.Categories, 5)
	assert.Zero(t, fs.Categories[0].Count)
	assert.True(t, fs.PriceBounds.Min.IsZero())
	assert.True(t, fs.PriceBounds.Max.IsZero())
}
