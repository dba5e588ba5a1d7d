package domain

import "testing"

func TestFilterUpdate_Apply(t *testing.T) {
	category := "X"
	page := 2
	search := "ama"

	base := DefaultQueryFilters()
	base.Page = 3

	t.Run("resets page when page is not part of the update", func(t *testing.T) {
		got := FilterUpdate{Category: &category}.Apply(base)
		if got.Page != 1 {
			t.Errorf("Page = %d, want 1", got.Page)
		}
		if got.Category != "X" {
			t.Errorf("Category = %q, want X", got.Category)
		}
	})

	t.Run("keeps explicit page", func(t *testing.T) {
		got := FilterUpdate{Category: &category, Page: &page}.Apply(base)
		if got.Page != 2 {
			t.Errorf("Page = %d, want 2", got.Page)
		}
	})

	t.Run("leaves untouched fields alone", func(t *testing.T) {
		withSearch := base
		withSearch.Search = search
		got := FilterUpdate{Category: &category}.Apply(withSearch)
		if got.Search != search {
			t.Errorf("Search = %q, want %q", got.Search, search)
		}
		if got.SortBy != SortByName || got.Limit != DefaultLimit {
			t.Errorf("unexpected change to sort/limit: %+v", got)
		}
	})
}

func TestQueryFilters_Normalized(t *testing.T) {
	tests := []struct {
		name string
		in   QueryFilters
		want QueryFilters
	}{
		{
			name: "zero value gets defaults",
			in:   QueryFilters{},
			want: DefaultQueryFilters(),
		},
		{
			name: "valid values pass through",
			in:   QueryFilters{Search: "s", Category: "c", SortBy: SortByValue, SortOrder: SortOrderDesc, Page: 4, Limit: 24},
			want: QueryFilters{Search: "s", Category: "c", SortBy: SortByValue, SortOrder: SortOrderDesc, Page: 4, Limit: 24},
		},
		{
			name: "unknown sort key and order fall back",
			in:   QueryFilters{SortBy: "price", SortOrder: "sideways", Page: -1, Limit: -5},
			want: DefaultQueryFilters(),
		},
		{
			name: "sort order is case-insensitive",
			in:   QueryFilters{SortBy: SortByMerchant, SortOrder: "DESC", Page: 1, Limit: 12},
			want: QueryFilters{SortBy: SortByMerchant, SortOrder: SortOrderDesc, Page: 1, Limit: 12},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalized(); got != tt.want {
				t.Errorf("Normalized() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNewPaginationMeta(t *testing.T) {
	tests := []struct {
		total, limit, wantPages int
	}{
		{0, 12, 0},
		{1, 12, 1},
		{12, 12, 1},
		{13, 12, 2},
		{100, 7, 15},
		{5, 0, 0},
	}

	for _, tt := range tests {
		got := NewPaginationMeta(1, tt.total, tt.limit)
		if got.TotalPages != tt.wantPages {
			t.Errorf("NewPaginationMeta(total=%d, limit=%d).TotalPages = %d, want %d", tt.total, tt.limit, got.TotalPages, tt.wantPages)
		}
		if got.TotalItems != tt.total || got.ItemsPerPage != tt.limit {
			t.Errorf("NewPaginationMeta(total=%d, limit=%d) = %+v", tt.total, tt.limit, got)
		}
	}
}

func TestUser_IsEmpty(t *testing.T) {
	var nilUser *User
	if !nilUser.IsEmpty() {
		t.Error("nil user should be empty")
	}
	if !(&User{}).IsEmpty() {
		t.Error("zero user should be empty")
	}
	if (&User{Name: "Ada"}).IsEmpty() {
		t.Error("named user should not be empty")
	}
}
