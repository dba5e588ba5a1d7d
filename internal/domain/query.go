package domain

import "strings"

// Sort keys accepted by the query pipeline
const (
	SortByName     = "name"
	SortByMerchant = "merchant"
	SortByValue    = "value"
	SortByCategory = "category"

	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"

	DefaultLimit = 12
)

// QueryFilters is the complete filter/sort/page state of a product listing
type QueryFilters struct {
	Search    string `json:"search" form:"search"`
	Category  string `json:"category" form:"category"`
	SortBy    string `json:"sortBy" form:"sortBy"`
	SortOrder string `json:"sortOrder" form:"sortOrder"`
	Page      int    `json:"page" form:"page"`
	Limit     int    `json:"limit" form:"limit"`
}

// DefaultQueryFilters returns the initial listing state
func DefaultQueryFilters() QueryFilters {
	return QueryFilters{
		SortBy:    SortByName,
		SortOrder: SortOrderAsc,
		Page:      1,
		Limit:     DefaultLimit,
	}
}

// Normalized returns a copy with out-of-range values replaced by defaults
func (f QueryFilters) Normalized() QueryFilters {
	switch f.SortBy {
	case SortByName, SortByMerchant, SortByValue, SortByCategory:
	default:
		f.SortBy = SortByName
	}
	f.SortOrder = strings.ToLower(f.SortOrder)
	if f.SortOrder != SortOrderDesc {
		f.SortOrder = SortOrderAsc
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	return f
}

// FilterUpdate is a partial change to QueryFilters. Nil fields are left untouched.
type FilterUpdate struct {
	Search    *string
	Category  *string
	SortBy    *string
	SortOrder *string
	Page      *int
	Limit     *int
}

// Apply merges the update into f. Page resets to 1 unless the update sets it.
func (u FilterUpdate) Apply(f QueryFilters) QueryFilters {
	if u.Search != nil {
		f.Search = *u.Search
	}
	if u.Category != nil {
		f.Category = *u.Category
	}
	if u.SortBy != nil {
		f.SortBy = *u.SortBy
	}
	if u.SortOrder != nil {
		f.SortOrder = *u.SortOrder
	}
	if u.Limit != nil {
		f.Limit = *u.Limit
	}
	if u.Page != nil {
		f.Page = *u.Page
	} else {
		f.Page = 1
	}
	return f
}

// PaginationMeta describes where a page sits in the full result set
type PaginationMeta struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

// NewPaginationMeta derives pagination from a total item count and page size
func NewPaginationMeta(page, totalItems, limit int) PaginationMeta {
	return PaginationMeta{
		CurrentPage:  page,
		TotalPages:   CeilDiv(totalItems, limit),
		TotalItems:   totalItems,
		ItemsPerPage: limit,
	}
}

// CeilDiv returns ceil(n/d) for non-negative n and positive d; 0 when d <= 0
func CeilDiv(n, d int) int {
	if d <= 0 || n <= 0 {
		return 0
	}
	return (n + d - 1) / d
}

// ProductPage is the outcome of resolving a QueryFilters
type ProductPage struct {
	Products   []Product      `json:"products"`
	Pagination PaginationMeta `json:"pagination"`
}

// FilterVocabulary lists the distinct values usable as filter options
type FilterVocabulary struct {
	Categories       []string `json:"categories"`
	Merchants        []string `json:"merchants"`
	AllowedCountries []string `json:"allowedCountries"`
}

// EmptyFilterVocabulary returns a vocabulary with non-nil empty lists
func EmptyFilterVocabulary() *FilterVocabulary {
	return &FilterVocabulary{
		Categories:       []string{},
		Merchants:        []string{},
		AllowedCountries: []string{},
	}
}

// CatalogPage is one page of raw records plus the server-reported pagination.
// Zero numeric fields mean the server omitted them.
type CatalogPage struct {
	Products   []RawProduct `json:"products"`
	Page       int          `json:"page"`
	TotalPages int          `json:"totalPages"`
	Total      int          `json:"total"`
}

// SearchParams are the parameters of the catalog search endpoint
type SearchParams struct {
	Merchant string
	Category string
	UseCase  string
	Page     int
	Limit    int
}
