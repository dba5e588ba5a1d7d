package usecase

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/giftshelf/backend/internal/domain"
	"github.com/giftshelf/backend/internal/infrastructure/catalog"
)

// Query strategies selectable by configuration
const (
	ModeServer = "server"
	ModeClient = "client"
)

// Strategy turns a filter state into one page of products
type Strategy interface {
	Resolve(ctx context.Context, filters domain.QueryFilters) (*domain.ProductPage, error)
}

// NewStrategy returns the strategy registered under mode
func NewStrategy(mode string, client domain.CatalogClient, snapshot *CatalogSnapshot) (Strategy, error) {
	switch mode {
	case ModeServer:
		return NewServerDelegatedStrategy(client), nil
	case ModeClient:
		return NewClientFilteredStrategy(snapshot), nil
	default:
		return nil, fmt.Errorf("unknown query mode %q (want %q or %q)", mode, ModeServer, ModeClient)
	}
}

// ServerDelegatedStrategy lets the catalog filter and paginate.
// Sorting applies to the returned page only, so ordering is not global across pages.
type ServerDelegatedStrategy struct {
	client domain.CatalogClient
}

// NewServerDelegatedStrategy creates a strategy that filters on the catalog server
func NewServerDelegatedStrategy(client domain.CatalogClient) *ServerDelegatedStrategy {
	return &ServerDelegatedStrategy{client: client}
}

// Resolve fetches one page (search endpoint when search or category is set) and sorts it
func (s *ServerDelegatedStrategy) Resolve(ctx context.Context, filters domain.QueryFilters) (*domain.ProductPage, error) {
	filters = filters.Normalized()

	var (
		resp *domain.CatalogPage
		err  error
	)
	if filters.Search != "" || filters.Category != "" {
		resp, err = s.client.Search(ctx, domain.SearchParams{
			Merchant: filters.Search,
			Category: filters.Category,
			Page:     filters.Page,
			Limit:    filters.Limit,
		})
	} else {
		resp, err = s.client.FetchPage(ctx, filters.Page, filters.Limit)
	}
	if err != nil {
		return nil, err
	}

	products := catalog.NormalizeAll(resp.Products)
	sortProducts(products, filters.SortBy, filters.SortOrder)

	return &domain.ProductPage{
		Products:   products,
		Pagination: serverPagination(resp, filters, len(products)),
	}, nil
}

// serverPagination trusts the server's numbers and only fills in what it omitted
func serverPagination(resp *domain.CatalogPage, filters domain.QueryFilters, count int) domain.PaginationMeta {
	currentPage := resp.Page
	if currentPage == 0 {
		currentPage = filters.Page
	}

	totalItems := resp.Total
	if totalItems == 0 {
		totalItems = count
	}

	totalPages := resp.TotalPages
	if totalPages == 0 {
		totalPages = domain.CeilDiv(totalItems, filters.Limit)
	}

	return domain.PaginationMeta{
		CurrentPage:  currentPage,
		TotalPages:   totalPages,
		TotalItems:   totalItems,
		ItemsPerPage: filters.Limit,
	}
}

// ClientFilteredStrategy fetches the whole catalog and filters, sorts and paginates locally
type ClientFilteredStrategy struct {
	snapshot *CatalogSnapshot
}

// NewClientFilteredStrategy creates a strategy that filters over the full catalog
func NewClientFilteredStrategy(snapshot *CatalogSnapshot) *ClientFilteredStrategy {
	return &ClientFilteredStrategy{snapshot: snapshot}
}

// Resolve applies search, category, sort and pagination, in that order
func (s *ClientFilteredStrategy) Resolve(ctx context.Context, filters domain.QueryFilters) (*domain.ProductPage, error) {
	filters = filters.Normalized()

	raws, err := s.snapshot.Load(ctx)
	if err != nil {
		return nil, err
	}

	products := catalog.NormalizeAll(raws)
	products = filterBySearch(products, filters.Search)
	products = filterByCategory(products, filters.Category)
	sortProducts(products, filters.SortBy, filters.SortOrder)

	return &domain.ProductPage{
		Products:   paginate(products, filters.Page, filters.Limit),
		Pagination: domain.NewPaginationMeta(filters.Page, len(products), filters.Limit),
	}, nil
}

// filterBySearch keeps products whose name, description or merchant contains term, ignoring case
func filterBySearch(products []domain.Product, term string) []domain.Product {
	if term == "" {
		return products
	}
	term = strings.ToLower(term)

	return slices.DeleteFunc(products, func(p domain.Product) bool {
		return !strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) &&
			!strings.Contains(strings.ToLower(p.Merchant), term)
	})
}

// filterByCategory keeps products whose normalized category equals category exactly
func filterByCategory(products []domain.Product, category string) []domain.Product {
	if category == "" {
		return products
	}
	return slices.DeleteFunc(products, func(p domain.Product) bool {
		return p.Category != category
	})
}

// sortProducts sorts in place. Ties keep their input order.
func sortProducts(products []domain.Product, sortBy, sortOrder string) {
	slices.SortStableFunc(products, func(a, b domain.Product) int {
		if sortOrder == domain.SortOrderDesc {
			return compareProducts(b, a, sortBy)
		}
		return compareProducts(a, b, sortBy)
	})
}

// compareProducts orders by the sort key; "value" means maxPrice and strings ignore case
func compareProducts(a, b domain.Product, sortBy string) int {
	switch sortBy {
	case domain.SortByValue:
		return cmp.Compare(a.MaxPrice, b.MaxPrice)
	case domain.SortByMerchant:
		return cmp.Compare(strings.ToLower(a.Merchant), strings.ToLower(b.Merchant))
	case domain.SortByCategory:
		return cmp.Compare(strings.ToLower(a.Category), strings.ToLower(b.Category))
	default:
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	}
}

// paginate returns the 1-based page of size limit, empty past the end
func paginate(products []domain.Product, page, limit int) []domain.Product {
	start := (page - 1) * limit
	if start >= len(products) {
		return []domain.Product{}
	}
	end := min(start+limit, len(products))
	return products[start:end]
}
