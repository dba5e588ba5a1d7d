package usecase

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/giftshelf/backend/internal/domain"
)

// MockCatalogClient is a mock implementation of domain.CatalogClient
type MockCatalogClient struct {
	mu sync.Mutex

	pageResult   *domain.CatalogPage
	pageError    error
	searchResult *domain.CatalogPage
	searchError  error
	allResult    []domain.RawProduct
	allError     error
	vocabResult  *domain.FilterVocabulary
	vocabError   error

	// fetchAllGate, when set, blocks FetchAll until it is closed
	fetchAllGate chan struct{}

	lastSearch    domain.SearchParams
	lastPage      [2]int
	pageCalls     atomic.Int32
	searchCalls   atomic.Int32
	fetchAllCalls atomic.Int32
}

func NewMockCatalogClient() *MockCatalogClient {
	return &MockCatalogClient{}
}

func (m *MockCatalogClient) FetchPage(ctx context.Context, page, limit int) (*domain.CatalogPage, error) {
	m.pageCalls.Add(1)
	m.mu.Lock()
	m.lastPage = [2]int{page, limit}
	m.mu.Unlock()
	if m.pageError != nil {
		return nil, m.pageError
	}
	return clonePage(m.pageResult), nil
}

func (m *MockCatalogClient) FetchAll(ctx context.Context) ([]domain.RawProduct, error) {
	m.fetchAllCalls.Add(1)
	if m.fetchAllGate != nil {
		<-m.fetchAllGate
	}
	if m.allError != nil {
		return nil, m.allError
	}
	return append([]domain.RawProduct(nil), m.allResult...), nil
}

func (m *MockCatalogClient) Search(ctx context.Context, params domain.SearchParams) (*domain.CatalogPage, error) {
	m.searchCalls.Add(1)
	m.mu.Lock()
	m.lastSearch = params
	m.mu.Unlock()
	if m.searchError != nil {
		return nil, m.searchError
	}
	return clonePage(m.searchResult), nil
}

func (m *MockCatalogClient) FetchFilterVocabulary(ctx context.Context) (*domain.FilterVocabulary, error) {
	if m.vocabError != nil {
		return nil, m.vocabError
	}
	return m.vocabResult, nil
}

func clonePage(page *domain.CatalogPage) *domain.CatalogPage {
	if page == nil {
		return &domain.CatalogPage{Products: []domain.RawProduct{}}
	}
	clone := *page
	clone.Products = append([]domain.RawProduct(nil), page.Products...)
	return &clone
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// sampleCatalog is a small catalog with mixed category and country shapes
func sampleCatalog() []domain.RawProduct {
	return []domain.RawProduct{
		{ID: "1", Merchant: "Amazon", Category: domain.StringList{"shopping", "retail"}, Country: domain.StringList{"US"}, MaxPrice: 30},
		{ID: "2", Merchant: "Steam", Category: domain.StringList{"gaming"}, Country: domain.StringList{"US", "CA"}, MaxPrice: 10},
		{ID: "3", Merchant: "Nike", Description: "Nike running", Category: domain.StringList{"apparel"}, MaxPrice: 20},
		{ID: "4", Merchant: "Xbox", Category: domain.StringList{"gaming"}, MaxPrice: 50},
		{ID: "5", Merchant: "Target", Category: domain.StringList{"retail", "shopping"}, MaxPrice: 40},
	}
}

func productIDs(products []domain.Product) []string {
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}
