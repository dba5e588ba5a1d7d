package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/giftshelf/backend/internal/domain"
)

var (
	// ErrSuperseded is returned to a request whose result was discarded because a newer one started
	ErrSuperseded = errors.New("request superseded by a newer request")

	// ErrViewClosed is returned once a view has been torn down
	ErrViewClosed = errors.New("view closed")
)

// ProductResolver resolves a filter state into a page of products
type ProductResolver interface {
	Resolve(ctx context.Context, filters domain.QueryFilters) (*domain.ProductPage, error)
}

// ProductLookup finds a single product
type ProductLookup interface {
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
}

// requestTracker enforces last-request-wins: starting a request cancels the
// previous one, and only the newest request may commit state.
type requestTracker struct {
	generation uint64
	cancel     context.CancelFunc
	closed     bool
}

// begin must be called with the owner's lock held
func (t *requestTracker) begin(ctx context.Context) (context.Context, uint64, error) {
	if t.closed {
		return nil, 0, ErrViewClosed
	}
	if t.cancel != nil {
		t.cancel()
	}
	t.generation++
	reqCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	return reqCtx, t.generation, nil
}

// current must be called with the owner's lock held
func (t *requestTracker) current(gen uint64) bool {
	return !t.closed && gen == t.generation
}

// done must be called with the owner's lock held, and only for the current generation
func (t *requestTracker) done() {
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

func (t *requestTracker) close() {
	t.closed = true
	t.generation++
	t.done()
}

// ProductsState is a point-in-time copy of a ProductsView
type ProductsState struct {
	Filters    domain.QueryFilters
	Products   []domain.Product
	Pagination *domain.PaginationMeta
	Loading    bool
	Error      string
}

// ProductsView holds a listing's filter state and the results of its most recent query
type ProductsView struct {
	resolver ProductResolver

	mu      sync.Mutex
	state   ProductsState
	tracker requestTracker
}

// NewProductsView creates a view starting from the default filters
func NewProductsView(resolver ProductResolver) *ProductsView {
	return &ProductsView{
		resolver: resolver,
		state:    ProductsState{Filters: domain.DefaultQueryFilters()},
	}
}

// UpdateFilters merges update into the filters (page resets to 1 unless update sets it) and re-queries
func (v *ProductsView) UpdateFilters(ctx context.Context, update domain.FilterUpdate) error {
	v.mu.Lock()
	if v.tracker.closed {
		v.mu.Unlock()
		return ErrViewClosed
	}
	v.state.Filters = update.Apply(v.state.Filters).Normalized()
	v.mu.Unlock()

	return v.Retry(ctx)
}

// Retry re-runs the query for the current filters
func (v *ProductsView) Retry(ctx context.Context) error {
	v.mu.Lock()
	reqCtx, gen, err := v.tracker.begin(ctx)
	if err != nil {
		v.mu.Unlock()
		return err
	}
	filters := v.state.Filters
	v.state.Loading = true
	v.state.Error = ""
	v.mu.Unlock()

	page, err := v.resolver.Resolve(reqCtx, filters)

	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.tracker.current(gen) {
		return ErrSuperseded
	}
	v.tracker.done()
	v.state.Loading = false

	if err != nil {
		v.state.Error = domain.MessageFetchProducts
		return err
	}

	pagination := page.Pagination
	v.state.Products = page.Products
	v.state.Pagination = &pagination
	return nil
}

// Snapshot returns a copy of the current state
func (v *ProductsView) Snapshot() ProductsState {
	v.mu.Lock()
	defer v.mu.Unlock()

	state := v.state
	state.Products = append([]domain.Product(nil), v.state.Products...)
	if v.state.Pagination != nil {
		pagination := *v.state.Pagination
		state.Pagination = &pagination
	}
	return state
}

// Close cancels any in-flight query; late results are dropped
func (v *ProductsView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tracker.close()
}

// ProductDetailState is a point-in-time copy of a ProductDetailView
type ProductDetailState struct {
	ID      string
	Product *domain.Product
	Loading bool
	Error   string
}

// ProductDetailView holds the product shown on a detail page
type ProductDetailView struct {
	lookup ProductLookup

	mu      sync.Mutex
	state   ProductDetailState
	tracker requestTracker
}

// NewProductDetailView creates an empty detail view
func NewProductDetailView(lookup ProductLookup) *ProductDetailView {
	return &ProductDetailView{lookup: lookup}
}

// Load switches the view to id and fetches it
func (v *ProductDetailView) Load(ctx context.Context, id string) error {
	v.mu.Lock()
	if v.tracker.closed {
		v.mu.Unlock()
		return ErrViewClosed
	}
	v.state.ID = id
	v.mu.Unlock()

	return v.Retry(ctx)
}

// Retry re-fetches the current product
func (v *ProductDetailView) Retry(ctx context.Context) error {
	v.mu.Lock()
	reqCtx, gen, err := v.tracker.begin(ctx)
	if err != nil {
		v.mu.Unlock()
		return err
	}
	id := v.state.ID
	v.state.Loading = true
	v.state.Error = ""
	v.mu.Unlock()

	product, err := v.lookup.GetProductByID(reqCtx, id)

	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.tracker.current(gen) {
		return ErrSuperseded
	}
	v.tracker.done()
	v.state.Loading = false

	if err != nil {
		v.state.Product = nil
		v.state.Error = domain.MessageProductNotFound
		return err
	}
	v.state.Product = product
	return nil
}

// Snapshot returns a copy of the current state
func (v *ProductDetailView) Snapshot() ProductDetailState {
	v.mu.Lock()
	defer v.mu.Unlock()

	state := v.state
	if v.state.Product != nil {
		product := *v.state.Product
		state.Product = &product
	}
	return state
}

// Close cancels any in-flight lookup; late results are dropped
func (v *ProductDetailView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tracker.close()
}
