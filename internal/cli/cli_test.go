package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/giftshelf/backend/internal/domain"
)

var testProducts = []map[string]any{
	{"_id": "a1", "merchant": "Amazon", "description": "Amazon.de Gift Card", "category": "Shopping", "country": []string{"DE"}, "currency": "EUR", "maxPrice": 50},
	{"_id": "z1", "merchant": "Zalando", "category": []string{"Fashion"}, "country": "DE", "currency": "EUR", "maxPrice": 100},
	{"_id": "n1", "merchant": "Netflix", "category": "Entertainment", "country": "US", "currency": "USD", "maxPrice": 25, "denominations": []float64{15, 25}},
}

type catalogServer struct {
	mu      sync.Mutex
	queries []string
	apiKeys []string
}

// startCatalogServer serves testProducts the way the remote catalog API does
func startCatalogServer(t *testing.T) *catalogServer {
	t.Helper()
	cs := &catalogServer{}

	mux := http.NewServeMux()
	mux.HandleFunc("/business/products", func(w http.ResponseWriter, r *http.Request) {
		cs.record(r)
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		start := min((page-1)*limit, len(testProducts))
		end := min(start+limit, len(testProducts))
		json.NewEncoder(w).Encode(map[string]any{
			"products":   testProducts[start:end],
			"page":       page,
			"totalPages": domain.CeilDiv(len(testProducts), limit),
			"total":      len(testProducts),
		})
	})
	mux.HandleFunc("/business/products/search", func(w http.ResponseWriter, r *http.Request) {
		cs.record(r)
		merchant := r.URL.Query().Get("merchant")
		var matched []map[string]any
		for _, p := range testProducts {
			if strings.EqualFold(p["merchant"].(string), merchant) {
				matched = append(matched, p)
			}
		}
		json.NewEncoder(w).Encode(map[string]any{"products": matched, "page": 1, "totalPages": 1, "total": len(matched)})
	})
	mux.HandleFunc("/business/products/filters", func(w http.ResponseWriter, r *http.Request) {
		cs.record(r)
		json.NewEncoder(w).Encode(map[string]any{
			"categories":       []string{"Shopping", "Fashion", "Entertainment"},
			"merchants":        []string{"Amazon", "Zalando", "Netflix"},
			"allowedCountries": []string{"DE", "US"},
		})
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	t.Setenv("GIFTSHELF_CATALOG_API_KEY", "cli-test-key")
	t.Setenv("GIFTSHELF_CATALOG_BASE_URL", ts.URL)
	return cs
}

func (cs *catalogServer) record(r *http.Request) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.queries = append(cs.queries, r.URL.Path+"?"+r.URL.RawQuery)
	cs.apiKeys = append(cs.apiKeys, r.Header.Get("x-api-key"))
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()

	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestProductsCommand(t *testing.T) {
	cs := startCatalogServer(t)

	output, err := runCLI(t, "products")
	if err != nil {
		t.Fatalf("products error: %v\noutput: %s", err, output)
	}

	amazon := strings.Index(output, "Amazon.de Gift Card")
	netflix := strings.Index(output, "Netflix Gift Card")
	zalando := strings.Index(output, "Zalando Gift Card")
	if amazon < 0 || netflix < 0 || zalando < 0 {
		t.Fatalf("expected all products in output, got: %s", output)
	}
	if !(amazon < netflix && netflix < zalando) {
		t.Errorf("expected products sorted by name, got: %s", output)
	}
	if !strings.Contains(output, "Page 1 of 1 (3 products)") {
		t.Errorf("expected pagination footer, got: %s", output)
	}
	for _, key := range cs.apiKeys {
		if key != "cli-test-key" {
			t.Errorf("x-api-key = %q, want cli-test-key", key)
		}
	}
}

func TestProductsCommand_ClientModeSortAndPage(t *testing.T) {
	startCatalogServer(t)

	output, err := runCLI(t, "--json", "products", "--mode", "client", "--sort-by", "value", "--sort-order", "desc", "--limit", "2", "--page", "2")
	if err != nil {
		t.Fatalf("products error: %v\noutput: %s", err, output)
	}

	var page domain.ProductPage
	if err := json.Unmarshal([]byte(output), &page); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, output)
	}
	if len(page.Products) != 1 || page.Products[0].ID != "n1" {
		t.Errorf("page 2 = %+v, want only n1", page.Products)
	}
	want := domain.PaginationMeta{CurrentPage: 2, TotalPages: 2, TotalItems: 3, ItemsPerPage: 2}
	if page.Pagination != want {
		t.Errorf("pagination = %+v, want %+v", page.Pagination, want)
	}
}

func TestProductsCommand_ServerSearch(t *testing.T) {
	cs := startCatalogServer(t)

	output, err := runCLI(t, "products", "--search", "Zalando")
	if err != nil {
		t.Fatalf("products error: %v\noutput: %s", err, output)
	}
	if !strings.Contains(output, "Zalando Gift Card") || strings.Contains(output, "Amazon") {
		t.Errorf("expected only Zalando in output, got: %s", output)
	}

	cs.mu.Lock()
	defer cs.mu.Unlock()
	if len(cs.queries) != 1 || !strings.HasPrefix(cs.queries[0], "/business/products/search?") {
		t.Fatalf("queries = %v, want one search request", cs.queries)
	}
	if strings.Contains(cs.queries[0], "category=") || strings.Contains(cs.queries[0], "useCase=") {
		t.Errorf("empty search parameters should be omitted: %s", cs.queries[0])
	}
}

func TestProductsCommand_FetchFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(ts.Close)
	t.Setenv("GIFTSHELF_CATALOG_API_KEY", "cli-test-key")
	t.Setenv("GIFTSHELF_CATALOG_BASE_URL", ts.URL)

	_, err := runCLI(t, "products")
	if err == nil {
		t.Fatal("expected error for failing catalog")
	}
	if err.Error() != domain.MessageFetchProducts {
		t.Errorf("error = %q, want %q", err.Error(), domain.MessageFetchProducts)
	}
}

func TestProductCommand(t *testing.T) {
	startCatalogServer(t)

	output, err := runCLI(t, "product", "n1")
	if err != nil {
		t.Fatalf("product error: %v\noutput: %s", err, output)
	}
	for _, want := range []string{"Netflix Gift Card", "Netflix gift card for US", "25.00 USD", "15.00, 25.00"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestProductCommand_NotFound(t *testing.T) {
	startCatalogServer(t)

	_, err := runCLI(t, "product", "missing")
	if err == nil {
		t.Fatal("expected error for unknown product")
	}
	if err.Error() != domain.MessageProductNotFound {
		t.Errorf("error = %q, want %q", err.Error(), domain.MessageProductNotFound)
	}
}

func TestProductCommand_RequiresID(t *testing.T) {
	startCatalogServer(t)

	if _, err := runCLI(t, "product"); err == nil {
		t.Fatal("expected error without id argument")
	}
}

func TestFiltersCommand(t *testing.T) {
	startCatalogServer(t)

	output, err := runCLI(t, "filters")
	if err != nil {
		t.Fatalf("filters error: %v\noutput: %s", err, output)
	}
	for _, want := range []string{
		"Categories: Shopping, Fashion, Entertainment",
		"Merchants: Amazon, Zalando, Netflix",
		"Countries: DE, US",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestFiltersCommand_LegacyVocabulary(t *testing.T) {
	startCatalogServer(t)
	t.Setenv("GIFTSHELF_CATALOG_VOCABULARY_MODE", "legacy")

	output, err := runCLI(t, "filters")
	if err != nil {
		t.Fatalf("filters error: %v\noutput: %s", err, output)
	}
	if !strings.Contains(output, "Categories: Shopping, Fashion, Entertainment") {
		t.Errorf("expected categories in catalog order, got: %s", output)
	}
	if !strings.Contains(output, "Merchants: (none)") {
		t.Errorf("legacy mode has no merchants, got: %s", output)
	}
}

func TestMissingAPIKey(t *testing.T) {
	t.Setenv("GIFTSHELF_CATALOG_API_KEY", "")

	_, err := runCLI(t, "filters")
	if err == nil || !strings.Contains(err.Error(), "catalog API key is required") {
		t.Errorf("error = %v, want missing API key", err)
	}
}
