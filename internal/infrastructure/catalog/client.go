package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/giftshelf/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Catalog endpoint paths, relative to the base URL
const (
	productsPath = "/business/products"
	searchPath   = "/business/products/search"
	filtersPath  = "/business/products/filters"
)

// FetchAllPageSize is the page size FetchAll uses to walk the catalog
const FetchAllPageSize = 50

const (
	apiKeyHeader   = "x-api-key"
	userAgent      = "Giftshelf/1.0"
	defaultTimeout = 30 * time.Second
	maxErrorBody   = 512
)

// Client handles communication with the remote product catalog
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	logger      *slog.Logger
	debug       bool
}

// NewClient creates a new catalog API client.
// The static API key is attached to every request.
func NewClient(apiKey, baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		apiKey:      apiKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		rateLimiter: rate.NewLimiter(rate.Limit(10), 20),
		logger:      logger.With("component", "catalog"),
	}
}

// SetDebug enables request/response logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// SetTimeout sets the per-request timeout. Zero disables it.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.httpClient.Timeout = timeout
}

// SetRateLimit sets the outbound request rate (requests per second) and burst
func (c *Client) SetRateLimit(perSecond float64, burst int) {
	if perSecond <= 0 {
		c.rateLimiter = rate.NewLimiter(rate.Inf, 0)
		return
	}
	if burst < 1 {
		burst = 1
	}
	c.rateLimiter = rate.NewLimiter(rate.Limit(perSecond), burst)
}

// catalogResponse is the wire shape of the list and search endpoints.
// Products is a pointer so a missing field can be told apart from an empty list.
type catalogResponse struct {
	Products   *[]domain.RawProduct `json:"products"`
	Page       int                  `json:"page"`
	TotalPages int                  `json:"totalPages"`
	Total      int                  `json:"total"`
}

type filtersResponse struct {
	Categories       []string `json:"categories"`
	Merchants        []string `json:"merchants"`
	AllowedCountries []string `json:"allowedCountries"`
}

// FetchPage fetches one page of the product list
func (c *Client) FetchPage(ctx context.Context, page, limit int) (*domain.CatalogPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))

	return c.getProducts(ctx, productsPath, params)
}

// FetchAll walks every page of the product list with FetchAllPageSize and concatenates the records.
// Any failing page fails the whole call.
func (c *Client) FetchAll(ctx context.Context) ([]domain.RawProduct, error) {
	var all []domain.RawProduct

	page, totalPages := 1, 1
	for page <= totalPages {
		resp, err := c.FetchPage(ctx, page, FetchAllPageSize)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d: %w", page, err)
		}

		all = append(all, resp.Products...)

		totalPages = resp.TotalPages
		if totalPages < 1 {
			totalPages = 1
		}
		page++
	}

	c.logger.Debug("fetched full catalog", "products", len(all), "pages", totalPages)
	return all, nil
}

// Search queries the dedicated search endpoint. Empty parameters are not sent.
func (c *Client) Search(ctx context.Context, p domain.SearchParams) (*domain.CatalogPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(p.Page))
	params.Set("limit", strconv.Itoa(p.Limit))
	if p.Merchant != "" {
		params.Set("merchant", p.Merchant)
	}
	if p.Category != "" {
		params.Set("category", p.Category)
	}
	if p.UseCase != "" {
		params.Set("useCase", p.UseCase)
	}

	return c.getProducts(ctx, searchPath, params)
}

// FetchFilterVocabulary fetches the filter options endpoint.
// Missing lists come back empty, never nil.
func (c *Client) FetchFilterVocabulary(ctx context.Context) (*domain.FilterVocabulary, error) {
	var resp filtersResponse
	if err := c.getJSON(ctx, filtersPath, nil, &resp); err != nil {
		return nil, err
	}

	vocab := domain.EmptyFilterVocabulary()
	if resp.Categories != nil {
		vocab.Categories = resp.Categories
	}
	if resp.Merchants != nil {
		vocab.Merchants = resp.Merchants
	}
	if resp.AllowedCountries != nil {
		vocab.AllowedCountries = resp.AllowedCountries
	}
	return vocab, nil
}

func (c *Client) getProducts(ctx context.Context, path string, params url.Values) (*domain.CatalogPage, error) {
	var resp catalogResponse
	if err := c.getJSON(ctx, path, params, &resp); err != nil {
		return nil, err
	}

	if resp.Products == nil {
		return nil, fmt.Errorf("%w: missing products field", domain.ErrInvalidResponseShape)
	}

	return &domain.CatalogPage{
		Products:   *resp.Products,
		Page:       resp.Page,
		TotalPages: resp.TotalPages,
		Total:      resp.Total,
	}, nil
}

// getJSON executes a GET request with the API key header and decodes a 2xx JSON body into out
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %w", domain.ErrCatalogUnavailable, err)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	if c.debug {
		c.logger.Debug("catalog request", "url", reqURL)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %w", domain.ErrCatalogUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("catalog API error", "path", path, "status", resp.StatusCode, "body", truncate(body, maxErrorBody))
		return fmt.Errorf("%w: status %d", domain.ErrCatalogUnavailable, resp.StatusCode)
	}

	if c.debug {
		c.logger.Debug("catalog response", "path", path, "status", resp.StatusCode, "bytes", len(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode: %w", domain.ErrInvalidResponseShape, err)
	}
	return nil
}

func truncate(body []byte, n int) string {
	if len(body) <= n {
		return string(body)
	}
	return string(body[:n]) + "..."
}
