package cli

import (
	"fmt"
	"log/slog"

	"github.com/giftshelf/backend/config"
	"github.com/giftshelf/backend/internal/infrastructure/cache"
	"github.com/giftshelf/backend/internal/infrastructure/catalog"
	"github.com/giftshelf/backend/internal/logging"
	"github.com/giftshelf/backend/internal/usecase"
	"github.com/spf13/cobra"
)

var (
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string
	flagJSON      bool

	logger *slog.Logger
	cfg    *config.Config
)

// NewRootCmd creates the root cobra command for the giftshelf CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "giftshelf",
		Short: "Browse the gift card catalog",
		Long:  "giftshelf queries the gift card catalog API with the same pipeline the HTTP server uses.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flagDebug {
				flagLogLevel = "debug"
			}
			logger = logging.NewLoggerWithWriter(logging.ParseLevel(flagLogLevel), flagLogFormat, cmd.ErrOrStderr())

			loaded, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging and catalog request dumps")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")
	root.PersistentFlags().BoolVar(&flagJSON, "json", false, "Print results as JSON")

	root.AddCommand(
		newProductsCmd(),
		newProductCmd(),
		newFiltersCmd(),
	)

	return root
}

// newCatalogService wires a catalog service from the loaded config.
// An empty mode keeps the configured one.
func newCatalogService(mode string) (*usecase.CatalogService, func(), error) {
	client := catalog.NewClient(cfg.Catalog.APIKey, cfg.Catalog.BaseURL, logger)
	client.SetTimeout(cfg.Catalog.Timeout)
	client.SetRateLimit(cfg.Catalog.RateLimit, cfg.Catalog.RateBurst)
	client.SetDebug(flagDebug || cfg.Catalog.Debug)

	if mode == "" {
		mode = cfg.Catalog.Mode
	}

	memoryCache := cache.NewMemoryCache()
	service, err := usecase.NewCatalogService(client, memoryCache, usecase.CatalogServiceConfig{
		Mode:           mode,
		VocabularyMode: cfg.Catalog.VocabularyMode,
		SnapshotTTL:    cfg.Cache.TTL,
	}, logger)
	if err != nil {
		memoryCache.Close()
		return nil, nil, fmt.Errorf("create catalog service: %w", err)
	}
	return service, func() { memoryCache.Close() }, nil
}
