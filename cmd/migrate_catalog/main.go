package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kapu/affiliate-hub-go/internal/catalog"
	"github.com/kapu/affiliate-hub-go/internal/config"
	"github.com/kapu/affiliate-hub-go/internal/constants"
	"github.com/kapu/affiliate-hub-go/internal/domain"
	"github.com/kapu/affiliate-hub-go/internal/service/cache"
	"github.com/kapu/affiliate-hub-go/internal/service/database"
	"github.com/kapu/affiliate-hub-go/internal/service/scraper"
	"github.com/kapu/affiliate-hub-go/internal/util"
)

type options struct {
	file          string
	resolveImages bool
	useCache      bool
	dryRun        bool
	verify        bool
	verbose       bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "migrate_catalog",
		Short: "Load a catalog JSON file into the PostgreSQL snapshot table",
		Long: `Reads a JSON array of tools (the bundled dataset when --file is empty),
optionally fills missing preview images from each tool's landing page and
replaces the catalog snapshot stored in PostgreSQL.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "catalog JSON file (defaults to the bundled dataset)")
	cmd.Flags().BoolVar(&opts.resolveImages, "resolve-images", false, "fetch og:image for tools with a placeholder image")
	cmd.Flags().BoolVar(&opts.useCache, "cache", false, "cache resolved images in Redis")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "validate and print a summary without writing to the database")
	cmd.Flags().BoolVar(&opts.verify, "verify", false, "read the snapshot back and compare it with the input")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	return cmd
}

func run(cmd *cobra.Command, opts *options) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := "info"
	if opts.verbose {
		level = "debug"
	}
	logger, err := util.NewLogger(level, cfg.Logging.File)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	tools, err := loadTools(opts.file)
	if err != nil {
		return err
	}
	logger.Info("Catalog loaded", zap.String("file", sourceName(opts.file)), zap.Int("tools", len(tools)))

	if err := validateTools(tools); err != nil {
		return fmt.Errorf("catalog validation failed: %w", err)
	}

	if opts.resolveImages {
		var imageCache scraper.Cache
		if opts.useCache {
			cacheSvc, err := cache.NewCacheService(cache.CacheConfig{
				Host:     cfg.Redis.Host,
				Port:     cfg.Redis.Port,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			}, logger)
			if err != nil {
				logger.Warn("Redis unavailable, resolving images without cache", zap.Error(err))
			} else {
				defer cacheSvc.Close()
				imageCache = cacheSvc
			}
		}

		var filled int
		tools, filled = scraper.NewImageResolver(imageCache, logger).FillMissing(ctx, tools)
		logger.Info("Preview images resolved", zap.Int("filled", filled))
	}

	if opts.dryRun {
		printSummary(cmd.OutOrStdout(), tools)
		return nil
	}

	pgCfg := database.PostgresConfig{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		Database: cfg.Postgres.Database,
	}
	if !pgCfg.Enabled() {
		return fmt.Errorf("POSTGRES_HOST is not set (use --dry-run to validate only)")
	}

	postgresSvc, err := database.NewPostgresService(pgCfg, logger)
	if err != nil {
		return err
	}
	defer postgresSvc.Close()

	writeCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	repo := database.NewToolRepository(postgresSvc.GetDB(), logger)
	if err := repo.EnsureSchema(writeCtx); err != nil {
		return err
	}
	if err := repo.ReplaceAll(writeCtx, tools); err != nil {
		return err
	}

	logger.Info("Catalog snapshot replaced", zap.Int("tools", len(tools)))

	if opts.verify {
		stored, err := repo.LoadAll(writeCtx)
		if err != nil {
			return err
		}
		if err := compareSnapshot(tools, stored); err != nil {
			return fmt.Errorf("snapshot verification failed: %w", err)
		}
		logger.Info("Snapshot verified", zap.Int("tools", len(stored)))
	}
	return nil
}

// compareSnapshot checks that stored holds the same ids in the same order as want.
func compareSnapshot(want, stored []domain.Tool) error {
	if len(want) != len(stored) {
		return fmt.Errorf("expected %d tools, found %d", len(want), len(stored))
	}
	for i := range want {
		if want[i].ID != stored[i].ID {
			return fmt.Errorf("position %d: expected id %q, found %q", i, want[i].ID, stored[i].ID)
		}
	}
	return nil
}

func loadTools(path string) ([]domain.Tool, error) {
	if path == "" {
		return catalog.DefaultTools(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	tools, err := catalog.DecodeTools(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return tools, nil
}

func validateTools(tools []domain.Tool) error {
	if len(tools) == 0 {
		return fmt.Errorf("catalog is empty")
	}

	seen := make(map[string]bool, len(tools))
	for i, t := range tools {
		if seen[t.ID] {
			return fmt.Errorf("tool %d (%s): duplicate id %q", i, t.Name, t.ID)
		}
		seen[t.ID] = true

		if !strings.HasPrefix(t.AffiliateLink, "http") && t.AffiliateLink != constants.CatalogDefaults.AffiliateLink {
			return fmt.Errorf("tool %d (%s): invalid affiliate link %q", i, t.Name, t.AffiliateLink)
		}
	}
	return nil
}

func printSummary(w io.Writer, tools []domain.Tool) {
	stats := catalog.Aggregate(tools)
	fmt.Fprintf(w, "%d tool(s) ready to migrate\n", stats.Total)
	for _, c := range stats.Categories {
		fmt.Fprintf(w, "  %-20s %d\n", c.Category, c.Count)
	}
	for _, t := range tools {
		fmt.Fprintf(w, "  [%s] %s\n", t.ID, t.Name)
	}
}

func sourceName(path string) string {
	if path == "" {
		return "bundled"
	}
	return path
}
