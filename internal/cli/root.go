// Package cli implements portalctl, the maintenance tool for persisted
// learner state.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"pathportal/internal/app"
	"pathportal/internal/catalog"
	"pathportal/internal/domain/ports"
	"pathportal/internal/persist"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	Backend         string
	StorePath       string
	SpillDir        string
	CatalogPath     string
	RedisURL        string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
	Timeout         time.Duration
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

var validBackends = []string{app.BackendBadger, app.BackendMemory, app.BackendRedis, app.BackendMongo}

// NewRootCommand builds portalctl. Backend flags default to the same
// environment variables the server reads.
func NewRootCommand() *cobra.Command {
	cfg := app.LoadConfig()
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "portalctl",
		Short: "Inspect and maintain persisted learner state",
		Long: `portalctl exports, imports and prunes the progress, bookmark and note
documents stored by the learning portal, and prints learner statistics.`,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if !contains(validBackends, opts.Backend) {
				return fmt.Errorf("invalid backend %q: must be one of %v", opts.Backend, validBackends)
			}
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	flags.StringVar(&opts.Backend, "backend", cfg.StoreBackend, "store backend (badger|memory|redis|mongo)")
	flags.StringVar(&opts.StorePath, "store-path", cfg.StorePath, "badger data directory")
	flags.StringVar(&opts.SpillDir, "spill-dir", cfg.StoreSpillDir, "memory backend spill directory")
	flags.StringVar(&opts.CatalogPath, "catalog", cfg.CatalogPath, "topic catalog YAML (built-in when empty)")
	flags.StringVar(&opts.RedisURL, "redis-url", cfg.RedisURL, "redis connection URL")
	flags.StringVar(&opts.MongoURI, "mongo-uri", cfg.MongoURI, "mongo connection URI")
	flags.StringVar(&opts.MongoDatabase, "mongo-db", cfg.MongoDatabase, "mongo database")
	flags.StringVar(&opts.MongoCollection, "mongo-collection", cfg.MongoCollection, "mongo collection")
	flags.DurationVar(&opts.Timeout, "timeout", cfg.StoreTimeout, "per-operation backend timeout")

	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewPruneCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))

	return cmd
}

func (o *RootOptions) config() app.Config {
	return app.Config{
		StoreBackend:    o.Backend,
		StorePath:       o.StorePath,
		StoreSpillDir:   o.SpillDir,
		StoreTimeout:    o.Timeout,
		RedisURL:        o.RedisURL,
		MongoURI:        o.MongoURI,
		MongoDatabase:   o.MongoDatabase,
		MongoCollection: o.MongoCollection,
		CatalogPath:     o.CatalogPath,
	}
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// session is an open backend plus the adapter wrapping it.
type session struct {
	backend ports.KeyValueStore
	adapter *persist.Adapter
}

func (o *RootOptions) openSession(ctx context.Context, f *OutputFormatter) (*session, error) {
	level := slog.LevelWarn
	if o.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(f.GetErrWriter(), &slog.HandlerOptions{Level: level}))

	cfg := o.config()
	f.VerboseLog("Opening %s backend", cfg.StoreBackend)
	backend, err := app.OpenBackend(ctx, cfg, logger)
	if err != nil {
		return nil, f.fail(ExitCommandError, ErrCodeBackend, "open backend", err)
	}
	adapter := persist.NewAdapter(backend, persist.WithLogger(logger), persist.WithTimeout(cfg.StoreTimeout))
	return &session{backend: backend, adapter: adapter}, nil
}

func (s *session) Close() {
	_ = s.backend.Close()
}

func (o *RootOptions) loadCatalog(f *OutputFormatter) (*catalog.Catalog, error) {
	cat, err := catalog.LoadFile(o.CatalogPath)
	if err != nil {
		return nil, f.fail(ExitCommandError, ErrCodeCatalog, "load catalog", err)
	}
	f.VerboseLog("Loaded %d topic(s)", cat.Len())
	return cat, nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
