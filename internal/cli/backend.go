package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/bookql/internal/catalog"
	"github.com/roach88/bookql/internal/config"
	"github.com/roach88/bookql/internal/memstore"
	"github.com/roach88/bookql/internal/model"
	"github.com/roach88/bookql/internal/store"
)

// BackendOptions selects the catalogue a command reads from. Empty fields
// fall back to the store section of the config.
type BackendOptions struct {
	Backend  string
	Database string
	SeedDir  string
}

func (b *BackendOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&b.Backend, "backend", "", "catalogue backend (sqlite|memory)")
	cmd.Flags().StringVar(&b.Database, "db", "", "path to SQLite database")
	cmd.Flags().StringVar(&b.SeedDir, "seed", "", "CUE seed directory loaded into the memory backend")
}

// resolve fills empty fields from cfg.
func (b BackendOptions) resolve(cfg *config.Config) BackendOptions {
	if b.Backend == "" {
		b.Backend = cfg.Store.Backend
	}
	if b.Database == "" {
		b.Database = cfg.Store.Path
	}
	if b.SeedDir == "" {
		b.SeedDir = cfg.Store.SeedDir
	}
	return b
}

// openCatalog opens the selected backend. The returned close function is
// never nil.
func openCatalog(ctx context.Context, opts *RootOptions, b BackendOptions) (model.Catalog, func() error, error) {
	cfg := opts.config()
	b = b.resolve(cfg)

	if !slices.Contains(config.ValidBackends, b.Backend) {
		return nil, noClose, fmt.Errorf("unknown backend %q: must be one of %v", b.Backend, config.ValidBackends)
	}

	if b.Backend == "memory" {
		mem := memstore.New(nil)
		if b.SeedDir == "" {
			slog.Warn("memory backend without seed directory, catalogue is empty")
			return mem, noClose, nil
		}
		n, err := seedFromDir(ctx, mem, b.SeedDir)
		if err != nil {
			return nil, noClose, err
		}
		slog.Debug("memory backend seeded", "dir", b.SeedDir, "books", n)
		return mem, noClose, nil
	}

	if b.Database == "" {
		return nil, noClose, errors.New("no database path: use --db or store.path in config")
	}
	st, err := store.Open(b.Database, store.WithStrictFields(cfg.Query.Strict()))
	if err != nil {
		return nil, noClose, err
	}
	slog.Debug("database opened", "path", b.Database)
	return st, st.Close, nil
}

func noClose() error { return nil }

// seedFromDir compiles the seed directory and adds every book to svc.
func seedFromDir(ctx context.Context, svc model.BookService, dir string) (int, error) {
	loaded, errs := catalog.LoadDir(dir, catalog.LoadModeFailFast)
	if len(errs) > 0 {
		return 0, errs[0]
	}
	return catalog.Seed(ctx, svc, loaded.Books)
}
