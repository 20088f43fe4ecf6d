package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-twennie/internal/logging"
	"github.com/goliatone/go-twennie/internal/site"
	"github.com/goliatone/go-twennie/internal/store"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP site",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("load .env: %w", err)
			}
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
			if err != nil {
				return err
			}
			defer st.Close()

			fns := []site.OptionFn{
				site.WithSiteName(cfg.Site.Name),
				site.WithCORSOrigins(cfg.Server.CORSOrigins),
				site.WithSecureCookies(cfg.Server.SecureCookies),
				site.WithTemplatesDir(cfg.Site.TemplatesDir),
				site.WithCatalog(a.catalog),
				site.WithLogger(logger),
			}
			if cfg.CSRF.Enabled {
				fns = append(fns, site.WithCSRF([]byte(cfg.CSRF.Key)))
			}
			srv, err := site.New(st, fns...)
			if err != nil {
				return err
			}

			return srv.Run(ctx, cfg.Addr(), cfg.Server.ShutdownTimeout)
		},
	}
}
