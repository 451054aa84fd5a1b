/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	"github.com/tomoncle/metermon/api"
	"github.com/tomoncle/metermon/config"
	"github.com/tomoncle/metermon/database"
	"github.com/tomoncle/metermon/seed"
	"github.com/tomoncle/metermon/service"
	"github.com/tomoncle/metermon/utils"
)

var logger = utils.NewLogger("MAIN")

func main() {
	var (
		configFile string
		envFile    string
	)

	load := func() (*config.Config, error) {
		cfg, err := config.Load(configFile, envFile)
		if err != nil {
			return nil, err
		}
		utils.ConfigureLogLevel(cfg.Log.Level)
		utils.ConfigureConsoleLogFormat(cfg.Log.Format)
		database.InitLogger(database.NewDefaultLogger(utils.NewLogger("DATABASE")))
		return cfg, nil
	}

	root := &cobra.Command{
		Use:           "metermon",
		Short:         "Customer and city records service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML config file (default metermon.yaml in . or ./configs)")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			dbCfg := cfg.DatabaseConfig()
			dbCfg.DataMigrateConfig.EnableMigrateOnStartup = true
			if _, err := database.InitDB(cmd.Context(), dbCfg); err != nil {
				return err
			}
			defer func() { _ = database.CloseDB() }()
			logger.Info("schema is up to date")
			return nil
		},
	}

	var seedFile string
	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert cities and customers from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if seedFile != "" {
				cfg.Seed.File = seedFile
			}
			db, err := database.InitDB(cmd.Context(), cfg.DatabaseConfig())
			if err != nil {
				return err
			}
			defer func() { _ = database.CloseDB() }()
			return applySeed(cmd.Context(), db, cfg.Seed.File)
		},
	}
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "fixture file (default seed.file from config)")

	root.AddCommand(serveCmd, migrateCmd, seedCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func applySeed(ctx context.Context, db *bun.DB, path string) error {
	fixtures, err := seed.Load(path)
	if err != nil {
		return err
	}
	return seed.Apply(ctx, db, fixtures)
}

func serve(ctx context.Context, cfg *config.Config) error {
	db, err := database.InitDB(ctx, cfg.DatabaseConfig())
	if err != nil {
		return err
	}
	defer func() {
		if err := database.CloseDB(); err != nil {
			logger.Errorf("close database: %v", err)
		}
	}()

	if cfg.Seed.OnStartup {
		if err := applySeed(ctx, db, cfg.Seed.File); err != nil {
			return err
		}
	}

	gin.SetMode(cfg.Server.Mode)
	router := api.NewRouter(service.New(db, cfg.ServiceConfig()), api.Options{CORSOrigins: cfg.Server.CORSOrigins})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
