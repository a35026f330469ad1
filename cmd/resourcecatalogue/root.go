// Copyright (C) 2026 the Resource Catalogue Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/madgik/resource-catalogue-go/internal/common"
	"github.com/madgik/resource-catalogue-go/internal/common/log"
	"github.com/madgik/resource-catalogue-go/internal/persistence"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "resourcecatalogue",
	Short: "Resource Catalogue server",
	Long:  "Registry of providers, resources and their extensions, organised in catalogues",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return runServer(ctx, cfg)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Applies the database migrations and exits",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		db, err := common.InitializeDatabase(ctx, cfg.Postgres)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		if err := persistence.Migrate(db); err != nil {
			return err
		}
		log.L(ctx).Info("✅ Migrations applied")
		return nil
	},
}

func loadConfig() (*common.Config, error) {
	common.PrintSplash()
	cfg, err := common.LoadConfig(configPath)
	if err != nil {
		log.Component("main").Errorf("Failed to load config: %v", err)
		return nil, err
	}
	log.SetLevel(cfg.Log.Level)
	log.SetFormatting(log.Formatting{DisableColor: cfg.Log.NoColor, UTC: cfg.Log.UTC})
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "f", "", "Path to config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

// Execute runs the command selected on the command line.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}
