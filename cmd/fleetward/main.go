/*
 * Copyright 2026 Fleetward Labs.
 *
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
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/fleetward/fleetward/pkg/config"
	"github.com/fleetward/fleetward/pkg/eventbus"
	fwhttp "github.com/fleetward/fleetward/pkg/http"
	"github.com/fleetward/fleetward/pkg/logger"
	"github.com/fleetward/fleetward/pkg/models"
	"github.com/fleetward/fleetward/pkg/tracker"
	"github.com/fleetward/fleetward/pkg/version"
	"github.com/fleetward/fleetward/pkg/warranty/report"
	"github.com/fleetward/fleetward/pkg/warranty/vendors"
	"github.com/fleetward/fleetward/pkg/warranty/vendors/dell"
	"github.com/fleetward/fleetward/pkg/warranty/vendors/hp"
	"github.com/fleetward/fleetward/pkg/warranty/vendors/lenovo"

	// Register the device source factories.
	_ "github.com/fleetward/fleetward/pkg/devicesource/csvfile"
	_ "github.com/fleetward/fleetward/pkg/devicesource/datto"
	_ "github.com/fleetward/fleetward/pkg/devicesource/ncentral"
)

func main() {
	configPath := flag.String("config", "/etc/fleetward/fleetward.json", "Path to config file")
	syncOnly := flag.Bool("sync-only", false, "Sync device sources and exit without a lookup run")
	showInvoice := flag.Bool("billing", false, "Print the upcoming invoice preview after the run")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.GetFullVersion())
		return
	}

	ctx := context.Background()
	cfgLoader := config.NewConfig(nil)

	var cfg tracker.Config

	if err := cfgLoader.LoadAndValidate(ctx, *configPath, &cfg); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logConfig := cfg.Logging
	if logConfig == nil {
		logConfig = logger.DefaultConfig()
	}

	appLogger, err := logger.New(ctx, logConfig)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	if err := run(ctx, &cfg, *syncOnly, *showInvoice, appLogger); err != nil {
		appLogger.Error().Err(err).Msg("fleetward failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *tracker.Config, syncOnly, showInvoice bool, appLogger logger.Logger) error {
	service, err := tracker.NewDefault(ctx, cfg, newVendorRegistry(appLogger), eventbus.New(0), appLogger)
	if err != nil {
		return err
	}

	if err := service.SyncInventory(ctx); err != nil {
		return err
	}

	if syncOnly {
		return nil
	}

	result, summary, err := service.RunLookup(ctx, nil)
	if err != nil {
		return err
	}

	printReport(result, summary)

	if showInvoice {
		if err := printInvoice(ctx, service); err != nil {
			return err
		}
	}

	if !result.Success {
		return fmt.Errorf("lookup run %s failed: %s", result.RunID, result.Error)
	}

	return nil
}

func printInvoice(ctx context.Context, service *tracker.Service) error {
	invoice, err := service.UpcomingInvoice(ctx)
	if err != nil {
		return err
	}

	if !invoice.Available() {
		fmt.Printf("Billing: %s\n", invoice.Detail)
		return nil
	}

	fmt.Printf("Billing: %s %d.%02d %s\n",
		invoice.Currency, invoice.AmountCents/100, invoice.AmountCents%100, invoice.Status)

	return nil
}

func newVendorRegistry(appLogger logger.Logger) *vendors.Registry {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	breakerConfig := fwhttp.DefaultBreakerConfig()

	registry := vendors.NewRegistry()
	registry.Register(models.ManufacturerDell,
		dell.NewBackend(fwhttp.NewBreakerClient(httpClient, "dell", breakerConfig, appLogger), appLogger))
	registry.Register(models.ManufacturerHP,
		hp.NewBackend(fwhttp.NewBreakerClient(httpClient, "hp", breakerConfig, appLogger), "", appLogger))
	registry.Register(models.ManufacturerLenovo,
		lenovo.NewBackend(fwhttp.NewBreakerClient(httpClient, "lenovo", breakerConfig, appLogger), "", appLogger))

	return registry
}

func printReport(result *models.LookupRunResult, summary *report.Summary) {
	fmt.Printf("Run %s\n", result.RunID)
	fmt.Printf("  devices: %d  active: %d  expired: %d  unknown: %d\n",
		summary.Stats.Total, summary.Stats.Active, summary.Stats.Expired, summary.Stats.Unknown)
	fmt.Printf("  expiring within 90 days: %d\n", len(summary.ExpiringSoon))
	fmt.Printf("  health: %d (%s)\n", summary.HealthScore, summary.Grade)

	for _, insight := range summary.Insights {
		fmt.Printf("  - %s\n", insight)
	}
}
