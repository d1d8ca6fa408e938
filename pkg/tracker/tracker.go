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

// Package tracker orchestrates the warranty lifecycle: pulling device
// inventory from the configured sources, running warranty lookups through the
// dispatcher, persisting results, and publishing run events.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fleetward/fleetward/pkg/billing"
	"github.com/fleetward/fleetward/pkg/db"
	"github.com/fleetward/fleetward/pkg/devicesource"
	"github.com/fleetward/fleetward/pkg/eventbus"
	"github.com/fleetward/fleetward/pkg/logger"
	"github.com/fleetward/fleetward/pkg/models"
	"github.com/fleetward/fleetward/pkg/natsutil"
	"github.com/fleetward/fleetward/pkg/warranty"
	"github.com/fleetward/fleetward/pkg/warranty/report"
)

// Lookup strategies accepted by Config.Strategy.
const (
	StrategySequential = "sequential"
	StrategyBatch      = "batch"
)

// Merge keys accepted by Config.MergeKey.
const (
	MergeKeySerial       = "serial"
	MergeKeySourceSerial = "source_serial"
)

var (
	errNoSources        = errors.New("tracker: at least one device source is required")
	errUnknownStrategy  = errors.New("tracker: strategy must be \"sequential\" or \"batch\"")
	errUnknownMergeKey  = errors.New("tracker: merge_key must be \"serial\" or \"source_serial\"")
	errAllSourcesFailed = errors.New("tracker: every device source failed")
	errNoStore          = errors.New("tracker: no device store configured")
)

// Config is the tracker service configuration, loaded through pkg/config.
type Config struct {
	Sources     []models.SourceConfig   `json:"sources"`
	Credentials models.CredentialBundle `json:"credentials"`
	Database    *models.DatabaseConfig  `json:"database,omitempty"`
	NATS        *models.NATSConfig      `json:"nats,omitempty"`

	// SkipExisting skips devices that already carry warranty data.
	SkipExisting bool `json:"skip_existing"`

	// Strategy selects the lookup strategy; sequential when empty.
	Strategy string `json:"strategy,omitempty"`

	// MergeKey selects how results are matched back to devices; plain serial
	// when empty. Fleets with colliding serials across sources should use
	// source_serial.
	MergeKey string `json:"merge_key,omitempty"`

	Logging *logger.Config `json:"logging,omitempty"`
}

// Validate implements the config validation hook.
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return errNoSources
	}

	switch c.Strategy {
	case "", StrategySequential, StrategyBatch:
	default:
		return errUnknownStrategy
	}

	switch c.MergeKey {
	case "", MergeKeySerial, MergeKeySourceSerial:
	default:
		return errUnknownMergeKey
	}

	if c.NATS != nil {
		return c.NATS.Validate()
	}

	return nil
}

func (c *Config) mergeKey() warranty.MergeKey {
	if c.MergeKey == MergeKeySourceSerial {
		return warranty.MergeBySourceAndSerial
	}

	return warranty.MergeBySerial
}

// RunEventPublisher is the slice of natsutil the service needs, kept narrow
// so tests can stub it.
type RunEventPublisher interface {
	PublishLookupRunEvent(ctx context.Context, data *models.LookupRunEventData) error
}

// Service ties sources, store, dispatcher, and event publishing together.
type Service struct {
	config     *Config
	store      db.DeviceStore
	dispatcher *warranty.Dispatcher
	publisher  RunEventPublisher
	invoices   billing.InvoicePreviewer
	clock      warranty.Clock
	logger     logger.Logger
}

// NewService wires a Service from injected collaborators. store and publisher
// may be nil: without a store, RunLookup operates on the devices passed to it
// and persists nothing; without a publisher, no run events are emitted.
func NewService(config *Config, store db.DeviceStore, dispatcher *warranty.Dispatcher, publisher RunEventPublisher, clock warranty.Clock, log logger.Logger) *Service {
	if clock == nil {
		clock = warranty.SystemClock()
	}

	return &Service{
		config:     config,
		store:      store,
		dispatcher: dispatcher,
		publisher:  publisher,
		invoices:   billing.NewUnavailable(),
		clock:      clock,
		logger:     log,
	}
}

// SetInvoicePreviewer swaps in a billing backend. The service starts with the
// unavailable stub so UpcomingInvoice always returns a typed result.
func (s *Service) SetInvoicePreviewer(p billing.InvoicePreviewer) {
	if p != nil {
		s.invoices = p
	}
}

// UpcomingInvoice returns the account's next invoice preview.
func (s *Service) UpcomingInvoice(ctx context.Context) (*billing.UpcomingInvoice, error) {
	return s.invoices.UpcomingInvoice(ctx)
}

// NewDefault builds a Service with production collaborators: a Postgres store
// when the config carries a database section, a NATS publisher when it
// carries a nats section, and the standard vendor registry.
func NewDefault(ctx context.Context, config *Config, resolver warranty.BackendResolver, bus *eventbus.Bus, log logger.Logger) (*Service, error) {
	var store db.DeviceStore

	if config.Database != nil {
		s, err := db.NewStore(ctx, config.Database, log)
		if err != nil {
			return nil, err
		}

		store = s
	}

	var publisher RunEventPublisher

	if config.NATS != nil {
		p, _, err := natsutil.ConnectWithEventPublisher(ctx, config.NATS, log)
		if err != nil {
			return nil, err
		}

		publisher = p
	}

	dispatcher := warranty.NewDispatcher(staticCredentials{bundle: &config.Credentials}, resolver, nil, bus, log)

	return NewService(config, store, dispatcher, publisher, nil, log), nil
}

// staticCredentials serves the config's credential bundle as the per-run
// immutable snapshot.
type staticCredentials struct {
	bundle *models.CredentialBundle
}

func (s staticCredentials) GetManufacturerCredentials(_ context.Context) (*models.CredentialBundle, error) {
	return s.bundle, nil
}

// SyncInventory pulls devices from every configured source and upserts them
// into the store. A failing source does not stop the others; an error is
// returned only when every source fails.
func (s *Service) SyncInventory(ctx context.Context) error {
	var failures []error

	succeeded := 0

	for i := range s.config.Sources {
		source := &s.config.Sources[i]

		integration, err := devicesource.New(source, s.logger)
		if err != nil {
			failures = append(failures, err)
			s.logger.Error().Err(err).Str("source", source.Type).Msg("Failed to construct device source")

			continue
		}

		devices, err := integration.Fetch(ctx)
		if err != nil {
			failures = append(failures, fmt.Errorf("%s: %w", source.Type, err))
			s.logger.Error().Err(err).Str("source", source.Type).Msg("Device source fetch failed")

			continue
		}

		if s.store != nil {
			if err := s.store.UpsertDevices(ctx, devices); err != nil {
				failures = append(failures, fmt.Errorf("%s: %w", source.Type, err))
				continue
			}
		}

		succeeded++

		s.logger.Info().
			Str("source", source.Type).
			Int("devices", len(devices)).
			Msg("Synced device source")
	}

	if succeeded == 0 && len(failures) > 0 {
		return fmt.Errorf("%w: %w", errAllSourcesFailed, errors.Join(failures...))
	}

	return nil
}

// RunLookup executes a warranty lookup over the stored inventory and returns
// the run result together with the aggregated report.
func (s *Service) RunLookup(ctx context.Context, opts *warranty.Options) (*models.LookupRunResult, *report.Summary, error) {
	if s.store == nil {
		return nil, nil, errNoStore
	}

	inventory, err := s.store.ListDevices(ctx)
	if err != nil {
		return nil, nil, err
	}

	devices := make([]*models.Device, len(inventory))
	for i := range inventory {
		devices[i] = &inventory[i]
	}

	return s.LookupDevices(ctx, devices, opts)
}

// LookupDevices runs the dispatcher over an explicit device list, persists
// and publishes the outcome, and returns the result with its report.
func (s *Service) LookupDevices(ctx context.Context, devices []*models.Device, opts *warranty.Options) (*models.LookupRunResult, *report.Summary, error) {
	if opts == nil {
		opts = &warranty.Options{
			SkipExistingForLookup: s.config.SkipExisting,
			MergeKey:              s.config.mergeKey(),
		}
	}

	var result *models.LookupRunResult

	if s.config.Strategy == StrategyBatch {
		result = s.dispatcher.RunBatch(ctx, devices, opts)
	} else {
		result = s.dispatcher.RunSequential(ctx, devices, opts)
	}

	now := s.clock.Now()

	if s.store != nil {
		if err := s.store.SaveWarrantyRecords(ctx, result.RunID, result.Records, now); err != nil {
			return nil, nil, err
		}
	}

	summary := report.Aggregate(result.Records, now)

	s.publishRunEvent(ctx, result, summary, now)

	return result, summary, nil
}

func (s *Service) publishRunEvent(ctx context.Context, result *models.LookupRunResult, summary *report.Summary, now time.Time) {
	if s.publisher == nil {
		return
	}

	looked, skipped, errored := countOutcomes(result.Records)

	data := &models.LookupRunEventData{
		RunID:       result.RunID,
		Success:     result.Success,
		Total:       len(result.Records),
		Looked:      looked,
		Skipped:     skipped,
		Errors:      errored,
		HealthScore: summary.HealthScore,
		Grade:       summary.Grade,
		Timestamp:   now,
	}

	if err := s.publisher.PublishLookupRunEvent(ctx, data); err != nil {
		// Event delivery is best-effort; the run result stands either way.
		s.logger.Warn().Err(err).Str("run_id", result.RunID).Msg("Failed to publish run event")
	}
}

func countOutcomes(records []models.WarrantyRecord) (looked, skipped, errored int) {
	for i := range records {
		switch {
		case records[i].Skipped:
			skipped++
		case records[i].Error:
			errored++
		default:
			looked++
		}
	}

	return looked, skipped, errored
}
