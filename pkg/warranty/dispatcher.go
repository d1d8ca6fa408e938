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

// Package warranty implements the warranty lookup and reconciliation engine:
// per-device dispatch decisions, the batch and sequential lookup strategies,
// order-preserving result reconciliation, and status classification.
package warranty

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/fleetward/fleetward/pkg/eventbus"
	"github.com/fleetward/fleetward/pkg/logger"
	"github.com/fleetward/fleetward/pkg/models"
)

// setupProgress is reported once credential retrieval has completed, before
// any device is processed.
const setupProgress = 5

// Options controls a single lookup run. Both callbacks are optional and are
// invoked synchronously inside the dispatch call, in increasing index order.
type Options struct {
	// SkipExistingForLookup skips devices that already have warranty data
	// from an earlier run.
	SkipExistingForLookup bool

	// MergeKey selects how results are matched back to devices.
	MergeKey MergeKey

	// OnProgress receives a percentage in 0..100, non-decreasing, reaching
	// exactly 100 once at the end of a successful run.
	OnProgress func(percent int)

	// OnDeviceResult receives each finalized record with its index and the
	// total device count, enabling incremental table rendering.
	OnDeviceResult func(record models.WarrantyRecord, index, total int)
}

// Dispatcher decides per device whether to skip or look up, fans lookups out
// to manufacturer backends, and reconciles results back into input order.
type Dispatcher struct {
	creds    CredentialProvider
	backends BackendResolver
	clock    Clock
	bus      *eventbus.Bus
	logger   logger.Logger
}

// NewDispatcher wires a Dispatcher. The event bus is optional; pass nil to
// disable per-device lookup events.
func NewDispatcher(creds CredentialProvider, backends BackendResolver, clock Clock, bus *eventbus.Bus, log logger.Logger) *Dispatcher {
	if clock == nil {
		clock = SystemClock()
	}

	return &Dispatcher{
		creds:    creds,
		backends: backends,
		clock:    clock,
		bus:      bus,
		logger:   log,
	}
}

// plan is the per-device dispatch decision, evaluated in input order.
type plan struct {
	// skipRecords holds finalized records for devices that need no backend
	// call, keyed by input index.
	skipRecords map[int]models.WarrantyRecord

	// eligible holds the devices queued for an actual lookup, with their
	// input indexes.
	eligible        []*models.Device
	eligibleIndexes []int
}

// planDevices applies the skip rules: cached devices first, then devices
// without a serial number, everything else is eligible.
func (d *Dispatcher) planDevices(devices []*models.Device, opts *Options) *plan {
	p := &plan{
		skipRecords: make(map[int]models.WarrantyRecord),
	}

	for i, device := range devices {
		switch {
		case opts.SkipExistingForLookup && device.WarrantyFetchedAt != nil:
			p.skipRecords[i] = cachedRecord(device)
		case !device.HasSerialNumber():
			p.skipRecords[i] = missingSerialRecord(device)
		default:
			p.eligible = append(p.eligible, device)
			p.eligibleIndexes = append(p.eligibleIndexes, i)
		}
	}

	return p
}

// RunSequential processes eligible devices one at a time, converting each
// device's failure into an error record without aborting the run. Progress
// and per-device callbacks fire after every device, in index order; no
// lookup for device i+1 begins before device i's result is recorded.
func (d *Dispatcher) RunSequential(ctx context.Context, devices []*models.Device, opts *Options) *models.LookupRunResult {
	if opts == nil {
		opts = &Options{}
	}

	runID := uuid.New().String()
	total := len(devices)

	bundle, err := d.creds.GetManufacturerCredentials(ctx)
	if err != nil {
		d.logger.Error().Err(err).Str("run_id", runID).Msg("Credential retrieval failed")
		return d.runFailure(runID, devices, opts, fmt.Errorf("%w: %w", errCredentialsUnavailable, err))
	}

	reportProgress(opts, setupProgress)

	results := make([]models.WarrantyRecord, 0, total)

	for i, device := range devices {
		record, isSkip := d.lookupOne(ctx, device, i, bundle, opts)

		results = append(results, record)
		d.publishDeviceEvent(runID, device, &record, isSkip)

		reportProgress(opts, progressFor(i, total))

		if opts.OnDeviceResult != nil {
			opts.OnDeviceResult(record, i, total)
		}
	}

	if total == 0 {
		reportProgress(opts, 100)
	}

	ordered := Reconcile(devices, results, opts.MergeKey)

	return &models.LookupRunResult{
		RunID:   runID,
		Success: true,
		Records: ordered,
	}
}

// lookupOne finalizes a single device: a skip record when the plan rules
// apply, otherwise a backend call whose failure is caught and converted.
func (d *Dispatcher) lookupOne(ctx context.Context, device *models.Device, index int, bundle *models.CredentialBundle, opts *Options) (record models.WarrantyRecord, isSkip bool) {
	switch {
	case opts.SkipExistingForLookup && device.WarrantyFetchedAt != nil:
		return cachedRecord(device), true
	case !device.HasSerialNumber():
		return missingSerialRecord(device), true
	}

	backend, err := d.backends.ForManufacturer(normalizeManufacturer(device.Manufacturer))
	if err != nil {
		d.logger.Warn().
			Str("serial_number", device.SerialNumber).
			Str("manufacturer", device.Manufacturer).
			Msg("No warranty backend for device")

		return errorRecord(device, msgNoBackendFound), false
	}

	fetched, err := backend.FetchOne(ctx, device, bundle)
	if err != nil {
		d.logger.Warn().Err(err).
			Str("serial_number", device.SerialNumber).
			Int("index", index).
			Msg("Warranty lookup failed for device")

		return errorRecord(device, err.Error()), false
	}

	return *d.finalizeRecord(device, fetched), false
}

// RunBatch sends all eligible devices to their manufacturer batch endpoints,
// one request per manufacturer group. Any batch-level failure is fatal for
// the whole run; a device whose serial number is absent from an otherwise
// successful response becomes an error record.
func (d *Dispatcher) RunBatch(ctx context.Context, devices []*models.Device, opts *Options) *models.LookupRunResult {
	if opts == nil {
		opts = &Options{}
	}

	runID := uuid.New().String()

	bundle, err := d.creds.GetManufacturerCredentials(ctx)
	if err != nil {
		d.logger.Error().Err(err).Str("run_id", runID).Msg("Credential retrieval failed")
		return d.runFailure(runID, devices, opts, fmt.Errorf("%w: %w", errCredentialsUnavailable, err))
	}

	reportProgress(opts, setupProgress)

	p := d.planDevices(devices, opts)

	fetched, err := d.fetchBatches(ctx, p.eligible, bundle)
	if err != nil {
		d.logger.Error().Err(err).Str("run_id", runID).Msg("Batch warranty fetch failed")
		return d.runFailure(runID, devices, opts, err)
	}

	// Keyed by canonical serial: vendor batch APIs may re-case service tags
	// relative to the inventory spelling.
	bySerial := make(map[string]models.WarrantyRecord, len(fetched))
	for i := range fetched {
		bySerial[canonicalSerial(fetched[i].SerialNumber)] = fetched[i]
	}

	results := make([]models.WarrantyRecord, 0, len(devices))

	for i, device := range devices {
		record, ok := p.skipRecords[i]
		if !ok {
			if hit, found := bySerial[canonicalSerial(device.SerialNumber)]; found {
				record = *d.finalizeRecord(device, &hit)
			} else {
				record = errorRecord(device, msgNoBatchResult)
			}
		}

		results = append(results, record)
		d.publishDeviceEvent(runID, device, &record, ok)

		if opts.OnDeviceResult != nil {
			opts.OnDeviceResult(record, i, len(devices))
		}
	}

	reportProgress(opts, 100)

	ordered := Reconcile(devices, results, opts.MergeKey)

	return &models.LookupRunResult{
		RunID:   runID,
		Success: true,
		Records: ordered,
	}
}

// fetchBatches groups eligible devices by manufacturer and issues one batch
// request per group. The first group-level failure aborts the run.
func (d *Dispatcher) fetchBatches(ctx context.Context, eligible []*models.Device, bundle *models.CredentialBundle) ([]models.WarrantyRecord, error) {
	groups := make(map[string][]*models.Device)
	order := make([]string, 0)

	for _, device := range eligible {
		tag := normalizeManufacturer(device.Manufacturer)
		if _, seen := groups[tag]; !seen {
			order = append(order, tag)
		}

		groups[tag] = append(groups[tag], device)
	}

	var all []models.WarrantyRecord

	for _, tag := range order {
		backend, err := d.backends.ForManufacturer(tag)
		if err != nil {
			// No backend is a per-device condition, not an endpoint failure.
			for _, device := range groups[tag] {
				all = append(all, errorRecord(device, msgNoBackendFound))
			}

			continue
		}

		records, err := backend.FetchBatch(ctx, groups[tag], bundle)
		if err != nil {
			return nil, fmt.Errorf("%w (%s): %w", errBatchFetchFailed, tag, err)
		}

		all = append(all, records...)
	}

	return all, nil
}

// runFailure builds the run-level failure result: success=false plus a
// best-effort error record for every device that never got a real answer,
// so callers can still render a full table.
func (d *Dispatcher) runFailure(runID string, devices []*models.Device, opts *Options, cause error) *models.LookupRunResult {
	records := make([]models.WarrantyRecord, 0, len(devices))

	for _, device := range devices {
		switch {
		case opts.SkipExistingForLookup && device.WarrantyFetchedAt != nil:
			records = append(records, cachedRecord(device))
		case !device.HasSerialNumber():
			records = append(records, missingSerialRecord(device))
		default:
			records = append(records, errorRecord(device, cause.Error()))
		}
	}

	return &models.LookupRunResult{
		RunID:   runID,
		Success: false,
		Error:   cause.Error(),
		Records: Reconcile(devices, records, opts.MergeKey),
	}
}

// finalizeRecord fills in the fields a backend is allowed to leave blank and
// clears the transient loading flag.
func (d *Dispatcher) finalizeRecord(device *models.Device, fetched *models.WarrantyRecord) *models.WarrantyRecord {
	record := *fetched

	if record.SerialNumber == "" {
		record.SerialNumber = device.SerialNumber
	}

	if record.Manufacturer == "" {
		record.Manufacturer = device.Manufacturer
	}

	if record.DeviceSource == "" {
		record.DeviceSource = sourceOrUnknown(device)
	}

	record.IsLoadingWarranty = false

	now := d.clock.Now()
	record.LastUpdated = &now

	return &record
}

func (d *Dispatcher) publishDeviceEvent(runID string, device *models.Device, record *models.WarrantyRecord, skipped bool) {
	if d.bus == nil {
		return
	}

	d.bus.Publish(eventbus.Event{
		Type:     eventbus.EventDeviceLookup,
		RunID:    runID,
		Serial:   record.SerialNumber,
		Source:   record.DeviceSource,
		Message:  record.ErrorMessage,
		IsError:  record.Error,
		IsSkip:   skipped,
		DeviceID: device.DeviceID,
	})
}

// cachedRecord rebuilds a record from the device's stored warranty fields
// without touching any backend.
func cachedRecord(device *models.Device) models.WarrantyRecord {
	serial := device.SerialNumber
	if serial == "" {
		serial = models.MissingSerialSentinel
	}

	return models.WarrantyRecord{
		SerialNumber: serial,
		Manufacturer: device.Manufacturer,
		StartDate:    device.WarrantyStart,
		EndDate:      device.WarrantyEnd,
		DeviceSource: sourceOrUnknown(device),
		Skipped:      true,
		FromCache:    true,
		LastUpdated:  device.WarrantyFetchedAt,
	}
}

func errorRecord(device *models.Device, message string) models.WarrantyRecord {
	return models.WarrantyRecord{
		SerialNumber: device.SerialNumber,
		Manufacturer: device.Manufacturer,
		DeviceSource: sourceOrUnknown(device),
		Error:        true,
		ErrorMessage: message,
	}
}

// progressFor maps a completed device index to the 5..100 progress band.
func progressFor(index, total int) int {
	return int(math.Round(float64(index+1)/float64(total)*95)) + setupProgress
}

func reportProgress(opts *Options, percent int) {
	if opts.OnProgress != nil {
		opts.OnProgress(percent)
	}
}

func normalizeManufacturer(raw string) string {
	tag := strings.ToLower(strings.TrimSpace(raw))

	switch {
	case strings.Contains(tag, "dell"):
		return models.ManufacturerDell
	case strings.Contains(tag, "hewlett"), strings.HasPrefix(tag, "hp"):
		return models.ManufacturerHP
	case strings.Contains(tag, "lenovo"):
		return models.ManufacturerLenovo
	default:
		return tag
	}
}
