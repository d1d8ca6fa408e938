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

//go:generate mockgen -destination=mock_db.go -package=db github.com/fleetward/fleetward/pkg/db DeviceStore

// Package db persists the device inventory and warranty results in Postgres.
package db

import (
	"context"
	"time"

	"github.com/fleetward/fleetward/pkg/models"
)

// DeviceStore is the persistence boundary for devices and warranty records.
type DeviceStore interface {
	// UpsertDevices merges freshly fetched source inventory into the device
	// table, keyed by (source, device_id).
	UpsertDevices(ctx context.Context, devices []models.Device) error

	// ListDevices returns the full inventory ordered by client name then
	// hostname, the order lookup runs process devices in.
	ListDevices(ctx context.Context) ([]models.Device, error)

	// SaveWarrantyRecords persists the outcome of a lookup run and stamps
	// warranty_fetched_at on each device that produced a fresh (non-skipped,
	// non-error) record.
	SaveWarrantyRecords(ctx context.Context, runID string, records []models.WarrantyRecord, fetchedAt time.Time) error

	// Close releases the underlying pool.
	Close()
}
