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

package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fleetward/fleetward/pkg/models"
)

const insertWarrantyRecordSQL = `
INSERT INTO warranty_records (
	run_id, serial_number, manufacturer, product_description, start_date,
	end_date, device_source, skipped, from_cache, error, error_message,
	last_updated
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

const stampDeviceWarrantySQL = `
UPDATE devices SET
	warranty_fetched_at = $1,
	warranty_start      = $2,
	warranty_end        = $3
WHERE serial_number = $4`

// SaveWarrantyRecords persists a lookup run's records and stamps
// warranty_fetched_at on devices that produced a fresh result. Skipped and
// error records are kept for the run history but do not touch the device row.
func (s *Store) SaveWarrantyRecords(ctx context.Context, runID string, records []models.WarrantyRecord, fetchedAt time.Time) error {
	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}

	for i := range records {
		r := &records[i]

		batch.Queue(insertWarrantyRecordSQL,
			runID, r.SerialNumber, r.Manufacturer, r.ProductDescription,
			r.StartDate, r.EndDate, r.DeviceSource, r.Skipped, r.FromCache,
			r.Error, r.ErrorMessage, r.LastUpdated)

		if !r.Skipped && !r.Error && r.SerialNumber != models.MissingSerialSentinel {
			batch.Queue(stampDeviceWarrantySQL, fetchedAt, r.StartDate, r.EndDate, r.SerialNumber)
		}
	}

	results := s.pool.SendBatch(ctx, batch)
	defer func() {
		_ = results.Close()
	}()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("db: warranty record insert failed: %w", err)
		}
	}

	s.logger.Debug().
		Str("run_id", runID).
		Int("records", len(records)).
		Msg("Saved warranty lookup results")

	return nil
}
