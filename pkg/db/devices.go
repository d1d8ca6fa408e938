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

	"github.com/jackc/pgx/v5"

	"github.com/fleetward/fleetward/pkg/models"
)

const upsertDeviceSQL = `
INSERT INTO devices (
	source, device_id, serial_number, manufacturer, model, hostname,
	client_id, client_name, first_seen, last_seen, metadata
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now(), $9)
ON CONFLICT (source, device_id) DO UPDATE SET
	serial_number = EXCLUDED.serial_number,
	manufacturer  = EXCLUDED.manufacturer,
	model         = EXCLUDED.model,
	hostname      = EXCLUDED.hostname,
	client_id     = EXCLUDED.client_id,
	client_name   = EXCLUDED.client_name,
	last_seen     = now(),
	metadata      = EXCLUDED.metadata`

// UpsertDevices merges freshly fetched inventory into the device table.
func (s *Store) UpsertDevices(ctx context.Context, devices []models.Device) error {
	if len(devices) == 0 {
		return nil
	}

	batch := &pgx.Batch{}

	for i := range devices {
		d := &devices[i]

		metadata := d.Metadata
		if metadata == nil {
			metadata = map[string]string{}
		}

		batch.Queue(upsertDeviceSQL,
			d.Source, d.DeviceID, d.SerialNumber, d.Manufacturer, d.Model,
			d.Hostname, d.ClientID, d.ClientName, metadata)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer func() {
		_ = results.Close()
	}()

	for range devices {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("db: device upsert failed: %w", err)
		}
	}

	s.logger.Debug().
		Int("devices", len(devices)).
		Msg("Upserted device inventory")

	return nil
}

const listDevicesSQL = `
SELECT source, device_id, serial_number, manufacturer, model, hostname,
	client_id, client_name, first_seen, last_seen, warranty_fetched_at,
	warranty_start, warranty_end, metadata
FROM devices
ORDER BY client_name, hostname, device_id`

// ListDevices returns the full inventory in lookup-run order.
func (s *Store) ListDevices(ctx context.Context) ([]models.Device, error) {
	rows, err := s.pool.Query(ctx, listDevicesSQL)
	if err != nil {
		return nil, fmt.Errorf("db: device query failed: %w", err)
	}
	defer rows.Close()

	var devices []models.Device

	for rows.Next() {
		var d models.Device

		err := rows.Scan(
			&d.Source, &d.DeviceID, &d.SerialNumber, &d.Manufacturer, &d.Model,
			&d.Hostname, &d.ClientID, &d.ClientName, &d.FirstSeen, &d.LastSeen,
			&d.WarrantyFetchedAt, &d.WarrantyStart, &d.WarrantyEnd, &d.Metadata)
		if err != nil {
			return nil, fmt.Errorf("db: device scan failed: %w", err)
		}

		devices = append(devices, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db: device iteration failed: %w", err)
	}

	return devices, nil
}
