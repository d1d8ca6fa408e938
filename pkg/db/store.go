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

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fleetward/fleetward/pkg/logger"
	"github.com/fleetward/fleetward/pkg/models"
)

// Store implements DeviceStore on a pgx pool.
type Store struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

// NewStore connects to Postgres and ensures the schema exists.
func NewStore(ctx context.Context, cfg *models.DatabaseConfig, log logger.Logger) (*Store, error) {
	pool, err := NewPool(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	s := &Store{pool: pool, logger: log}

	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// NewStoreWithPool wraps an existing pool, mainly for tests.
func NewStoreWithPool(pool *pgxpool.Pool, log logger.Logger) *Store {
	return &Store{pool: pool, logger: log}
}

// Close releases the underlying pool.
func (s *Store) Close() {
	s.pool.Close()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS devices (
		source              TEXT NOT NULL,
		device_id           TEXT NOT NULL,
		serial_number       TEXT NOT NULL DEFAULT '',
		manufacturer        TEXT NOT NULL DEFAULT '',
		model               TEXT NOT NULL DEFAULT '',
		hostname            TEXT NOT NULL DEFAULT '',
		client_id           TEXT NOT NULL DEFAULT '',
		client_name         TEXT NOT NULL DEFAULT '',
		first_seen          TIMESTAMPTZ NOT NULL DEFAULT now(),
		last_seen           TIMESTAMPTZ NOT NULL DEFAULT now(),
		warranty_fetched_at TIMESTAMPTZ,
		warranty_start      TEXT NOT NULL DEFAULT '',
		warranty_end        TEXT NOT NULL DEFAULT '',
		metadata            JSONB NOT NULL DEFAULT '{}'::jsonb,
		PRIMARY KEY (source, device_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_devices_serial ON devices (serial_number)`,
	`CREATE TABLE IF NOT EXISTS warranty_records (
		run_id              TEXT NOT NULL,
		serial_number       TEXT NOT NULL,
		manufacturer        TEXT NOT NULL DEFAULT '',
		product_description TEXT NOT NULL DEFAULT '',
		start_date          TEXT NOT NULL DEFAULT '',
		end_date            TEXT NOT NULL DEFAULT '',
		device_source       TEXT NOT NULL DEFAULT '',
		skipped             BOOLEAN NOT NULL DEFAULT false,
		from_cache          BOOLEAN NOT NULL DEFAULT false,
		error               BOOLEAN NOT NULL DEFAULT false,
		error_message       TEXT NOT NULL DEFAULT '',
		last_updated        TIMESTAMPTZ,
		created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_warranty_records_run ON warranty_records (run_id)`,
}

func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("db: migration failed: %w", err)
		}
	}

	return nil
}
