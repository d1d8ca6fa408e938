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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetward/fleetward/pkg/logger"
	"github.com/fleetward/fleetward/pkg/models"
)

func TestNewPoolAppliesDefaults(t *testing.T) {
	cfg := &models.DatabaseConfig{
		Host:     "db.internal",
		Database: "fleetward",
		Username: "fleetward",
		Password: "secret",
	}

	pool, err := NewPool(context.Background(), cfg, logger.NewTestLogger())
	require.NoError(t, err)

	t.Cleanup(pool.Close)

	connConfig := pool.Config().ConnConfig
	assert.Equal(t, "db.internal", connConfig.Host)
	assert.Equal(t, uint16(5432), connConfig.Port)
	assert.Equal(t, "fleetward", connConfig.Database)
}

func TestNewPoolMaxConnections(t *testing.T) {
	cfg := &models.DatabaseConfig{
		Host:           "localhost",
		Database:       "fleetward",
		Username:       "fleetward",
		MaxConnections: 12,
	}

	pool, err := NewPool(context.Background(), cfg, logger.NewTestLogger())
	require.NoError(t, err)

	t.Cleanup(pool.Close)

	assert.Equal(t, int32(12), pool.Config().MaxConns)
}

func TestNewPoolInvalidSSLMode(t *testing.T) {
	cfg := &models.DatabaseConfig{
		Host:     "localhost",
		Database: "fleetward",
		Username: "fleetward",
		SSLMode:  "bogus",
	}

	_, err := NewPool(context.Background(), cfg, logger.NewTestLogger())
	require.Error(t, err)
}
