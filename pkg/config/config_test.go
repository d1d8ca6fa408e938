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

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name     string         `json:"name"`
	Port     int            `json:"port"`
	Debug    bool           `json:"debug"`
	Database testDatabase   `json:"database"`
	Optional *testOptSubCfg `json:"optional"`

	validateErr error
}

type testDatabase struct {
	Host string `json:"host"`
}

type testOptSubCfg struct {
	Token string `json:"token"`
}

func (c *testConfig) Validate() error {
	return c.validateErr
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadAndValidateFromFile(t *testing.T) {
	path := writeTempConfig(t, `{"name":"fleetward","port":8090,"debug":true}`)

	var cfg testConfig

	err := NewConfig(nil).LoadAndValidate(context.Background(), path, &cfg)
	require.NoError(t, err)

	assert.Equal(t, "fleetward", cfg.Name)
	assert.Equal(t, 8090, cfg.Port)
	assert.True(t, cfg.Debug)
}

func TestLoadAndValidateMissingFile(t *testing.T) {
	var cfg testConfig

	err := NewConfig(nil).LoadAndValidate(context.Background(), "/nonexistent/config.json", &cfg)
	assert.Error(t, err)
}

func TestLoadAndValidateBadJSON(t *testing.T) {
	path := writeTempConfig(t, `{"name":`)

	var cfg testConfig

	err := NewConfig(nil).LoadAndValidate(context.Background(), path, &cfg)
	assert.Error(t, err)
}

func TestLoadAndValidateRunsValidator(t *testing.T) {
	path := writeTempConfig(t, `{"name":"fleetward"}`)

	wantErr := errors.New("bad config")
	cfg := testConfig{validateErr: wantErr}

	err := NewConfig(nil).LoadAndValidate(context.Background(), path, &cfg)
	assert.ErrorIs(t, err, wantErr)
}

func TestLoadAndValidateInvalidSource(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "vault")

	var cfg testConfig

	err := NewConfig(nil).LoadAndValidate(context.Background(), "unused", &cfg)
	assert.ErrorIs(t, err, errInvalidConfigSource)
}

func TestEnvLoaderFlatFields(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "env")
	t.Setenv("FLEETWARD_NAME", "from-env")
	t.Setenv("FLEETWARD_PORT", "9000")
	t.Setenv("FLEETWARD_DEBUG", "true")

	var cfg testConfig

	err := NewConfig(nil).LoadAndValidate(context.Background(), "", &cfg)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Name)
	assert.Equal(t, 9000, cfg.Port)
	assert.True(t, cfg.Debug)
}

func TestEnvLoaderNestedFields(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "env")
	t.Setenv("FLEETWARD_DATABASE_HOST", "db.internal")
	t.Setenv("FLEETWARD_OPTIONAL_TOKEN", "abc123")

	var cfg testConfig

	err := NewConfig(nil).LoadAndValidate(context.Background(), "", &cfg)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	require.NotNil(t, cfg.Optional)
	assert.Equal(t, "abc123", cfg.Optional.Token)
}

func TestEnvLoaderConfigJSON(t *testing.T) {
	t.Setenv("CONFIG_SOURCE", "env")
	t.Setenv("FLEETWARD_CONFIG_JSON", `{"name":"json-env","port":1234}`)

	var cfg testConfig

	err := NewConfig(nil).LoadAndValidate(context.Background(), "", &cfg)
	require.NoError(t, err)

	assert.Equal(t, "json-env", cfg.Name)
	assert.Equal(t, 1234, cfg.Port)
}

func TestEnvLoaderRejectsNonPointer(t *testing.T) {
	loader := NewEnvLoader(nil, "FLEETWARD_")

	err := loader.Load(context.Background(), "", testConfig{})
	assert.ErrorIs(t, err, ErrDstMustBeNonNilPointer)
}
