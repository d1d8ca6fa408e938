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

package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var errInvalidDuration = errors.New("invalid duration")

// Duration wraps time.Duration so configs can use human-readable strings
// ("30s", "6h") as well as raw nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: %w", errInvalidDuration, err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// SourceConfig describes one device source (an RMM platform or a CSV file).
type SourceConfig struct {
	Type        string            `json:"type"`     // "datto", "ncentral", "csv"
	Endpoint    string            `json:"endpoint"` // API base URL, or file path for csv
	Credentials map[string]string `json:"credentials,omitempty"`

	// InsecureSkipVerify disables TLS verification for on-prem RMM servers
	// with self-signed certificates.
	InsecureSkipVerify bool `json:"insecure_skip_verify,omitempty"`

	// PollInterval overrides the global source poll interval when set.
	PollInterval Duration `json:"poll_interval,omitempty"`
}

// NATSConfig configures NATS connectivity for run event publishing.
type NATSConfig struct {
	URL        string `json:"url"`
	StreamName string `json:"stream_name,omitempty"`
}

// Validate ensures the NATS configuration is valid.
func (c *NATSConfig) Validate() error {
	if c.URL == "" {
		return errors.New("nats url is required")
	}

	if c.StreamName == "" {
		c.StreamName = "warranty-events"
	}

	return nil
}

// DatabaseConfig configures the Postgres pool backing the device store.
type DatabaseConfig struct {
	Host            string `json:"host"`
	Port            int    `json:"port"`
	Database        string `json:"database"`
	Username        string `json:"username"`
	Password        string `json:"password,omitempty"`
	SSLMode         string `json:"ssl_mode,omitempty"`
	MaxConnections  int32  `json:"max_connections,omitempty"`
	ApplicationName string `json:"application_name,omitempty"`
}
