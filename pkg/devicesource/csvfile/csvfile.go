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

// Package csvfile imports device inventory from a CSV export, for fleets not
// yet connected to an RMM platform.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fleetward/fleetward/pkg/devicesource"
	"github.com/fleetward/fleetward/pkg/logger"
	"github.com/fleetward/fleetward/pkg/models"
)

var (
	errPathRequired         = errors.New("csv source: endpoint must be a file path")
	errMissingHeader        = errors.New("csv source: file has no header row")
	errSerialColumnRequired = errors.New("csv source: header must contain a serial_number column")
)

func init() {
	devicesource.RegisterFactory("csv", func(config *models.SourceConfig, log logger.Logger) (devicesource.Integration, error) {
		return NewIntegration(config, log)
	})
}

// Integration implements devicesource.Integration for CSV files.
type Integration struct {
	path   string
	logger logger.Logger
}

// NewIntegration validates that the config points at a file path.
func NewIntegration(config *models.SourceConfig, log logger.Logger) (*Integration, error) {
	if config.Endpoint == "" {
		return nil, errPathRequired
	}

	return &Integration{path: config.Endpoint, logger: log}, nil
}

// Fetch reads the CSV file and maps its rows to devices. Column names are
// matched case-insensitively; unrecognized columns land in device metadata.
func (i *Integration) Fetch(ctx context.Context) ([]models.Device, error) {
	f, err := os.Open(i.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	devices, err := i.parse(ctx, f)
	if err != nil {
		return nil, err
	}

	i.logger.Info().
		Str("path", i.path).
		Int("devices", len(devices)).
		Msg("Imported CSV inventory")

	return devices, nil
}

// knownColumns maps normalized header names to device field setters.
var knownColumns = map[string]func(*models.Device, string){
	"device_id":     func(d *models.Device, v string) { d.DeviceID = v },
	"serial_number": func(d *models.Device, v string) { d.SerialNumber = v },
	"manufacturer":  func(d *models.Device, v string) { d.Manufacturer = v },
	"model":         func(d *models.Device, v string) { d.Model = v },
	"hostname":      func(d *models.Device, v string) { d.Hostname = v },
	"client_id":     func(d *models.Device, v string) { d.ClientID = v },
	"client_name":   func(d *models.Device, v string) { d.ClientName = v },
}

func (i *Integration) parse(ctx context.Context, r io.Reader) ([]models.Device, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errMissingHeader
	} else if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	columns := make([]string, len(header))
	hasSerial := false

	for idx, name := range header {
		normalized := normalizeHeader(name)
		columns[idx] = normalized

		if normalized == "serial_number" {
			hasSerial = true
		}
	}

	if !hasSerial {
		return nil, errSerialColumnRequired
	}

	var devices []models.Device

	for row := 2; ; row++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("failed to read csv row %d: %w", row, err)
		}

		device := models.Device{Source: "csv"}

		for idx, value := range record {
			if idx >= len(columns) {
				break
			}

			if setter, ok := knownColumns[columns[idx]]; ok {
				setter(&device, value)
				continue
			}

			if value != "" {
				if device.Metadata == nil {
					device.Metadata = make(map[string]string)
				}

				device.Metadata[columns[idx]] = value
			}
		}

		if device.DeviceID == "" {
			device.DeviceID = device.SerialNumber
		}

		devices = append(devices, device)
	}

	return devices, nil
}

func normalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "_")

	// Accept the vendor-portal spelling too.
	if name == "serial" || name == "service_tag" {
		return "serial_number"
	}

	return name
}
