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

import "time"

// MissingSerialSentinel is used as the serial number on records built for
// devices that never had one.
const MissingSerialSentinel = "N/A"

// UnknownSource is the provenance tag for records whose device did not carry
// a source platform.
const UnknownSource = "Unknown"

// WarrantyRecord is the per-device result of a warranty lookup, success or
// failure. Records are built inside the dispatcher and treated as immutable
// once placed in the output sequence.
type WarrantyRecord struct {
	SerialNumber       string     `json:"serial_number"`
	Manufacturer       string     `json:"manufacturer,omitempty"`
	ProductDescription string     `json:"product_description,omitempty"`
	StartDate          string     `json:"start_date,omitempty"`
	EndDate            string     `json:"end_date,omitempty"`
	DeviceSource       string     `json:"device_source"`
	Skipped            bool       `json:"skipped"`
	FromCache          bool       `json:"from_cache"`
	Error              bool       `json:"error"`
	ErrorMessage       string     `json:"error_message,omitempty"`
	IsLoadingWarranty  bool       `json:"is_loading_warranty"`
	LastUpdated        *time.Time `json:"last_updated,omitempty"`
}

// LookupRunResult is what a dispatch run hands back to callers. A partially
// failing run still carries one record per input device so callers can render
// a complete table.
type LookupRunResult struct {
	RunID   string           `json:"run_id"`
	Success bool             `json:"success"`
	Error   string           `json:"error,omitempty"`
	Records []WarrantyRecord `json:"records"`
}
