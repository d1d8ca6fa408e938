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
	"time"
)

// Device represents a managed endpoint pulled from one of the RMM sources.
type Device struct {
	DeviceID          string            `json:"device_id"`
	SerialNumber      string            `json:"serial_number"`
	Manufacturer      string            `json:"manufacturer"`
	Model             string            `json:"model,omitempty"`
	Hostname          string            `json:"hostname,omitempty"`
	ClientID          string            `json:"client_id,omitempty"`
	ClientName        string            `json:"client_name,omitempty"`
	Source            string            `json:"source"`
	FirstSeen         time.Time         `json:"first_seen"`
	LastSeen          time.Time         `json:"last_seen"`
	WarrantyFetchedAt *time.Time        `json:"warranty_fetched_at,omitempty"`
	WarrantyStart     string            `json:"warranty_start,omitempty"`
	WarrantyEnd       string            `json:"warranty_end,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

// HasSerialNumber reports whether the device carries a usable serial number.
func (d *Device) HasSerialNumber() bool {
	return d.SerialNumber != ""
}
