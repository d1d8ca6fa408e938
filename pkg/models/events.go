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

// CloudEvent represents a CloudEvents v1.0 compliant event.
type CloudEvent struct {
	SpecVersion     string      `json:"specversion"`
	ID              string      `json:"id"`
	Source          string      `json:"source"`
	Type            string      `json:"type"`
	DataContentType string      `json:"datacontenttype"`
	Subject         string      `json:"subject,omitempty"`
	Time            *time.Time  `json:"time,omitempty"`
	Data            interface{} `json:"data,omitempty"`
}

// LookupRunEventData is the payload published when a warranty lookup run
// finishes.
type LookupRunEventData struct {
	RunID       string    `json:"run_id"`
	Success     bool      `json:"success"`
	Total       int       `json:"total"`
	Looked      int       `json:"looked_up"`
	Skipped     int       `json:"skipped"`
	Errors      int       `json:"errors"`
	HealthScore int       `json:"health_score"`
	Grade       string    `json:"grade"`
	Timestamp   time.Time `json:"timestamp"`
}
