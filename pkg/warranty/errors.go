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

package warranty

import "errors"

var (
	errCredentialsUnavailable = errors.New("failed to obtain manufacturer credentials")
	errBatchFetchFailed       = errors.New("batch warranty fetch failed")

	// ErrNoBackend is returned by resolvers when a device's manufacturer has
	// no registered warranty backend.
	ErrNoBackend = errors.New("no warranty backend for manufacturer")
)

// Fixed per-record error messages. These surface in UI tables, so their
// wording is part of the contract.
const (
	msgMissingSerial  = "Missing serial number"
	msgNoBatchResult  = "No result from batch API or error during fetch"
	msgNoBackendFound = "No warranty backend for manufacturer"
)
