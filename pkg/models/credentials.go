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

import "errors"

// Manufacturer tags recognized by the vendor registry. Device manufacturer
// strings are normalized to these before a backend is selected.
const (
	ManufacturerDell   = "dell"
	ManufacturerHP     = "hp"
	ManufacturerLenovo = "lenovo"
)

var (
	errDellClientIDRequired     = errors.New("dell credentials: client_id is required")
	errDellClientSecretRequired = errors.New("dell credentials: client_secret is required")
	errHPAPIKeyRequired         = errors.New("hp credentials: api_key is required")
	errLenovoClientIDRequired   = errors.New("lenovo credentials: client_id is required")
)

// DellCredentials authenticate against the Dell TechDirect entitlement API
// using the OAuth2 client-credentials grant.
type DellCredentials struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// Validate checks the required fields before a backend call is attempted.
func (c *DellCredentials) Validate() error {
	if c.ClientID == "" {
		return errDellClientIDRequired
	}

	if c.ClientSecret == "" {
		return errDellClientSecretRequired
	}

	return nil
}

// HPCredentials authenticate against the HP warranty API.
type HPCredentials struct {
	APIKey string `json:"api_key"`
}

func (c *HPCredentials) Validate() error {
	if c.APIKey == "" {
		return errHPAPIKeyRequired
	}

	return nil
}

// LenovoCredentials authenticate against the Lenovo warranty API.
type LenovoCredentials struct {
	ClientID string `json:"client_id"`
}

func (c *LenovoCredentials) Validate() error {
	if c.ClientID == "" {
		return errLenovoClientIDRequired
	}

	return nil
}

// CredentialBundle is the per-manufacturer credential set read once at the
// start of a lookup run. Each variant is nil when the operator has not
// configured that manufacturer; the backend for that manufacturer then fails
// its validation at the call boundary instead of partway through a request.
type CredentialBundle struct {
	Dell   *DellCredentials   `json:"dell,omitempty"`
	HP     *HPCredentials     `json:"hp,omitempty"`
	Lenovo *LenovoCredentials `json:"lenovo,omitempty"`
}

// ForManufacturer returns the credential variant for the given manufacturer
// tag, or nil when none is configured. Callers validate the variant before
// using it.
func (b *CredentialBundle) ForManufacturer(tag string) interface{ Validate() error } {
	switch tag {
	case ManufacturerDell:
		if b.Dell == nil {
			return nil
		}

		return b.Dell
	case ManufacturerHP:
		if b.HP == nil {
			return nil
		}

		return b.HP
	case ManufacturerLenovo:
		if b.Lenovo == nil {
			return nil
		}

		return b.Lenovo
	default:
		return nil
	}
}
