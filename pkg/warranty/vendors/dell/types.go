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

package dell

// TokenResponse is the Dell OAuth2 token endpoint response.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// AssetEntitlements is one asset in the Dell asset-entitlements response.
type AssetEntitlements struct {
	ServiceTag             string        `json:"serviceTag"`
	ProductLineDescription string        `json:"productLineDescription"`
	Entitlements           []Entitlement `json:"entitlements"`
}

// Entitlement is a single warranty or service contract line on an asset.
type Entitlement struct {
	ServiceLevelDescription string `json:"serviceLevelDescription"`
	StartDate               string `json:"startDate"`
	EndDate                 string `json:"endDate"`
	EntitlementType         string `json:"entitlementType"`
}
