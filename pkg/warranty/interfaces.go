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

//go:generate mockgen -destination=mock_warranty.go -package=warranty github.com/fleetward/fleetward/pkg/warranty CredentialProvider,Backend,BackendResolver,Clock

package warranty

import (
	"context"
	"time"

	"github.com/fleetward/fleetward/pkg/models"
)

// CredentialProvider supplies the per-manufacturer credential bundle for a
// lookup run. The bundle is read once per run and treated as an immutable
// snapshot.
type CredentialProvider interface {
	GetManufacturerCredentials(ctx context.Context) (*models.CredentialBundle, error)
}

// Backend is a manufacturer-specific warranty API client. FetchOne returning
// an error is the expected failure channel; the dispatcher converts it into
// an error record. FetchBatch must return at most one record per submitted
// device, matched by serial number, and must not silently drop devices it
// has answers for.
type Backend interface {
	FetchOne(ctx context.Context, device *models.Device, bundle *models.CredentialBundle) (*models.WarrantyRecord, error)
	FetchBatch(ctx context.Context, devices []*models.Device, bundle *models.CredentialBundle) ([]models.WarrantyRecord, error)
}

// BackendResolver maps a normalized manufacturer tag to its Backend.
type BackendResolver interface {
	ForManufacturer(tag string) (Backend, error)
}

// Clock abstracts time so classification and progress can be tested
// deterministically.
type Clock interface {
	Now() time.Time
}
