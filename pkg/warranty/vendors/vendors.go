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

// Package vendors wires manufacturer warranty backends into a resolver the
// dispatcher can route lookups through.
package vendors

import (
	"fmt"
	"sync"

	"github.com/fleetward/fleetward/pkg/warranty"
)

// Registry maps manufacturer tags to warranty backends. It implements
// warranty.BackendResolver.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]warranty.Backend
}

// NewRegistry returns an empty backend registry.
func NewRegistry() *Registry {
	return &Registry{backends: make(map[string]warranty.Backend)}
}

// Register associates a backend with a manufacturer tag. Registering the
// same tag twice replaces the earlier backend.
func (r *Registry) Register(manufacturer string, backend warranty.Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.backends[manufacturer] = backend
}

// ForManufacturer returns the backend registered for the given tag.
func (r *Registry) ForManufacturer(manufacturer string) (warranty.Backend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	backend, ok := r.backends[manufacturer]
	if !ok {
		return nil, fmt.Errorf("%w: %s", warranty.ErrNoBackend, manufacturer)
	}

	return backend, nil
}
