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

// Package billing defines the invoice preview boundary. The hosted billing
// backend is not wired up yet, so the only implementation reports itself as
// unavailable with a typed result rather than a bare nil.
package billing

import "context"

// InvoiceStatus tags an UpcomingInvoice result.
type InvoiceStatus string

const (
	// StatusUnavailable means no billing backend is configured.
	StatusUnavailable InvoiceStatus = "unavailable"
	// StatusPending means the invoice exists but has not been finalized.
	StatusPending InvoiceStatus = "pending"
)

// UpcomingInvoice is the next invoice preview for an account.
type UpcomingInvoice struct {
	Status      InvoiceStatus `json:"status"`
	AmountCents int64         `json:"amount_cents"`
	Currency    string        `json:"currency,omitempty"`
	Detail      string        `json:"detail,omitempty"`
}

// Available reports whether the invoice carries real billing data.
func (i *UpcomingInvoice) Available() bool {
	return i.Status != StatusUnavailable
}

// InvoicePreviewer exposes the upcoming invoice for the account.
type InvoicePreviewer interface {
	UpcomingInvoice(ctx context.Context) (*UpcomingInvoice, error)
}

// Unavailable is the InvoicePreviewer used until a billing backend ships. It
// always returns a typed unavailable invoice and never an error.
type Unavailable struct{}

// NewUnavailable returns the stub previewer.
func NewUnavailable() *Unavailable {
	return &Unavailable{}
}

// UpcomingInvoice implements InvoicePreviewer.
func (*Unavailable) UpcomingInvoice(_ context.Context) (*UpcomingInvoice, error) {
	return &UpcomingInvoice{
		Status: StatusUnavailable,
		Detail: "billing backend not configured",
	}, nil
}
