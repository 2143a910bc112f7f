// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks a decoded pipeline document against its schema
// before any stage runs.
//
// Structural rules (ranges, required strings, known method names) and
// referential rules (selectors that must name a declared entry, template
// placeholders that must be resolvable where they are substituted) are
// checked in a single pass. Every violation is collected and reported
// together as a *ValidationError whose entries carry the dotted key path of
// the offending value, e.g. "preprocess_methods.tiling.stride".
package validators

import "context"

// Validator validates a value, optionally limited to the named top-level
// fields.
type Validator interface {
	Validate(ctx context.Context, obj any, fields ...string) error
}
