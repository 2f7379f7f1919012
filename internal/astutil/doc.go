// Copyright 2025 KrakLabs
// SPDX-License-Identifier: Apache-2.0

// Package astutil defines the polymorphic expression/statement node model
// consumed by every downstream pipeline phase (spec §3.1), plus shared
// predicates used by the validator, inference engine, and backends to ask
// common questions about a node ("does this use a comprehension?", "is
// this a string method call?") without each phase re-implementing its own
// walk.
package astutil
