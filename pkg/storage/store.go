// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package storage

// Store carries the session blob between runs.
//
// Save is all-or-nothing: a failed save must leave the previously
// stored blob readable. Load on a fresh store returns an empty
// snapshot, not an error; ErrCorruptSnapshot is reserved for blobs
// that exist but cannot be decoded.
type Store interface {
	// Load reads the stored snapshot, or returns a fresh empty one
	// when nothing has been saved yet.
	Load() (*Snapshot, error)

	// Save replaces the stored snapshot wholesale.
	Save(snap *Snapshot) error

	// Close releases the backend. The store is unusable afterwards.
	Close() error
}
