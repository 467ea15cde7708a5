// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

// BookboundConfig is the persisted user configuration.
//
// It lives at ~/.bookbound/bookbound.yaml and is created with
// defaults on first run. Command-line flags override individual
// fields per invocation but are never written back.
type BookboundConfig struct {
	Book    BookConfig    `yaml:"book"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
}

// BookConfig describes the gamebook being mapped.
type BookConfig struct {
	// Title appears in the overview banner.
	Title string `yaml:"title"`

	// DefaultRoot is the paragraph the tree command renders from
	// when no root argument is given. Gamebooks start at 1.
	DefaultRoot int `yaml:"default_root" validate:"gte=1"`
}

// StorageConfig selects and locates the snapshot backend.
type StorageConfig struct {
	// Backend is "file" (one JSON blob, the default) or "badger"
	// (embedded BadgerDB directory).
	Backend string `yaml:"backend" validate:"oneof=file badger"`

	// Path is the snapshot file path for the file backend, or the
	// database directory for the badger backend. Relative paths
	// resolve against the working directory, so each book mapped
	// from its own directory gets its own tree.
	Path string `yaml:"path"`
}

// LoggingConfig controls the session logger.
type LoggingConfig struct {
	// Level is debug, info, warn, or error.
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`

	// Dir enables JSON file logging when set. Supports ~ expansion.
	Dir string `yaml:"dir"`
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() BookboundConfig {
	return BookboundConfig{
		Book: BookConfig{
			Title:       "Untitled Gamebook",
			DefaultRoot: 1,
		},
		Storage: StorageConfig{
			Backend: "file",
			Path:    "bookbound-tree.json",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
