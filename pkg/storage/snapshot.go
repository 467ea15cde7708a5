// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package storage persists a mapping session as a single JSON blob.
//
// The blob holds the whole node registry plus the navigation state
// (current path and undo history) and is rewritten in full on every
// save; there is no incremental persistence. Two backends carry the
// blob: a plain file written with temp-then-rename atomicity (the
// default, one blob per working directory) and an embedded BadgerDB
// keeping the blob under a fixed key.
//
// Loading is deliberately tolerant. Missing or unknown top-level
// keys decode to empty defaults, path entries referencing unknown
// nodes are dropped, and counters are re-capped. Only a structurally
// malformed blob is an error, and callers recover from that by
// resetting to an empty session with a warning.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jinterlante1206/Bookbound/pkg/gamebook"
)

// ErrCorruptSnapshot indicates a blob that could not be decoded at
// all. Callers reset to an empty session and keep running.
var ErrCorruptSnapshot = errors.New("corrupt snapshot")

// NodeRecord is the wire shape of one paragraph node.
//
// Kind is flattened into battle/death booleans on the wire for
// forward compatibility with earlier saves.
type NodeRecord struct {
	Number          int            `json:"number"`
	Battle          bool           `json:"battle"`
	Death           bool           `json:"death"`
	Complete        bool           `json:"complete"`
	Children        map[string]int `json:"children"`
	ChildrenVisited int            `json:"children_visited"`
}

// Snapshot is the complete persisted state of a mapping session.
type Snapshot struct {
	// Tree maps stringified paragraph number to node record.
	Tree map[string]NodeRecord `json:"tree"`

	// CurrentPath is the reader's path at save time.
	CurrentPath []int `json:"current_path"`

	// PathHistory holds the undo snapshots, oldest first.
	PathHistory [][]int `json:"path_history"`

	// SavedAt stamps the save time.
	SavedAt time.Time `json:"saved_at,omitzero"`

	// SessionID identifies the session that wrote the blob.
	SessionID string `json:"session_id,omitempty"`
}

// NewSnapshot returns an empty snapshot with a fresh session id.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Tree:      make(map[string]NodeRecord),
		SessionID: uuid.New().String(),
	}
}

// Capture serializes the registry and navigation state.
func Capture(registry *gamebook.Registry, nav *gamebook.Navigator, sessionID string) *Snapshot {
	snap := &Snapshot{
		Tree:        make(map[string]NodeRecord, registry.Len()),
		CurrentPath: nav.Path(),
		PathHistory: nav.History(),
		SavedAt:     time.Now().UTC(),
		SessionID:   sessionID,
	}
	for _, number := range registry.Numbers() {
		node, err := registry.Get(number)
		if err != nil {
			continue
		}
		snap.Tree[strconv.Itoa(number)] = NodeRecord{
			Number:          node.Number,
			Battle:          node.Kind == gamebook.KindBattle,
			Death:           node.Kind == gamebook.KindDeath,
			Complete:        node.Complete,
			Children:        node.Children,
			ChildrenVisited: node.ChildrenVisited,
		}
	}
	return snap
}

// Restore materializes a registry and navigator from the snapshot.
//
// Repairs applied while loading:
//   - entries whose key is not a number are skipped
//   - every child target is stubbed in if missing
//   - children_visited is re-capped at the child count
//   - current_path and history entries referencing unknown nodes
//     are dropped
func (s *Snapshot) Restore() (*gamebook.Registry, *gamebook.Navigator) {
	registry := gamebook.NewRegistry()

	for key, rec := range s.Tree {
		number, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		kind := gamebook.KindNormal
		switch {
		case rec.Death:
			kind = gamebook.KindDeath
		case rec.Battle:
			kind = gamebook.KindBattle
		}
		node := registry.Upsert(number, kind, rec.Complete, rec.Children)
		node.ChildrenVisited = rec.ChildrenVisited
		if node.ChildrenVisited > len(node.Children) {
			node.ChildrenVisited = len(node.Children)
		}
		if node.ChildrenVisited < 0 {
			node.ChildrenVisited = 0
		}
	}

	nav := gamebook.NewNavigator(registry)
	path := filterKnown(s.CurrentPath, registry)
	history := make([][]int, 0, len(s.PathHistory))
	for _, prior := range s.PathHistory {
		history = append(history, filterKnown(prior, registry))
	}
	nav.Restore(path, history)
	return registry, nav
}

func filterKnown(path []int, registry *gamebook.Registry) []int {
	kept := make([]int, 0, len(path))
	for _, number := range path {
		if registry.Has(number) {
			kept = append(kept, number)
		}
	}
	return kept
}

// Encode renders the snapshot as indented JSON.
func (s *Snapshot) Encode() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Decode parses a snapshot blob.
//
// Unknown top-level keys are ignored and missing ones default to
// empty; only a structurally malformed blob fails, wrapped in
// ErrCorruptSnapshot.
func Decode(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if snap.Tree == nil {
		snap.Tree = make(map[string]NodeRecord)
	}
	if snap.SessionID == "" {
		snap.SessionID = uuid.New().String()
	}
	return &snap, nil
}
