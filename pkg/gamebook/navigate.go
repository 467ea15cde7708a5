// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package gamebook

import "errors"

// ErrNothingToUndo indicates Undo was called with an empty history.
var ErrNothingToUndo = errors.New("nothing to undo")

// Navigator owns the reader's position in the book: the current path
// from the traversal origin to the present paragraph, and a history
// of prior paths consumed last-in-first-out by Undo.
//
// Navigator mutates the registry only through GetOrCreateStub and
// the ChildrenVisited counter; content edits belong to the editor.
type Navigator struct {
	registry *Registry

	// currentPath is the ordered sequence of node numbers from the
	// origin to the present position. Empty means "at start".
	currentPath []int

	// pathHistory holds pre-mutation snapshots of currentPath,
	// one pushed before every Visit.
	pathHistory [][]int
}

// NewNavigator returns a navigator over the given registry with an
// empty path and history.
func NewNavigator(registry *Registry) *Navigator {
	return &Navigator{registry: registry}
}

// Path returns a copy of the current path.
func (nav *Navigator) Path() []int {
	path := make([]int, len(nav.currentPath))
	copy(path, nav.currentPath)
	return path
}

// HistoryLen returns the number of undoable snapshots.
func (nav *Navigator) HistoryLen() int {
	return len(nav.pathHistory)
}

// Current returns the number the reader is standing on. ok is false
// when the path is empty (at start).
func (nav *Navigator) Current() (number int, ok bool) {
	if len(nav.currentPath) == 0 {
		return 0, false
	}
	return nav.currentPath[len(nav.currentPath)-1], true
}

// Restore replaces the path and history wholesale. Used when loading
// a persisted session; entries referencing unknown nodes must already
// have been filtered by the loader.
func (nav *Navigator) Restore(path []int, history [][]int) {
	nav.currentPath = path
	nav.pathHistory = history
}

// History returns the path history snapshots, oldest first.
func (nav *Navigator) History() [][]int {
	return nav.pathHistory
}

// Visit moves the reader to number and returns the node's status.
//
// The pre-mutation path is pushed onto the history first, so Undo
// exactly inverts the mutation. Then:
//
//   - number already in the path, before the last entry: the reader
//     returned to an ancestor. The path truncates to that entry
//     inclusive; the abandoned forward branch disappears from the
//     live path (the nodes and edges stay in the registry).
//   - number is the last entry: revisiting in place. The number is
//     appended again.
//   - otherwise: a forward step or a jump via an explored edge from
//     elsewhere. The number is appended.
//
// When the step is a genuine forward advance (number absent from the
// old path) and the new second-to-last entry actually lists number
// as a child target, that parent's ChildrenVisited is incremented,
// capped at its child count.
//
// The node is stubbed into the registry if absent. Callers that want
// content entry for new or empty paragraphs run the editor before
// calling Visit.
func (nav *Navigator) Visit(number int) Status {
	node := nav.registry.GetOrCreateStub(number)

	old := nav.currentPath
	snapshot := make([]int, len(old))
	copy(snapshot, old)
	nav.pathHistory = append(nav.pathHistory, snapshot)

	idx := indexOf(old, number)
	wasInPath := idx >= 0

	switch {
	case wasInPath && idx < len(old)-1:
		nav.currentPath = old[:idx+1]
	default:
		nav.currentPath = append(old, number)
	}

	if !wasInPath && len(nav.currentPath) > 1 {
		parentNum := nav.currentPath[len(nav.currentPath)-2]
		if parent, err := nav.registry.Get(parentNum); err == nil {
			if parent.ChildTargets(number) && parent.ChildrenVisited < len(parent.Children) {
				parent.ChildrenVisited++
			}
		}
	}

	return Classify(node, nav.registry)
}

// Backtrack pops the last path entry and returns the new current
// number. ok is false when the path is empty afterwards (or was
// already empty): the reader is back at the start.
//
// Backtrack pushes no history entry; it is not undoable and Undo
// will restore the path as it stood before the preceding Visit.
func (nav *Navigator) Backtrack() (number int, ok bool) {
	if len(nav.currentPath) == 0 {
		return 0, false
	}
	nav.currentPath = nav.currentPath[:len(nav.currentPath)-1]
	return nav.Current()
}

// Undo pops the most recent history snapshot into the current path.
// Returns ErrNothingToUndo when the history is empty; the path is
// untouched in that case.
func (nav *Navigator) Undo() error {
	if len(nav.pathHistory) == 0 {
		return ErrNothingToUndo
	}
	last := len(nav.pathHistory) - 1
	nav.currentPath = nav.pathHistory[last]
	nav.pathHistory = nav.pathHistory[:last]
	return nil
}

// DropMissing removes path entries whose node no longer exists.
// Called after a node deletion so the live path never references a
// dangling number.
func (nav *Navigator) DropMissing() {
	filtered := nav.currentPath[:0]
	for _, number := range nav.currentPath {
		if nav.registry.Has(number) {
			filtered = append(filtered, number)
		}
	}
	nav.currentPath = filtered
}

func indexOf(path []int, number int) int {
	for i, n := range path {
		if n == number {
			return i
		}
	}
	return -1
}
