// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package gamebook

// Status is the display classification of a node, derived from its
// kind, completeness, and children. It drives both the single-node
// status line and the per-node annotation in the tree render.
type Status string

const (
	// StatusDeath marks a death paragraph.
	StatusDeath Status = "death"

	// StatusBattle marks a battle paragraph.
	StatusBattle Status = "battle"

	// StatusPartiallyExplored marks a paragraph with children of
	// which at least one is still an incomplete stub.
	StatusPartiallyExplored Status = "partial"

	// StatusFullyExplored marks a paragraph whose children are all
	// complete.
	StatusFullyExplored Status = "explored"

	// StatusComplete marks a childless paragraph whose content has
	// been fully described.
	StatusComplete Status = "complete"

	// StatusIncomplete marks a stub with no recorded content.
	StatusIncomplete Status = "incomplete"
)

// Label returns the single-letter tree annotation for the status.
func (s Status) Label() string {
	switch s {
	case StatusDeath:
		return "D"
	case StatusBattle:
		return "B"
	case StatusPartiallyExplored:
		return "P"
	case StatusFullyExplored:
		return "F"
	case StatusComplete:
		return "C"
	default:
		return "I"
	}
}

// Classify derives the display status of a node.
//
// Rules are evaluated in strict priority order and the first match
// wins: death and battle dominate everything; then child exploration
// state for nodes with children; then leaf completeness. Child
// completeness is read through the registry, stubbing in any target
// that is somehow missing so the check never dangles.
//
// Classify is a pure function of the node and its children's
// completeness; it is the single shared classification used by both
// the status display and the tree renderer.
func Classify(node *Node, registry *Registry) Status {
	switch {
	case node.Kind == KindDeath:
		return StatusDeath
	case node.Kind == KindBattle:
		return StatusBattle
	}

	if len(node.Children) > 0 {
		allComplete := true
		for _, target := range node.Children {
			child := registry.GetOrCreateStub(target)
			if !child.Complete {
				allComplete = false
				break
			}
		}
		if allComplete {
			return StatusFullyExplored
		}
		return StatusPartiallyExplored
	}

	if node.Complete {
		return StatusComplete
	}
	return StatusIncomplete
}
