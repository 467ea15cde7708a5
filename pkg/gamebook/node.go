// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package gamebook implements the core data model for mapping a
// branching gamebook: a registry of numbered paragraph nodes, the
// navigation state machine over the reader's current path, the
// status classifier, and the deterministic tree renderer.
//
// The graph is small (hundreds of nodes), held entirely in memory,
// and owned by a single session. Durability is the concern of
// pkg/storage, not of this package.
package gamebook

import "sort"

// Kind classifies a paragraph node.
//
// The three kinds are mutually exclusive: a paragraph is a battle,
// a death, or a normal passage of text.
type Kind string

const (
	// KindNormal is an ordinary paragraph of text.
	KindNormal Kind = "normal"

	// KindBattle is a paragraph containing a fight.
	KindBattle Kind = "battle"

	// KindDeath is a paragraph that ends the adventure.
	KindDeath Kind = "death"
)

// ParseKind converts a string to a Kind, defaulting to KindNormal.
func ParseKind(s string) Kind {
	switch s {
	case string(KindBattle):
		return KindBattle
	case string(KindDeath):
		return KindDeath
	default:
		return KindNormal
	}
}

// Node is one paragraph in the gamebook.
//
// Number is the paragraph's printed number and the node's identity;
// it is never reassigned once the node exists. Children maps choice
// text to the target paragraph number. Labels are unique within a
// node, but several labels may share a target, and a target may be
// the node itself or an ancestor (the graph can contain cycles).
type Node struct {
	// Number is the unique integer identifier.
	Number int

	// Kind is the paragraph classification.
	Kind Kind

	// Complete reports whether the paragraph's content has been
	// fully described, not merely visited.
	Complete bool

	// Children maps choice label to target paragraph number.
	Children map[string]int

	// ChildrenVisited counts distinct forward advances into this
	// node's children. Monotonically non-decreasing, capped at
	// len(Children).
	ChildrenVisited int
}

// NewStub returns an incomplete node with no children.
//
// Stubs are how paragraphs enter the registry implicitly: the moment
// a number is referenced as a child target, a navigation target, or
// a tree-render target, a stub is created for it.
func NewStub(number int) *Node {
	return &Node{
		Number:   number,
		Kind:     KindNormal,
		Complete: false,
		Children: make(map[string]int),
	}
}

// IsEmptyStub reports whether the node carries no recorded content:
// normal kind, not marked complete, and no choices. A complete
// childless normal node is an ending, not a stub.
//
// Navigation uses this to decide when to open the content editor
// before completing a visit.
func (n *Node) IsEmptyStub() bool {
	return n.Kind == KindNormal && !n.Complete && len(n.Children) == 0
}

// ChildTargets reports whether target appears as the destination of
// any of the node's choices.
func (n *Node) ChildTargets(target int) bool {
	for _, dest := range n.Children {
		if dest == target {
			return true
		}
	}
	return false
}

// SortedChildren returns the node's choices ordered by ascending
// target paragraph number, with label order breaking ties. This is
// the canonical child order for rendering: stable and independent of
// edit history.
func (n *Node) SortedChildren() []Choice {
	choices := make([]Choice, 0, len(n.Children))
	for label, target := range n.Children {
		choices = append(choices, Choice{Label: label, Target: target})
	}
	sort.Slice(choices, func(i, j int) bool {
		if choices[i].Target != choices[j].Target {
			return choices[i].Target < choices[j].Target
		}
		return choices[i].Label < choices[j].Label
	})
	return choices
}

// Choice is one labelled edge out of a node.
type Choice struct {
	Label  string
	Target int
}
