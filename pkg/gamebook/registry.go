// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package gamebook

import "errors"

// ErrNodeNotFound indicates a lookup for a number the registry does
// not contain. Get reports this rather than creating a stub; stub
// creation is an explicit call (GetOrCreateStub).
var ErrNodeNotFound = errors.New("node not found")

// Registry holds every paragraph node, keyed by number.
//
// Invariant: every number referenced as a child target exists in the
// registry, at minimum as an incomplete stub with no children. The
// registry never contains a dangling reference.
//
// Registry is not safe for concurrent use. A session owns exactly
// one registry and drives it from a single goroutine.
type Registry struct {
	nodes map[int]*Node
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{nodes: make(map[int]*Node)}
}

// Len returns the number of nodes.
func (r *Registry) Len() int {
	return len(r.nodes)
}

// Get returns the node for number, or ErrNodeNotFound.
func (r *Registry) Get(number int) (*Node, error) {
	node, ok := r.nodes[number]
	if !ok {
		return nil, ErrNodeNotFound
	}
	return node, nil
}

// Has reports whether number exists in the registry.
func (r *Registry) Has(number int) bool {
	_, ok := r.nodes[number]
	return ok
}

// GetOrCreateStub returns the node for number, creating an
// incomplete stub if it does not exist.
//
// This is the single stub-creation policy for the whole system.
// Navigation, rendering, and display all route implicit node
// creation through here so the rules cannot diverge.
func (r *Registry) GetOrCreateStub(number int) *Node {
	if node, ok := r.nodes[number]; ok {
		return node
	}
	node := NewStub(number)
	r.nodes[number] = node
	return node
}

// Upsert creates or overwrites the node for number.
//
// Kind and complete are overwritten with the given values; callers
// that want to preserve them must pass the current values. Choices
// are merged into the node's children, last write winning per label.
// Every new target introduced by choices is stubbed into the
// registry if absent, preserving the no-dangling-reference
// invariant.
func (r *Registry) Upsert(number int, kind Kind, complete bool, choices map[string]int) *Node {
	node := r.GetOrCreateStub(number)
	node.Kind = kind
	node.Complete = complete

	for label, target := range choices {
		node.Children[label] = target
		r.GetOrCreateStub(target)
	}
	return node
}

// Delete removes the node for number and severs every incoming
// reference: any choice on any remaining node whose target is the
// deleted number is dropped, label and mapping both.
//
// Deleting the current navigation target is permitted; adjusting
// path state is the caller's responsibility.
func (r *Registry) Delete(number int) {
	delete(r.nodes, number)

	for _, node := range r.nodes {
		for label, target := range node.Children {
			if target == number {
				delete(node.Children, label)
			}
		}
		if node.ChildrenVisited > len(node.Children) {
			node.ChildrenVisited = len(node.Children)
		}
	}
}

// DeleteChoice removes a single labelled choice from the node for
// number. The target node itself is untouched.
func (r *Registry) DeleteChoice(number int, label string) error {
	node, ok := r.nodes[number]
	if !ok {
		return ErrNodeNotFound
	}
	delete(node.Children, label)
	if node.ChildrenVisited > len(node.Children) {
		node.ChildrenVisited = len(node.Children)
	}
	return nil
}

// ClearChoices removes every choice from the node for number.
func (r *Registry) ClearChoices(number int) error {
	node, ok := r.nodes[number]
	if !ok {
		return ErrNodeNotFound
	}
	node.Children = make(map[string]int)
	node.ChildrenVisited = 0
	return nil
}

// Numbers returns every node number, unordered.
func (r *Registry) Numbers() []int {
	numbers := make([]int, 0, len(r.nodes))
	for number := range r.nodes {
		numbers = append(numbers, number)
	}
	return numbers
}

// Counts aggregates the registry for the overview display.
type Counts struct {
	Total      int
	Deaths     int
	Battles    int
	Incomplete int
}

// Count walks the registry once and tallies the overview numbers.
func (r *Registry) Count() Counts {
	var c Counts
	c.Total = len(r.nodes)
	for _, node := range r.nodes {
		switch node.Kind {
		case KindDeath:
			c.Deaths++
		case KindBattle:
			c.Battles++
		}
		if !node.Complete {
			c.Incomplete++
		}
	}
	return c
}
