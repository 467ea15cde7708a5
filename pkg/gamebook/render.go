// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package gamebook

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRootNotFound indicates the requested render root is not in the
// registry. Rendering an unknown root reports this instead of
// stubbing one in: the reader asked to look at a paragraph, not to
// create it.
var ErrRootNotFound = errors.New("root paragraph is not in the tree yet")

// Emoji returns the tree annotation glyph for the status.
func (s Status) Emoji() string {
	switch s {
	case StatusDeath:
		return "💀"
	case StatusBattle:
		return "⚔️"
	case StatusPartiallyExplored:
		return "📖"
	case StatusFullyExplored, StatusComplete:
		return "✅"
	default:
		return "⚠️"
	}
}

// frame is one pending node in the iterative depth-first traversal.
type frame struct {
	number int
	prefix string
	isLast bool
	isRoot bool
}

// RenderTree renders the explored graph from root as an indented
// ASCII tree, one node per line.
//
// The traversal is depth-first pre-order with an explicit stack, so
// deep or cyclic graphs cannot exhaust the call stack. Children are
// walked in ascending target-number order, giving a reproducible
// rendering independent of edit history. A node already rendered
// earlier in the traversal (cycle or shared descendant) is printed
// once more as a truncated loop marker and not re-expanded.
//
// Child numbers missing from the registry are stubbed in before
// being rendered, mirroring the registry's no-dangling-reference
// invariant. The node equal to the last entry of currentPath is
// marked as the reader's position.
//
// Each call starts fresh: no state survives between renders.
func RenderTree(registry *Registry, currentPath []int, root int) (string, error) {
	if !registry.Has(root) {
		return "", fmt.Errorf("%w: %d", ErrRootNotFound, root)
	}

	current := -1
	if len(currentPath) > 0 {
		current = currentPath[len(currentPath)-1]
	}

	var b strings.Builder
	rendered := make(map[int]bool)

	stack := []frame{{number: root, isRoot: true}}
	for len(stack) > 0 {
		fr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := registry.GetOrCreateStub(fr.number)

		connector := "├── "
		if fr.isLast {
			connector = "└── "
		}
		if fr.isRoot {
			connector = ""
		}

		marker := ""
		if fr.number == current {
			marker = " ⬅ current"
		}

		if rendered[fr.number] {
			fmt.Fprintf(&b, "%s%s[%d] ↺ (loop)%s\n", fr.prefix, connector, fr.number, marker)
			continue
		}
		rendered[fr.number] = true

		status := Classify(node, registry)
		fmt.Fprintf(&b, "%s%s[%d] %s (%s)%s\n",
			fr.prefix, connector, fr.number, status.Emoji(), status.Label(), marker)

		children := node.SortedChildren()
		if len(children) == 0 {
			continue
		}

		childPrefix := fr.prefix
		if !fr.isRoot {
			if fr.isLast {
				childPrefix += "    "
			} else {
				childPrefix += "│   "
			}
		}

		// Push in reverse so the lowest target number pops first.
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{
				number: children[i].Target,
				prefix: childPrefix,
				isLast: i == len(children)-1,
			})
		}
	}

	return b.String(), nil
}
