// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/jinterlante1206/Bookbound/pkg/gamebook"
	"github.com/jinterlante1206/Bookbound/pkg/ux"
)

// =============================================================================
// Display
// =============================================================================

// ShowStatus prints the status banner and choice list for the
// paragraph the reader is standing on.
func ShowStatus(w io.Writer, registry *gamebook.Registry, number int) {
	node := registry.GetOrCreateStub(number)
	status := gamebook.Classify(node, registry)

	fmt.Fprintln(w, ux.StatusLine(number, status))

	choices := node.SortedChildren()
	if len(choices) == 0 {
		fmt.Fprintln(w, "  (No children defined yet.)")
		return
	}
	for _, choice := range choices {
		marker := ""
		child := registry.GetOrCreateStub(choice.Target)
		if !child.Complete {
			marker = " " + ux.Styles.Warning.Render("(unexplored)")
		}
		fmt.Fprintf(w, "  %q -> %d%s\n", choice.Label, choice.Target, marker)
	}
	fmt.Fprintf(w, "  %d/%d choices taken\n", node.ChildrenVisited, len(node.Children))
}

// ShowOverview prints the book title, registry tallies, and the
// reader's current path.
func ShowOverview(w io.Writer, title string, registry *gamebook.Registry, path []int) {
	fmt.Fprintln(w, ux.Styles.Title.Render(fmt.Sprintf("=== %s ===", title)))

	counts := registry.Count()
	fmt.Fprintf(w, "Paragraphs mapped: %d\n", counts.Total)
	fmt.Fprintf(w, "Deaths: %d  Battles: %d  Incomplete: %d\n",
		counts.Deaths, counts.Battles, counts.Incomplete)
	fmt.Fprintf(w, "Current path: %s\n", ux.HighlightPath(path))
}

// ShowTree renders the exploration tree from root. A root that is not
// in the registry yet gets a gentle notice instead of an error dump.
func ShowTree(w io.Writer, registry *gamebook.Registry, path []int, root int) {
	rendered, err := gamebook.RenderTree(registry, path, root)
	if err != nil {
		if errors.Is(err, gamebook.ErrRootNotFound) {
			fmt.Fprintf(w, "Paragraph %d is not in the tree yet. Visit it first with: go %d\n", root, root)
			return
		}
		ux.Warnf("could not render the tree: %v", err)
		return
	}
	fmt.Fprint(w, rendered)
}
