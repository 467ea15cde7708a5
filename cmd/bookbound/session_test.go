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
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinterlante1206/Bookbound/cmd/bookbound/config"
	"github.com/jinterlante1206/Bookbound/pkg/gamebook"
	"github.com/jinterlante1206/Bookbound/pkg/logging"
	"github.com/jinterlante1206/Bookbound/pkg/storage"
)

// newTestSession builds a session over a temp file store, feeding it
// the given command script. seed, when non-nil, populates the store
// before the session loads it.
func newTestSession(
	t *testing.T,
	script string,
	prompter Prompter,
	seed func(*gamebook.Registry, *gamebook.Navigator),
) (*Session, *bytes.Buffer, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tree.json")
	if seed != nil {
		registry := gamebook.NewRegistry()
		nav := gamebook.NewNavigator(registry)
		seed(registry, nav)
		store := storage.NewFileStore(path)
		require.NoError(t, store.Save(storage.Capture(registry, nav, "seed")))
	}

	cfg := config.DefaultConfig()
	cfg.Book.Title = "House of Hell"
	cfg.Storage.Path = path

	out := &bytes.Buffer{}
	session := NewSession(
		cfg,
		logging.New(logging.Config{Quiet: true}),
		storage.NewFileStore(path),
		NewReaderFrom(strings.NewReader(script)),
		prompter,
		out,
	)
	return session, out, path
}

func loadSnapshot(t *testing.T, path string) *storage.Snapshot {
	t.Helper()
	snap, err := storage.NewFileStore(path).Load()
	require.NoError(t, err)
	return snap
}

// Seeds a small explored book: 1 -> {2, 3}, all complete.
func seedSmallBook(registry *gamebook.Registry, nav *gamebook.Navigator) {
	registry.Upsert(1, gamebook.KindNormal, true, map[string]int{"cellar": 2, "stairs": 3})
	registry.Upsert(2, gamebook.KindBattle, true, map[string]int{"flee": 1})
	registry.Upsert(3, gamebook.KindDeath, true, nil)
}

func TestSession_QuitSavesAndExits(t *testing.T) {
	session, _, path := newTestSession(t, "quit\n", &scriptedPrompter{}, nil)
	require.NoError(t, session.Run())

	snap := loadSnapshot(t, path)
	assert.Empty(t, snap.CurrentPath)
}

func TestSession_GoVisitsKnownParagraphs(t *testing.T) {
	session, out, path := newTestSession(t, "go 1\ngo 2\nquit\n", &scriptedPrompter{}, seedSmallBook)
	require.NoError(t, session.Run())

	snap := loadSnapshot(t, path)
	assert.Equal(t, []int{1, 2}, snap.CurrentPath)
	assert.Len(t, snap.PathHistory, 2)
	assert.Contains(t, out.String(), "BATTLE")
}

func TestSession_GoNewParagraphOpensEditorFirst(t *testing.T) {
	// Editor script: set type -> Death -> finish.
	prompter := &scriptedPrompter{selects: []int{editActionSetKind, 1, editActionFinish}}
	session, out, path := newTestSession(t, "go 44\nquit\n", prompter, nil)
	require.NoError(t, session.Run())

	snap := loadSnapshot(t, path)
	assert.Equal(t, []int{44}, snap.CurrentPath)
	rec, ok := snap.Tree["44"]
	require.True(t, ok)
	assert.True(t, rec.Death)
	assert.True(t, rec.Complete)
	assert.Contains(t, out.String(), "DEATH")
}

func TestSession_DeletingInEditorCancelsTheMove(t *testing.T) {
	prompter := &scriptedPrompter{
		selects:  []int{editActionDeleteNode},
		confirms: []bool{true},
	}
	session, _, path := newTestSession(t, "go 44\nquit\n", prompter, nil)
	require.NoError(t, session.Run())

	snap := loadSnapshot(t, path)
	assert.Empty(t, snap.CurrentPath)
	_, ok := snap.Tree["44"]
	assert.False(t, ok)
}

func TestSession_BackThenUndo(t *testing.T) {
	seed := func(registry *gamebook.Registry, nav *gamebook.Navigator) {
		seedSmallBook(registry, nav)
		nav.Visit(1)
		nav.Visit(2)
	}
	session, _, path := newTestSession(t, "back\nundo\nquit\n", &scriptedPrompter{}, seed)
	require.NoError(t, session.Run())

	// back pops 2; undo then restores the path as it stood before
	// the Visit(2), which is [1]. One history entry remains.
	snap := loadSnapshot(t, path)
	assert.Equal(t, []int{1}, snap.CurrentPath)
	assert.Len(t, snap.PathHistory, 1)
}

func TestSession_UndoWithEmptyHistory(t *testing.T) {
	session, out, _ := newTestSession(t, "undo\nquit\n", &scriptedPrompter{}, nil)
	require.NoError(t, session.Run())
	assert.Contains(t, out.String(), "Nothing to undo")
}

func TestSession_BackAtStart(t *testing.T) {
	session, out, _ := newTestSession(t, "back\nquit\n", &scriptedPrompter{}, nil)
	require.NoError(t, session.Run())
	assert.Contains(t, out.String(), "Back at the start")
}

func TestSession_OverviewAndTree(t *testing.T) {
	seed := func(registry *gamebook.Registry, nav *gamebook.Navigator) {
		seedSmallBook(registry, nav)
		nav.Visit(1)
	}
	session, out, _ := newTestSession(t, "overview\ntree\nquit\n", &scriptedPrompter{}, seed)
	require.NoError(t, session.Run())

	text := out.String()
	assert.Contains(t, text, "House of Hell")
	assert.Contains(t, text, "Paragraphs mapped: 3")
	assert.Contains(t, text, "[1]")
	assert.Contains(t, text, "└──")
}

func TestSession_TreeWithUnknownRoot(t *testing.T) {
	session, out, _ := newTestSession(t, "tree 500\nquit\n", &scriptedPrompter{}, seedSmallBook)
	require.NoError(t, session.Run())
	assert.Contains(t, out.String(), "not in the tree yet")
}

func TestSession_UnknownCommand(t *testing.T) {
	session, out, _ := newTestSession(t, "frobnicate\nquit\n", &scriptedPrompter{}, nil)
	require.NoError(t, session.Run())
	assert.Contains(t, out.String(), `Unknown command "frobnicate"`)
	assert.Contains(t, out.String(), "go <n>")
}

func TestSession_MalformedNumber(t *testing.T) {
	session, out, _ := newTestSession(t, "go banana\ngo\nquit\n", &scriptedPrompter{}, nil)
	require.NoError(t, session.Run())
	assert.Contains(t, out.String(), `"banana" is not a paragraph number`)
	assert.Contains(t, out.String(), "Usage: go <number>")
}

func TestSession_EOFSavesLikeQuit(t *testing.T) {
	session, _, path := newTestSession(t, "go 1\n", &scriptedPrompter{}, seedSmallBook)
	require.NoError(t, session.Run())

	snap := loadSnapshot(t, path)
	assert.Equal(t, []int{1}, snap.CurrentPath)
}

func TestSession_ResumesSavedPosition(t *testing.T) {
	seed := func(registry *gamebook.Registry, nav *gamebook.Navigator) {
		seedSmallBook(registry, nav)
		nav.Visit(1)
		nav.Visit(3)
	}
	session, out, _ := newTestSession(t, "quit\n", &scriptedPrompter{}, seed)
	require.NoError(t, session.Run())
	assert.Contains(t, out.String(), "Resuming at paragraph 3")
}

// The first-session walkthrough: forward steps, a revisit in place,
// a return to an ancestor, and a jump, driven through the command
// surface end to end.
func TestScenario_SessionWalkthrough(t *testing.T) {
	seed := func(registry *gamebook.Registry, nav *gamebook.Navigator) {
		registry.Upsert(1, gamebook.KindNormal, true, map[string]int{"north": 2, "south": 5})
		registry.Upsert(2, gamebook.KindNormal, true, map[string]int{"on": 3})
		registry.Upsert(3, gamebook.KindNormal, true, map[string]int{"deeper": 4})
		registry.Upsert(4, gamebook.KindBattle, true, nil)
		registry.Upsert(5, gamebook.KindDeath, true, nil)
	}
	script := "go 1\ngo 2\ngo 3\ngo 1\ngo 1\ngo 5\nquit\n"
	session, _, path := newTestSession(t, script, &scriptedPrompter{}, seed)
	require.NoError(t, session.Run())

	snap := loadSnapshot(t, path)

	// go 1..3 builds [1 2 3]; go 1 truncates to [1]; go 1 again
	// revisits in place, [1 1]; go 5 advances, [1 1 5].
	assert.Equal(t, []int{1, 1, 5}, snap.CurrentPath)
	assert.Len(t, snap.PathHistory, 6)

	rec := snap.Tree["1"]
	assert.Equal(t, 2, rec.ChildrenVisited, "north and south both taken")
}
