// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestBadger(t *testing.T) *BadgerStore {
	t.Helper()
	store, err := OpenBadgerStore(BadgerConfig{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenBadgerStore_RequiresPath(t *testing.T) {
	_, err := OpenBadgerStore(BadgerConfig{})

	assert.Error(t, err)
}

func TestBadgerStore_LoadMissingKeyIsFreshStart(t *testing.T) {
	store := openTestBadger(t)

	snap, err := store.Load()

	require.NoError(t, err)
	assert.Empty(t, snap.Tree)
}

func TestBadgerStore_SaveThenLoad(t *testing.T) {
	store := openTestBadger(t)

	r, nav := buildSession(t)
	require.NoError(t, store.Save(Capture(r, nav, "session-b")))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "session-b", loaded.SessionID)
	assert.Equal(t, []int{1, 2}, loaded.CurrentPath)
	assert.Len(t, loaded.Tree, 3)
}

func TestBadgerStore_SaveOverwrites(t *testing.T) {
	store := openTestBadger(t)

	r, nav := buildSession(t)
	require.NoError(t, store.Save(Capture(r, nav, "first")))
	nav.Backtrack()
	require.NoError(t, store.Save(Capture(r, nav, "second")))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "second", loaded.SessionID)
	assert.Equal(t, []int{1}, loaded.CurrentPath)
}

func TestBadgerStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := OpenBadgerStore(DefaultBadgerConfig(dir))
	require.NoError(t, err)
	r, nav := buildSession(t)
	require.NoError(t, store.Save(Capture(r, nav, "durable")))
	require.NoError(t, store.Close())

	reopened, err := OpenBadgerStore(DefaultBadgerConfig(dir))
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Load()
	require.NoError(t, err)
	assert.Equal(t, "durable", loaded.SessionID)
}
