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

	"github.com/jinterlante1206/Bookbound/pkg/gamebook"
)

func buildSession(t *testing.T) (*gamebook.Registry, *gamebook.Navigator) {
	t.Helper()
	r := gamebook.NewRegistry()
	r.Upsert(1, gamebook.KindNormal, true, map[string]int{"open door": 2, "cellar": 3})
	r.Upsert(2, gamebook.KindBattle, false, nil)
	r.Upsert(3, gamebook.KindDeath, true, nil)
	nav := gamebook.NewNavigator(r)
	nav.Visit(1)
	nav.Visit(2)
	return r, nav
}

// =============================================================================
// Round-trip Tests
// =============================================================================

func TestSnapshot_RoundTrip(t *testing.T) {
	r, nav := buildSession(t)

	snap := Capture(r, nav, "session-a")
	data, err := snap.Encode()
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	restoredReg, restoredNav := decoded.Restore()

	assert.Equal(t, r.Len(), restoredReg.Len())
	assert.Equal(t, nav.Path(), restoredNav.Path())
	assert.Equal(t, nav.HistoryLen(), restoredNav.HistoryLen())

	one, err := restoredReg.Get(1)
	require.NoError(t, err)
	assert.Equal(t, gamebook.KindNormal, one.Kind)
	assert.Equal(t, map[string]int{"open door": 2, "cellar": 3}, one.Children)
	assert.Equal(t, 1, one.ChildrenVisited)

	two, err := restoredReg.Get(2)
	require.NoError(t, err)
	assert.Equal(t, gamebook.KindBattle, two.Kind)
	assert.False(t, two.Complete)

	three, err := restoredReg.Get(3)
	require.NoError(t, err)
	assert.Equal(t, gamebook.KindDeath, three.Kind)
}

func TestSnapshot_KindFlattensToBooleans(t *testing.T) {
	r, nav := buildSession(t)

	snap := Capture(r, nav, "session-a")

	assert.True(t, snap.Tree["2"].Battle)
	assert.False(t, snap.Tree["2"].Death)
	assert.True(t, snap.Tree["3"].Death)
	assert.False(t, snap.Tree["1"].Battle)
}

// =============================================================================
// Tolerant Decode Tests
// =============================================================================

func TestDecode_EmptyObject(t *testing.T) {
	snap, err := Decode([]byte(`{}`))

	require.NoError(t, err)
	assert.Empty(t, snap.Tree)
	assert.Empty(t, snap.CurrentPath)
	assert.Empty(t, snap.PathHistory)
	assert.NotEmpty(t, snap.SessionID, "fresh session id assigned")
}

func TestDecode_UnknownKeysTolerated(t *testing.T) {
	blob := `{"tree": {}, "current_path": [], "future_field": {"x": 1}}`

	_, err := Decode([]byte(blob))

	assert.NoError(t, err)
}

func TestDecode_MalformedBlob(t *testing.T) {
	for _, blob := range []string{`not json`, `{"tree": 17}`, `{"current_path": "nope"}`} {
		_, err := Decode([]byte(blob))
		assert.ErrorIs(t, err, ErrCorruptSnapshot, "blob %q", blob)
	}
}

func TestRestore_DropsUnknownPathEntries(t *testing.T) {
	snap := &Snapshot{
		Tree: map[string]NodeRecord{
			"1": {Number: 1, Complete: true},
		},
		CurrentPath: []int{1, 99, 1},
		PathHistory: [][]int{{1, 99}},
	}

	_, nav := snap.Restore()

	assert.Equal(t, []int{1, 1}, nav.Path())
	assert.Equal(t, [][]int{{1}}, nav.History())
}

func TestRestore_SkipsNonNumericKeys(t *testing.T) {
	snap := &Snapshot{
		Tree: map[string]NodeRecord{
			"1":      {Number: 1, Complete: true},
			"potato": {Number: 2},
		},
	}

	registry, _ := snap.Restore()

	assert.Equal(t, 1, registry.Len())
}

func TestRestore_RecapsChildrenVisited(t *testing.T) {
	snap := &Snapshot{
		Tree: map[string]NodeRecord{
			"1": {Number: 1, Children: map[string]int{"a": 2}, ChildrenVisited: 9},
		},
	}

	registry, _ := snap.Restore()

	one, err := registry.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 1, one.ChildrenVisited)
}

func TestRestore_StubsChildTargets(t *testing.T) {
	snap := &Snapshot{
		Tree: map[string]NodeRecord{
			"1": {Number: 1, Children: map[string]int{"trapdoor": 44}},
		},
	}

	registry, _ := snap.Restore()

	stub, err := registry.Get(44)
	require.NoError(t, err)
	assert.False(t, stub.Complete)
}
