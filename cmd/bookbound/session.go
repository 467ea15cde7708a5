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
	"strconv"
	"strings"

	"github.com/jinterlante1206/Bookbound/cmd/bookbound/config"
	"github.com/jinterlante1206/Bookbound/pkg/gamebook"
	"github.com/jinterlante1206/Bookbound/pkg/logging"
	"github.com/jinterlante1206/Bookbound/pkg/storage"
	"github.com/jinterlante1206/Bookbound/pkg/ux"
)

// =============================================================================
// Session
// =============================================================================

const commandSummary = `Commands:
  go <n>      visit paragraph n (opens the editor for new paragraphs)
  edit [n]    edit paragraph n (default: current)
  back        step back one paragraph (not undoable)
  undo        revert the last 'go'
  overview    book totals and current path
  tree [n]    render the exploration tree from n (default: book root)
  quit        save and exit`

// Session owns one interactive mapping run: the registry and
// navigator restored from the store, the input reader, and the
// editor. Every mutating command saves before returning to the
// prompt, so a killed terminal loses at most the in-flight command.
type Session struct {
	cfg      config.BookboundConfig
	logger   *logging.Logger
	store    storage.Store
	registry *gamebook.Registry
	nav      *gamebook.Navigator
	reader   InputReader
	editor   *Editor
	out      io.Writer

	sessionID string
}

// NewSession restores state from the store and wires up the session.
// A corrupt snapshot is reported and replaced with a fresh one rather
// than aborting; the mapped tree on disk is never overwritten until
// the first successful save.
func NewSession(
	cfg config.BookboundConfig,
	logger *logging.Logger,
	store storage.Store,
	reader InputReader,
	prompter Prompter,
	out io.Writer,
) *Session {
	snap, err := store.Load()
	if err != nil {
		ux.Warnf("saved tree could not be read (%v), starting fresh", err)
		logger.Warn("snapshot load failed", "error", err)
		snap = storage.NewSnapshot()
	}

	registry, nav := snap.Restore()
	s := &Session{
		cfg:       cfg,
		logger:    logger,
		store:     store,
		registry:  registry,
		nav:       nav,
		reader:    reader,
		out:       out,
		sessionID: snap.SessionID,
	}
	s.editor = NewEditor(registry, prompter, out)
	return s
}

// Run drives the command loop until quit or end of input.
func (s *Session) Run() error {
	fmt.Fprintf(s.out, "Bookbound - mapping %q (%d paragraphs known)\n",
		s.cfg.Book.Title, s.registry.Len())
	if number, ok := s.nav.Current(); ok {
		fmt.Fprintf(s.out, "Resuming at paragraph %d.\n", number)
	}
	fmt.Fprintln(s.out, `Type "go <number>" to start, or "quit" to exit.`)

	for {
		line, err := s.reader.ReadLine()
		if errors.Is(err, io.EOF) {
			return s.save()
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		if line == "" {
			continue
		}

		quit, err := s.dispatch(line)
		if err != nil {
			return err
		}
		if quit {
			return s.save()
		}
	}
}

// dispatch executes one command line. quit=true ends the loop.
func (s *Session) dispatch(line string) (quit bool, err error) {
	fields := strings.Fields(line)
	command := strings.ToLower(fields[0])
	args := fields[1:]

	s.logger.Debug("command", "name", command, "args", args)

	switch command {
	case "go", "g":
		s.cmdGo(args)
	case "edit", "e":
		s.cmdEdit(args)
	case "back", "b":
		s.cmdBack()
	case "undo", "u":
		s.cmdUndo()
	case "overview", "o":
		ShowOverview(s.out, s.cfg.Book.Title, s.registry, s.nav.Path())
	case "tree", "t":
		s.cmdTree(args)
	case "quit", "exit", "q":
		return true, nil
	case "help", "h", "?":
		fmt.Fprintln(s.out, commandSummary)
	default:
		fmt.Fprintf(s.out, "Unknown command %q.\n%s\n", command, commandSummary)
	}
	return false, nil
}

// cmdGo visits a paragraph. New or still-empty paragraphs open the
// editor first so their content is entered before the move is
// recorded; a paragraph deleted inside that editor cancels the move.
func (s *Session) cmdGo(args []string) {
	number, ok := s.parseNumber(args, "go")
	if !ok {
		return
	}

	if !s.registry.Has(number) || s.registry.GetOrCreateStub(number).IsEmptyStub() {
		deleted, err := s.editor.Edit(number)
		if err != nil {
			ux.Warnf("editor failed: %v", err)
			return
		}
		if deleted {
			s.nav.DropMissing()
			s.saveQuietly()
			return
		}
	}

	status := s.nav.Visit(number)
	s.logger.Info("visited", "paragraph", number, "status", string(status))
	ShowStatus(s.out, s.registry, number)
	s.saveQuietly()
}

// cmdEdit re-opens the editor for a paragraph, defaulting to the one
// the reader is standing on.
func (s *Session) cmdEdit(args []string) {
	var number int
	if len(args) == 0 {
		current, ok := s.nav.Current()
		if !ok {
			fmt.Fprintln(s.out, "Not at any paragraph yet. Usage: edit <number>")
			return
		}
		number = current
	} else {
		parsed, ok := s.parseNumber(args, "edit")
		if !ok {
			return
		}
		number = parsed
	}

	deleted, err := s.editor.Edit(number)
	if err != nil {
		ux.Warnf("editor failed: %v", err)
		return
	}
	if deleted {
		s.nav.DropMissing()
	}
	s.saveQuietly()
}

func (s *Session) cmdBack() {
	number, ok := s.nav.Backtrack()
	if !ok {
		fmt.Fprintln(s.out, "Back at the start.")
	} else {
		ShowStatus(s.out, s.registry, number)
	}
	s.saveQuietly()
}

func (s *Session) cmdUndo() {
	if err := s.nav.Undo(); err != nil {
		fmt.Fprintln(s.out, "Nothing to undo.")
		return
	}
	if number, ok := s.nav.Current(); ok {
		ShowStatus(s.out, s.registry, number)
	} else {
		fmt.Fprintln(s.out, "Back at the start.")
	}
	s.saveQuietly()
}

func (s *Session) cmdTree(args []string) {
	root := s.cfg.Book.DefaultRoot
	if len(args) > 0 {
		parsed, ok := s.parseNumber(args, "tree")
		if !ok {
			return
		}
		root = parsed
	}
	ShowTree(s.out, s.registry, s.nav.Path(), root)
}

// parseNumber extracts the single positive integer argument a command
// takes, printing a usage hint on anything else.
func (s *Session) parseNumber(args []string, command string) (int, bool) {
	if len(args) != 1 {
		fmt.Fprintf(s.out, "Usage: %s <number>\n", command)
		return 0, false
	}
	number, err := strconv.Atoi(args[0])
	if err != nil || number < 1 {
		fmt.Fprintf(s.out, "%q is not a paragraph number. Usage: %s <number>\n", args[0], command)
		return 0, false
	}
	return number, true
}

func (s *Session) save() error {
	snap := storage.Capture(s.registry, s.nav, s.sessionID)
	if err := s.store.Save(snap); err != nil {
		return fmt.Errorf("saving the tree: %w", err)
	}
	return nil
}

// saveQuietly persists after a mutating command. A failed save is
// loud but does not end the session; the state is still in memory
// and a later save may succeed.
func (s *Session) saveQuietly() {
	if err := s.save(); err != nil {
		ux.Warnf("%v", err)
		s.logger.Error("save failed", "error", err)
	}
}
