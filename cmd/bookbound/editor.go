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

	"github.com/charmbracelet/huh"

	"github.com/jinterlante1206/Bookbound/pkg/gamebook"
)

// =============================================================================
// Prompter
// =============================================================================

// ErrEditAborted indicates the user backed out of a prompt; the
// editor treats it as "finish editing", never as a failure.
var ErrEditAborted = errors.New("edit aborted")

// Prompter asks the user a single question. The editor speaks only
// through this interface so its logic can be driven by a scripted
// prompter in tests.
type Prompter interface {
	// Select presents options and returns the chosen index.
	Select(title string, options []string) (int, error)

	// Input asks for a free-form line. An empty answer is valid.
	Input(title string) (string, error)

	// Confirm asks a yes/no question, defaulting to no.
	Confirm(title string) (bool, error)
}

// huhPrompter renders prompts with charmbracelet/huh forms.
type huhPrompter struct{}

func (huhPrompter) Select(title string, options []string) (int, error) {
	opts := make([]huh.Option[int], len(options))
	for i, option := range options {
		opts[i] = huh.NewOption(option, i)
	}
	var choice int
	err := huh.NewSelect[int]().Title(title).Options(opts...).Value(&choice).Run()
	if err != nil {
		return 0, mapAbort(err)
	}
	return choice, nil
}

func (huhPrompter) Input(title string) (string, error) {
	var answer string
	if err := huh.NewInput().Title(title).Value(&answer).Run(); err != nil {
		return "", mapAbort(err)
	}
	return strings.TrimSpace(answer), nil
}

func (huhPrompter) Confirm(title string) (bool, error) {
	var ok bool
	if err := huh.NewConfirm().Title(title).Value(&ok).Run(); err != nil {
		return false, mapAbort(err)
	}
	return ok, nil
}

func mapAbort(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrEditAborted
	}
	return err
}

// =============================================================================
// Editor
// =============================================================================

// Menu actions, in display order.
const (
	editActionSetKind = iota
	editActionAddChoices
	editActionDeleteChoice
	editActionDeleteAllChoices
	editActionDeleteNode
	editActionFinish
)

var editMenu = []string{
	"Set or change type (battle/death/normal)",
	"Add or edit choices",
	"Delete a single choice",
	"Delete ALL choices",
	"Delete this node completely",
	"Finish editing",
}

// Editor drives the content-entry flow for one paragraph: kind,
// choices, and deletion. Every mutation goes through the registry's
// Upsert/Delete contract.
type Editor struct {
	registry *gamebook.Registry
	prompter Prompter
	out      io.Writer
}

// NewEditor returns an editor over the registry writing display
// output to out.
func NewEditor(registry *gamebook.Registry, prompter Prompter, out io.Writer) *Editor {
	return &Editor{registry: registry, prompter: prompter, out: out}
}

// Edit opens the menu loop for a paragraph, creating it as a stub
// first if needed. Returns deleted=true when the user removed the
// node entirely (incoming references are already severed).
//
// On finish, a paragraph that gained a non-normal kind or any
// choices is marked complete; otherwise it stays an incomplete stub.
func (e *Editor) Edit(number int) (deleted bool, err error) {
	node := e.registry.GetOrCreateStub(number)

	fmt.Fprintf(e.out, "\n--- Paragraph %d ---\n", number)
	e.showCurrent(node)

	for {
		action, err := e.prompter.Select("What do you want to do?", editMenu)
		if errors.Is(err, ErrEditAborted) {
			break
		}
		if err != nil {
			return false, err
		}

		switch action {
		case editActionSetKind:
			if err := e.setKind(number); err != nil {
				return false, err
			}
		case editActionAddChoices:
			if err := e.addChoices(number); err != nil {
				return false, err
			}
		case editActionDeleteChoice:
			if err := e.deleteChoice(number); err != nil {
				return false, err
			}
		case editActionDeleteAllChoices:
			if err := e.registry.ClearChoices(number); err == nil {
				fmt.Fprintln(e.out, "All choices deleted.")
			}
		case editActionDeleteNode:
			confirmed, err := e.prompter.Confirm(fmt.Sprintf("Really delete paragraph %d?", number))
			if err != nil && !errors.Is(err, ErrEditAborted) {
				return false, err
			}
			if confirmed {
				e.registry.Delete(number)
				fmt.Fprintln(e.out, "Node deleted.")
				return true, nil
			}
		case editActionFinish:
			goto done
		}
	}

done:
	node = e.registry.GetOrCreateStub(number)
	if node.Kind != gamebook.KindNormal || len(node.Children) > 0 {
		node.Complete = true
	} else {
		fmt.Fprintf(e.out, "Paragraph %d left as stub (incomplete).\n", number)
	}
	return false, nil
}

func (e *Editor) showCurrent(node *gamebook.Node) {
	fmt.Fprintf(e.out, "  Type: %s\n", node.Kind)
	fmt.Fprintf(e.out, "  Complete: %v\n", node.Complete)
	choices := node.SortedChildren()
	if len(choices) == 0 {
		fmt.Fprintln(e.out, "  Choices: (none)")
		return
	}
	fmt.Fprintln(e.out, "  Choices:")
	for i, choice := range choices {
		fmt.Fprintf(e.out, "   %d. %q -> %d\n", i+1, choice.Label, choice.Target)
	}
}

func (e *Editor) setKind(number int) error {
	options := []string{"Battle", "Death", "Normal paragraph"}
	choice, err := e.prompter.Select("What happens here?", options)
	if errors.Is(err, ErrEditAborted) {
		return nil
	}
	if err != nil {
		return err
	}

	kind := gamebook.KindNormal
	switch choice {
	case 0:
		kind = gamebook.KindBattle
	case 1:
		kind = gamebook.KindDeath
	}
	// Completion is decided when editing finishes.
	e.registry.Upsert(number, kind, false, nil)
	return nil
}

func (e *Editor) addChoices(number int) error {
	for {
		label, err := e.prompter.Input("Choice text (ENTER to finish)")
		if errors.Is(err, ErrEditAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		if label == "" {
			return nil
		}

		answer, err := e.prompter.Input(fmt.Sprintf("%q goes to paragraph", label))
		if errors.Is(err, ErrEditAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		target, convErr := strconv.Atoi(answer)
		if convErr != nil {
			fmt.Fprintln(e.out, "Invalid paragraph number.")
			continue
		}

		node := e.registry.GetOrCreateStub(number)
		e.registry.Upsert(number, node.Kind, false, map[string]int{label: target})
	}
}

func (e *Editor) deleteChoice(number int) error {
	node, err := e.registry.Get(number)
	if err != nil || len(node.Children) == 0 {
		fmt.Fprintln(e.out, "No choices to delete.")
		return nil
	}

	choices := node.SortedChildren()
	options := make([]string, 0, len(choices)+1)
	for _, choice := range choices {
		options = append(options, fmt.Sprintf("%q -> %d", choice.Label, choice.Target))
	}
	options = append(options, "Cancel")

	picked, err := e.prompter.Select("Delete which choice?", options)
	if errors.Is(err, ErrEditAborted) {
		return nil
	}
	if err != nil {
		return err
	}
	if picked >= len(choices) {
		return nil
	}

	if err := e.registry.DeleteChoice(number, choices[picked].Label); err == nil {
		fmt.Fprintln(e.out, "Choice deleted.")
	}
	return nil
}
