// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux provides rich terminal output styling for the Bookbound CLI.
package ux

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/jinterlante1206/Bookbound/pkg/gamebook"
)

// Bookbound color palette - old paper, ink, and a little blood
var (
	// Primary palette
	ColorParchment = lipgloss.Color("#E8D8B0") // Parchment - titles, highlights
	ColorGilt      = lipgloss.Color("#C9A227") // Gilt edging - brand accents
	ColorInk       = lipgloss.Color("#4A4034") // Faded ink - secondary text
	ColorLeather   = lipgloss.Color("#6B3F23") // Leather binding - borders

	// Semantic colors
	ColorSuccess = lipgloss.Color("#6FA35C") // Moss green for complete paragraphs
	ColorWarning = lipgloss.Color("#F4D03F") // Amber for incomplete stubs
	ColorDanger  = lipgloss.Color("#B03A2E") // Blood red for deaths and battles
	ColorMuted   = lipgloss.Color("#7A7265") // Dust for muted text
)

// Styles provides pre-configured lipgloss styles
var Styles = struct {
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Danger    lipgloss.Style
	Highlight lipgloss.Style

	Box lipgloss.Style

	// Current marks the reader's position in path listings.
	Current lipgloss.Style
}{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorParchment),
	Subtitle:  lipgloss.NewStyle().Foreground(ColorGilt),
	Bold:      lipgloss.NewStyle().Bold(true),
	Muted:     lipgloss.NewStyle().Foreground(ColorMuted),
	Success:   lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning:   lipgloss.NewStyle().Foreground(ColorWarning),
	Danger:    lipgloss.NewStyle().Foreground(ColorDanger),
	Highlight: lipgloss.NewStyle().Foreground(ColorGilt).Bold(true),

	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorLeather).
		Padding(0, 1),

	Current: lipgloss.NewStyle().Foreground(ColorParchment).Background(ColorLeather).Bold(true),
}

// StatusStyle returns the style for a node status: danger for death
// and battle, warning for anything incomplete, success for the rest.
func StatusStyle(status gamebook.Status) lipgloss.Style {
	switch status {
	case gamebook.StatusDeath, gamebook.StatusBattle:
		return Styles.Danger
	case gamebook.StatusIncomplete, gamebook.StatusPartiallyExplored:
		return Styles.Warning
	default:
		return Styles.Success
	}
}

// StatusText returns the uppercase display word for a status.
func StatusText(status gamebook.Status) string {
	switch status {
	case gamebook.StatusDeath:
		return "DEATH"
	case gamebook.StatusBattle:
		return "BATTLE"
	case gamebook.StatusPartiallyExplored:
		return "PARTIALLY EXPLORED"
	case gamebook.StatusFullyExplored:
		return "FULLY EXPLORED"
	case gamebook.StatusComplete:
		return "COMPLETE"
	default:
		return "INCOMPLETE"
	}
}

// StatusLine renders the one-line status banner for a paragraph,
// e.g. "¶ 42 ⚔️ BATTLE". Colors and emoji follow the personality
// level; machine personality gets plain ASCII.
func StatusLine(number int, status gamebook.Status) string {
	if !ShouldShowColors() {
		return fmt.Sprintf("paragraph %d %s", number, StatusText(status))
	}
	text := fmt.Sprintf("¶%3d %s %s", number, status.Emoji(), StatusText(status))
	return StatusStyle(status).Render(text)
}

// HighlightPath renders a path as "1 → 2 → 3" with the current
// (last) entry highlighted.
func HighlightPath(path []int) string {
	if len(path) == 0 {
		return "(at start)"
	}
	out := ""
	last := len(path) - 1
	for i, number := range path {
		if i > 0 {
			out += " → "
		}
		if i == last && ShouldShowColors() {
			out += Styles.Current.Render(fmt.Sprintf("%d", number))
		} else {
			out += fmt.Sprintf("%d", number)
		}
	}
	return out
}

// Title prints a styled section title to stdout.
func Title(text string) {
	fmt.Fprintln(os.Stdout, Styles.Title.Render(text))
}

// Warnf prints a warning line to stderr, styled when appropriate.
func Warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if ShouldShowColors() {
		msg = Styles.Warning.Render(msg)
	}
	fmt.Fprintln(os.Stderr, msg)
}
