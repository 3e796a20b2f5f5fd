// Copyright (c) 2025 Archmagece
// SPDX-License-Identifier: MIT

package cliutil

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/Warrenn/git-pm/pkg/installer"
)

// Event styles, one per installer.EventKind. Kept separate from the
// usageTemplate's raw ANSI constants since these style structured data
// rather than static help text.
var (
	styleInstalling = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	styleCopied     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleLinked     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleFallback   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	styleRemoved    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	styleSummary    = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
)

func styleForKind(kind installer.EventKind) lipgloss.Style {
	switch kind {
	case installer.EventInstalling:
		return styleInstalling
	case installer.EventCopied:
		return styleCopied
	case installer.EventLinked:
		return styleLinked
	case installer.EventFallbackUsed:
		return styleFallback
	case installer.EventRemoved:
		return styleRemoved
	default:
		return lipgloss.NewStyle()
	}
}

// ProgressWriter adapts an io.Writer into an installer.Events, styling each
// line with the event kind's color.
type ProgressWriter struct {
	W io.Writer
}

func (p ProgressWriter) OnEvent(e installer.Event) {
	label := styleForKind(e.Kind).Render(string(e.Kind))
	if e.Detail == "" {
		fmt.Fprintf(p.W, "%s %s\n", label, e.Package)
		return
	}
	fmt.Fprintf(p.W, "%s %s %s\n", label, e.Package, e.Detail)
}

// RenderSummary formats an installer.Summary as a single styled line.
func RenderSummary(s installer.Summary) string {
	return styleSummary.Render(fmt.Sprintf("installed %d package(s), %d link(s), %d fallback(s), %d removed",
		s.Installed, s.Linked, s.Fallbacks, s.Removed))
}
