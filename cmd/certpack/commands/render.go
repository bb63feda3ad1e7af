// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/certpack/certpack/certification"
)

// summaryStyles holds the styles for the certify summary. The renderer
// is bound to the destination writer, so output that is not a terminal
// gets plain text.
type summaryStyles struct {
	success lipgloss.Style
	failure lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	faint   lipgloss.Style
}

func newSummaryStyles(w io.Writer) summaryStyles {
	renderer := lipgloss.NewRenderer(w)
	return summaryStyles{
		success: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		failure: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		label:   renderer.NewStyle().Width(10),
		value:   renderer.NewStyle().Foreground(lipgloss.Color("6")),
		faint:   renderer.NewStyle().Faint(true),
	}
}

// writeSummary renders a short human-readable account of a
// certification run. state is the terminal state event; errorEvent is
// the error event that preceded it, if any.
func writeSummary(w io.Writer, state certification.StateEvent, errorEvent *certification.ErrorEvent) {
	styles := newSummaryStyles(w)
	result := state.Result

	var lines []string
	row := func(label, value string) {
		if value != "" {
			lines = append(lines, styles.label.Render(label)+styles.value.Render(value))
		}
	}

	if result.State == certification.Successful {
		lines = append(lines, styles.success.Render("✔ "+state.Message))
	} else {
		lines = append(lines, styles.failure.Render("✘ "+state.Message))
	}
	row("hash", result.Hash)
	if result.Package != nil {
		row("type", string(result.Package.Type))
		row("created", result.Package.CreatedAt.UTC().Format("2006-01-02 15:04:05Z"))
		row("length", fmt.Sprintf("%d characters", len(result.Package.Encoded)))
	}
	if result.Failure != nil {
		row("code", string(result.Failure.Code))
		if errorEvent != nil && errorEvent.Message != "" {
			lines = append(lines, errorEvent.Message)
		}
		if errorEvent != nil && errorEvent.Details != "" && errorEvent.Details != errorEvent.Message {
			lines = append(lines, styles.faint.Render(errorEvent.Details))
		}
	}

	fmt.Fprintln(w, strings.Join(lines, "\n"))
}

// writeEvent prints one event as a single log-style line.
func writeEvent(w io.Writer, event certification.Event) {
	switch typed := event.(type) {
	case certification.InfoEvent:
		fmt.Fprintf(w, "info   %-24s %s\n", typed.Code, typed.Message)
	case certification.ErrorEvent:
		fmt.Fprintf(w, "error  %-24s %s\n", typed.Code, typed.Message)
	case certification.StateEvent:
		fmt.Fprintf(w, "state  %-24s %s\n", typed.Code, typed.Message)
	}
}
