package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sgspencer2618/TariffPilot/internal/model"
)

var (
	// SuccessColor indicates auto-accepted classifications.
	successColor = lipgloss.Color("#4ECDC4")
	// WarningColor indicates suggestions needing confirmation.
	warningColor = lipgloss.Color("#FFE66D")
	// ErrorColor indicates escalations.
	errorColor = lipgloss.Color("#FF6B6B")
	// SubtleColor indicates less prominent output.
	subtleColor = lipgloss.Color("#666666")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#95E1D3"))

	autoAcceptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(successColor)

	suggestStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(warningColor)

	escalateStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(errorColor)

	subtleStyle = lipgloss.NewStyle().
			Foreground(subtleColor)
)

// decisionStyle picks the style matching a decision tier.
func decisionStyle(d model.Decision) lipgloss.Style {
	switch d {
	case model.DecisionAutoAccept:
		return autoAcceptStyle
	case model.DecisionSuggest:
		return suggestStyle
	default:
		return escalateStyle
	}
}

// renderResult formats one classification result for the terminal.
func renderResult(description string, result model.ClassificationResult) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(description))
	b.WriteString("\n")
	b.WriteString(decisionStyle(result.Decision).Render(string(result.Decision)))
	if result.Rationale.LowConfidence {
		b.WriteString(suggestStyle.Render(" (low confidence)"))
	}
	b.WriteString("\n")

	if len(result.RankedCodes) == 0 {
		b.WriteString(subtleStyle.Render("  no codes ranked"))
		b.WriteString("\n")
	}
	for i, rc := range result.RankedCodes {
		b.WriteString(fmt.Sprintf("  %d. %s  (%.2f)\n", i+1, rc.Code, rc.Score))
	}

	b.WriteString(subtleStyle.Render(fmt.Sprintf("  stage=%s config=%s",
		result.Rationale.Stage, result.Rationale.ConfigVersion)))
	b.WriteString("\n")
	for _, note := range result.Rationale.Notes {
		b.WriteString(subtleStyle.Render("  - " + note))
		b.WriteString("\n")
	}

	return b.String()
}
