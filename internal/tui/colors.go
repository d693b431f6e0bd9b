package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	branchStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	currentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	orphanStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	staleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	trunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	commandStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	colorsEnabled = termenv.EnvColorProfile() != termenv.Ascii
)

// ColorBranchName renders a branch name, bolding the checked-out branch.
func ColorBranchName(name string, isCurrent bool) string {
	if !colorsEnabled {
		return name
	}
	if isCurrent {
		return currentStyle.Render(name)
	}
	return branchStyle.Render(name)
}

// ColorOrphan renders an orphaned branch name.
func ColorOrphan(name string) string {
	if !colorsEnabled {
		return name
	}
	return orphanStyle.Render(name)
}

// ColorStale renders a stale (marker-derived) reference.
func ColorStale(name string) string {
	if !colorsEnabled {
		return name
	}
	return staleStyle.Render(name)
}

// ColorTrunk renders the trunk branch name.
func ColorTrunk(name string) string {
	if !colorsEnabled {
		return name
	}
	return trunkStyle.Render(name)
}

// ColorWarn renders attention-grabbing conflict text.
func ColorWarn(s string) string {
	if !colorsEnabled {
		return s
	}
	return warnStyle.Render(s)
}

// ColorCommand renders a suggested shell command.
func ColorCommand(s string) string {
	if !colorsEnabled {
		return s
	}
	return commandStyle.Render(s)
}
