package ui

import (
	"os"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Clock hook for tests.
var timeNow = time.Now

// Color definitions for consistent styling across the UI.
var (
	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Machine status colors
	colorRunning = color.New(color.FgGreen)
	colorSetup   = color.New(color.FgYellow)
	colorDown    = color.New(color.FgRed)

	// Conflict severities
	colorHigh   = color.New(color.FgRed, color.Bold)
	colorMedium = color.New(color.FgYellow)
	colorLow    = color.New(color.FgCyan)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)

	// Locked slots
	colorLocked = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}
