package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	errs "github.com/matzehuels/cartogen/pkg/errors"
	"github.com/matzehuels/cartogen/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleKey = lipgloss.NewStyle().Foreground(colorGray).Width(22)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// maxListed caps the warnings and errors printed per run.
const maxListed = 20

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Run Summary
// =============================================================================

// printRunStats prints feature counts and cache status on a single line.
func printRunStats(res *pipeline.Result) {
	parts := []string{
		fmt.Sprintf("%d in", res.Stats.FeaturesIn),
		fmt.Sprintf("%d out", res.Stats.FeaturesOut),
	}
	if n := len(res.Removed); n > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", n))
	}
	if res.Stats.Edges > 0 {
		parts = append(parts, fmt.Sprintf("%d edges", res.Stats.Edges))
	}

	status, style := iconFresh, styleComputed
	if res.CacheHit {
		status, style = iconCached, styleCached
	}

	line := make([]string, 0, len(parts)+1)
	for _, p := range parts {
		line = append(line, StyleDim.Render(p))
	}
	line = append(line, style.Render(status))
	fmt.Println("  " + strings.Join(line, StyleDim.Render(" · ")))
}

// printProblems lists warnings and per-feature errors after the summary.
func printProblems(warnings []errs.Warning, failures []error) {
	for i, w := range warnings {
		if i == maxListed {
			printDetail("... and %d more warnings", len(warnings)-maxListed)
			break
		}
		printWarning("%s", w)
	}
	for i, err := range failures {
		if i == maxListed {
			printDetail("... and %d more errors", len(failures)-maxListed)
			break
		}
		printError("%v", err)
	}
	if len(warnings)+len(failures) > 0 {
		printInfo("%d warnings, %d feature errors", len(warnings), len(failures))
	}
}
