package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Palette shared by status lines, the grid viewer and tables.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// Styles used outside this file.
var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// statusKind selects the icon and color of a status line.
type statusKind int

const (
	statusSuccess statusKind = iota
	statusError
	statusWarning
	statusInfo
)

var statusIcons = map[statusKind]struct {
	icon  string
	style lipgloss.Style
}{
	statusSuccess: {"✓", lipgloss.NewStyle().Foreground(colorGreen)},
	statusError:   {"✗", lipgloss.NewStyle().Foreground(colorRed)},
	statusWarning: {"!", lipgloss.NewStyle().Foreground(colorYellow)},
	statusInfo:    {"›", lipgloss.NewStyle().Foreground(colorGray)},
}

const iconArrow = "→"

// uiOut receives status lines. Document data (ids, layouts, SVG, outlines)
// goes to the command's stdout instead, so it can be piped.
var uiOut io.Writer = os.Stderr

func status(kind statusKind, format string, args ...any) {
	s := statusIcons[kind]
	msg := fmt.Sprintf(format, args...)
	if kind == statusWarning {
		msg = StyleWarning.Render(msg)
	}
	fmt.Fprintln(uiOut, s.style.Render(s.icon)+" "+msg)
}

func printSuccess(format string, args ...any) { status(statusSuccess, format, args...) }
func printError(format string, args ...any)   { status(statusError, format, args...) }
func printWarning(format string, args ...any) { status(statusWarning, format, args...) }
func printInfo(format string, args ...any)    { status(statusInfo, format, args...) }

// printDetail prints an indented, muted line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(uiOut, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile points at a written file or stored document.
func printFile(path string) {
	fmt.Fprintln(uiOut, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(uiOut, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep suggests the command to run next.
func printNextStep(description, cmd string) {
	fmt.Fprintln(uiOut, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}
