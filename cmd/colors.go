package cmd

import (
	"github.com/fatih/color"
	"github.com/webposture/webposture/internal/scanner"
)

var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorInfo    = color.New(color.FgCyan).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
)

func formatSeverityWithColor(severity scanner.Severity) string {
	switch severity {
	case scanner.SeverityOK:
		return colorSuccess(string(severity))
	case scanner.SeverityWarning:
		return colorWarn(string(severity))
	case scanner.SeverityCritical, scanner.SeverityError:
		return colorError(string(severity))
	default:
		return string(severity)
	}
}
