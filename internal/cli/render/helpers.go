package render

import (
	"strings"

	"github.com/fatih/color"
	"github.com/superposition-labs/spdeploy/internal/domain/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// title turns identifiers like "transparent" or "SINGLETON" into "Transparent" / "Singleton"
func title(s string) string {
	return titleCaser.String(strings.ToLower(s))
}

// kindLabel renders a proxy kind for display
func kindLabel(kind models.ProxyKind) string {
	if kind == models.ProxyKindUUPS {
		return "UUPS"
	}
	return title(string(kind))
}

func lowerHex(addr string) string {
	return strings.ToLower(addr)
}
