package valueobjects

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// label turns "in_progress" into "In Progress".
func label(s string) string {
	return titleCaser.String(strings.ReplaceAll(s, "_", " "))
}
