// Package priority assigns a priority tier to a complaint from its
// description and category. It is pure: no I/O and no state.
package priority

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/grievance_system/pkg/utils"
)

// Level is a complaint priority tier.
type Level string

const (
	High   Level = "High"
	Medium Level = "Medium"
	Low    Level = "Low"
)

var (
	urgencyKeywords = []string{"urgent", "emergency", "critical", "danger", "life", "death", "severe", "immediate"}
	highCategories  = []string{"health", "safety", "water", "electricity"}
	mediumKeywords  = []string{"problem", "issue", "broken", "damaged", "not working"}
)

// Classify returns the priority tier for a complaint. Rules are evaluated in
// order and the first match wins:
//  1. the description contains an urgency keyword -> High
//  2. the category is one of the high-priority categories -> High
//  3. the description contains a medium keyword -> Medium
//  4. otherwise -> Low
//
// Keywords are matched as substrings of the lowercased description, so
// "immediately" matches "immediate".
func Classify(description, category string) Level {
	desc := lower(description)

	if utils.ContainsAnySubstring(desc, urgencyKeywords) {
		return High
	}
	if utils.ContainsString(highCategories, lower(category)) {
		return High
	}
	if utils.ContainsAnySubstring(desc, mediumKeywords) {
		return Medium
	}
	return Low
}

// IsValid reports whether l is one of the known tiers.
func IsValid(l Level) bool {
	return l == High || l == Medium || l == Low
}

// Levels returns all tiers from highest to lowest.
func Levels() []Level {
	return []Level{High, Medium, Low}
}

// A cases.Caser is stateful, so one is built per call.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}
