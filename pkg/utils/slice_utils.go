package utils

import "strings"

// ContainsAnySubstring reports whether s contains at least one of the given
// substrings. Matching is plain substring matching, not whole-word.
func ContainsAnySubstring(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// ContainsString reports whether list holds an element equal to s.
func ContainsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
