package gitsync

import (
	"strings"

	"portablesource/pkg/models"
)

type classRule struct {
	class models.ErrorClass
	match func(text string) bool
}

func anyOf(tokens ...string) func(string) bool {
	return func(text string) bool {
		for _, token := range tokens {
			if strings.Contains(text, token) {
				return true
			}
		}

		return false
	}
}

func allOf(tokens ...string) func(string) bool {
	return func(text string) bool {
		for _, token := range tokens {
			if !strings.Contains(text, token) {
				return false
			}
		}

		return true
	}
}

// classRules is evaluated top to bottom and the first match wins. The
// generic fatal rule is the catch-all, so it goes last even though most git
// failures print "fatal:".
var classRules = []classRule{
	{models.ErrorClassDiverged, anyOf("diverged", "non-fast-forward")},
	{models.ErrorClassUncommittedChanges, anyOf("uncommitted changes", "would be overwritten")},
	{models.ErrorClassMergeConflict, anyOf("merge conflict", "conflict")},
	{models.ErrorClassDetachedHead, anyOf("detached head")},
	{models.ErrorClassCorruptIndex, allOf("index", "corrupt")},
	{models.ErrorClassNoTracking, anyOf("no tracking information")},
	{models.ErrorClassPermissionLocked, anyOf("permission denied", "unable to create", "index.lock")},
	{models.ErrorClassNetwork, anyOf("could not resolve host", "connection", "network", "timed out", "remote")},
	{models.ErrorClassGenericFatal, anyOf("fatal:", "128")},
}

// Classify maps the output of a failed git command to an error class.
// Matching is substring based and may misfire on unusual wording.
func Classify(text string) models.ErrorClass {
	text = strings.ToLower(text)

	for _, rule := range classRules {
		if rule.match(text) {
			return rule.class
		}
	}

	return models.ErrorClassNone
}
