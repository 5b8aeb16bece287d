// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package library

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// MaxUsernameLength bounds usernames in runes.
const MaxUsernameLength = 50

// NormalizeUsername trims, NFC-normalizes and lowercases a username.
//
// Normalization happens once, before a profile is created; stores and the
// persistence layer treat usernames as opaque afterwards.
func NormalizeUsername(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return cases.Lower(language.Und).String(norm.NFC.String(trimmed))
}
