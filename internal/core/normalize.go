// Package core implements the statement analysis pipeline: merchant
// normalization, keyword categorization, monthly aggregation and
// unusual-spending detection. Everything in this package is a pure
// function over immutable values; callers own all I/O.
package core

import (
	"regexp"
	"strings"
)

// Unknown is the merchant label returned when nothing usable remains
// after normalization.
const Unknown = "UNKNOWN"

var (
	// Boilerplate banks append around the merchant name.
	noiseWordRe = regexp.MustCompile(`(?i)\b(purchase|pos|debit|credit|visa|mastercard|amex|online|payment|txn|transaction|authorization|auth|card|inc|llc|ltd|co)\b`)

	// Trailing store/terminal ids, e.g. "#1234" or "- 000123".
	trailingIDRe = regexp.MustCompile(`[\s#-]*\d{2,}$`)

	multiSpaceRe = regexp.MustCompile(`\s+`)
)

// NormalizeDescription turns a raw statement description into a canonical
// merchant label: uppercased, with common processor noise words removed,
// trailing numeric ids stripped and whitespace collapsed. Empty input, or
// input that is nothing but noise, yields Unknown.
func NormalizeDescription(description string) string {
	text := strings.TrimSpace(description)
	if text == "" {
		return Unknown
	}

	text = strings.ToUpper(text)
	text = noiseWordRe.ReplaceAllString(text, " ")
	text = trailingIDRe.ReplaceAllString(text, "")
	text = strings.TrimSpace(multiSpaceRe.ReplaceAllString(text, " "))

	if text == "" {
		return Unknown
	}
	return text
}
