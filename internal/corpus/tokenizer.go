package corpus

import (
	"regexp"
	"strings"
)

// nonWordRegex matches anything outside word characters, digits, whitespace,
// and hyphens. Hyphens are kept so CAS numbers ("7664-93-9") survive intact.
var nonWordRegex = regexp.MustCompile(`[^a-z0-9_\s-]+`)

// NormalizeText lowercases text, strips punctuation (hyphens kept), and
// collapses repeated whitespace.
func NormalizeText(text string) string {
	lower := strings.ToLower(text)
	cleaned := nonWordRegex.ReplaceAllString(lower, " ")
	return strings.Join(strings.Fields(cleaned), " ")
}

// TokenizeText splits text into lowercase search tokens.
// Tokens of length <= 2 are dropped; both the lexical index and the
// query keyword list use this same rule so term statistics line up.
func TokenizeText(text string) []string {
	var tokens []string
	for _, tok := range strings.Fields(NormalizeText(text)) {
		if len(tok) > 2 {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}
