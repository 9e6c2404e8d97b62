package query

import (
	"regexp"
	"strings"
)

// intentPatterns maps each category to its keyword pattern.
// Detection counts matches per category over the lowercased text.
var intentPatterns = map[Intent]*regexp.Regexp{
	IntentClassification: regexp.MustCompile(
		`\b(classif\w*|hazard class|packing group|proper shipping name|division|un number|identif\w*)\b`),
	IntentEmergency: regexp.MustCompile(
		`\b(emergency|spill\w*|leak\w*|fire|exposure|evacuat\w*|first aid|response|accident|release[sd]?|incident)\b`),
	IntentShipping: regexp.MustCompile(
		`\b(ship\w*|transport\w*|carrier|highway|rail|vessel|cargo|aircraft|mode|route|forbidden|quantity limit\w*)\b`),
	IntentPackaging: regexp.MustCompile(
		`\b(packag\w*|container|drum|cylinder|inner|outer|combination|limited quantity|ltd qty|jerrican|overpack)\b`),
	IntentDocumentation: regexp.MustCompile(
		`\b(shipping paper\w*|manifest|declaration|document\w*|bill of lading|bol|certificat\w*|emergency contact)\b`),
	IntentCompliance: regexp.MustCompile(
		`\b(comply|compliance|regulat\w*|requirement\w*|cfr|dot|phmsa|osha|penalt\w*|training|violat\w*)\b`),
	IntentProductLookup: regexp.MustCompile(
		`\b(product\w*|sds|msds|safety data sheet|catalog|item|sku|grade|concentration)\b`),
}

// intentOrder fixes iteration order so ties are detected deterministically.
var intentOrder = []Intent{
	IntentClassification,
	IntentEmergency,
	IntentShipping,
	IntentPackaging,
	IntentDocumentation,
	IntentCompliance,
	IntentProductLookup,
}

// IntentClassifier scores a query against category keyword patterns.
// Stateless; safe for concurrent use.
type IntentClassifier struct{}

// NewIntentClassifier creates an intent classifier.
func NewIntentClassifier() *IntentClassifier {
	return &IntentClassifier{}
}

// Detect returns the category with the strictly highest keyword match
// count. Ties and zero matches resolve to IntentGeneral.
func (c *IntentClassifier) Detect(text string) Intent {
	lower := strings.ToLower(text)

	best := IntentGeneral
	bestCount := 0
	tied := false

	for _, intent := range intentOrder {
		count := len(intentPatterns[intent].FindAllStringIndex(lower, -1))
		switch {
		case count > bestCount:
			best = intent
			bestCount = count
			tied = false
		case count == bestCount && count > 0:
			tied = true
		}
	}

	if bestCount == 0 || tied {
		return IntentGeneral
	}
	return best
}
