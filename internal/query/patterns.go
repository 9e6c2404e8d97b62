package query

import "regexp"

// Entity patterns, compiled at package init. regexp matching keeps no
// cursor state between calls, so concurrent extraction never interferes.
var (
	// UN numbers: "UN1830", "UN 1090", "un2814".
	unNumberPattern = regexp.MustCompile(`(?i)\bUN\s?(\d{4})\b`)

	// CAS registry numbers: "7664-93-9", "64-17-5".
	casNumberPattern = regexp.MustCompile(`\b(\d{2,7}-\d{2}-\d)\b`)

	// Packing groups: "packing group II", "PG 3", "PG III".
	packingGroupPattern = regexp.MustCompile(`(?i)\b(?:packing\s+group|PG)\s+(III|II|I|[1-3])\b`)

	// Hazard classes: "class 8", "hazard class 4.1", "division 6.1".
	hazardClassPattern = regexp.MustCompile(`(?i)\b(?:hazard\s+class|division|class)\s+(\d(?:\.\d)?)\b`)

	// NMFC item codes: "NMFC 48580", "NMFC #48580-3".
	nmfcPattern = regexp.MustCompile(`(?i)\bNMFC\s*#?\s*(\d{4,6}(?:-\d{1,2})?)\b`)

	// Freight classes: the NMFC class scale only, so "class 8" (hazard)
	// never collides with "class 85" (freight).
	freightClassPattern = regexp.MustCompile(`(?i)\b(?:freight\s+)?class\s+(50|55|60|65|70|77\.5|85|92\.5|100|110|125|150|175|200|250|300|400|500)\b`)

	// ERG guide numbers: "ERG Guide 154", "guide 128", "ERG 154".
	ergGuidePattern = regexp.MustCompile(`(?i)\b(?:erg\s*(?:guide)?|guide)\s*#?\s*(\d{1,3})\b`)

	// 49 CFR section references: "§172.101", "section 173.150",
	// "49 CFR 172.504", or a bare part.section in the 100-189 range.
	sectionRefPattern = regexp.MustCompile(`(?i)(?:§\s*|section\s+|49\s+cfr\s+)?\b(1[0-8]\d\.\d{1,4})\b`)

	// Quantities: "500 kg", "55 gallons", "1.5 L".
	quantityPattern = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(kg|kilograms?|lbs?|pounds?|gallons?|gal|liters?|litres?|l|ml|oz|ounces?|quarts?|qt)\b`)

	// Temperatures: "140 F", "-18°C", "60 degrees C".
	temperaturePattern = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*(?:°\s*|[Dd]egrees?\s+)([CF])\b`)

	// Percentages: "51%", "20 percent".
	percentagePattern = regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*(?:%|percent)`)
)

// chemicalNames is the gazetteer of common hazmat chemical names.
// Multi-word names come first so the alternation prefers the longest match.
var chemicalNames = []string{
	"sulfuric acid", "hydrochloric acid", "nitric acid", "phosphoric acid",
	"acetic acid", "hydrofluoric acid", "hydrogen peroxide",
	"sodium hydroxide", "potassium hydroxide", "sodium hypochlorite",
	"isopropyl alcohol", "methyl ethyl ketone", "ethylene glycol",
	"carbon dioxide", "liquefied petroleum gas",
	"acetone", "ethanol", "methanol", "toluene", "xylene", "benzene",
	"gasoline", "diesel", "kerosene", "propane", "butane", "ammonia",
	"chlorine", "formaldehyde", "phenol", "styrene", "naphtha",
	"turpentine", "oxygen", "hydrogen", "acetylene", "bleach",
}

var chemicalNamePattern = buildChemicalPattern()

func buildChemicalPattern() *regexp.Regexp {
	alt := ""
	for i, name := range chemicalNames {
		if i > 0 {
			alt += "|"
		}
		alt += regexp.QuoteMeta(name)
	}
	return regexp.MustCompile(`(?i)\b(` + alt + `)\b`)
}
