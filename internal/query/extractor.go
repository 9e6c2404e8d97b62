package query

import (
	"strconv"
	"strings"
)

// EntityExtractor pulls structured identifiers out of free text via
// pattern matching. It is stateless and safe for concurrent use.
type EntityExtractor struct{}

// NewEntityExtractor creates an entity extractor.
func NewEntityExtractor() *EntityExtractor {
	return &EntityExtractor{}
}

// Extract collects every non-overlapping match per entity kind, in
// document order. Duplicates are preserved.
func (x *EntityExtractor) Extract(text string) Entities {
	var e Entities

	for _, m := range unNumberPattern.FindAllStringSubmatch(text, -1) {
		e.UNNumbers = append(e.UNNumbers, "UN"+m[1])
	}
	for _, m := range casNumberPattern.FindAllStringSubmatch(text, -1) {
		e.CASNumbers = append(e.CASNumbers, m[1])
	}
	for _, m := range packingGroupPattern.FindAllStringSubmatch(text, -1) {
		e.PackingGroups = append(e.PackingGroups, normalizePackingGroup(m[1]))
	}
	for _, m := range hazardClassPattern.FindAllStringSubmatch(text, -1) {
		e.HazardClasses = append(e.HazardClasses, m[1])
	}
	for _, m := range nmfcPattern.FindAllStringSubmatch(text, -1) {
		e.NMFCCodes = append(e.NMFCCodes, m[1])
	}
	for _, m := range freightClassPattern.FindAllStringSubmatch(text, -1) {
		e.FreightClasses = append(e.FreightClasses, m[1])
	}
	for _, m := range ergGuidePattern.FindAllStringSubmatch(text, -1) {
		e.ERGGuides = append(e.ERGGuides, m[1])
	}
	for _, m := range sectionRefPattern.FindAllStringSubmatch(text, -1) {
		e.SectionRefs = append(e.SectionRefs, m[1])
	}
	for _, m := range chemicalNamePattern.FindAllStringSubmatch(text, -1) {
		e.ChemicalNames = append(e.ChemicalNames, strings.ToLower(m[1]))
	}

	for _, m := range quantityPattern.FindAllStringSubmatch(text, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			e.Quantities = append(e.Quantities, Measurement{Value: v, Unit: strings.ToLower(m[2])})
		}
	}
	for _, m := range temperaturePattern.FindAllStringSubmatch(text, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			e.Temperatures = append(e.Temperatures, Measurement{Value: v, Unit: strings.ToUpper(m[2])})
		}
	}
	for _, m := range percentagePattern.FindAllStringSubmatch(text, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			e.Percentages = append(e.Percentages, v)
		}
	}

	return e
}

// normalizePackingGroup maps "1"/"2"/"3" and lowercase numerals to I/II/III.
func normalizePackingGroup(raw string) string {
	switch strings.ToUpper(raw) {
	case "1", "I":
		return "I"
	case "2", "II":
		return "II"
	case "3", "III":
		return "III"
	}
	return strings.ToUpper(raw)
}
