// Package interval is the secondary numeric-correction pass: it parses
// percentage language from query and candidate text and nudges scores so
// regulatory concentration thresholds are respected precisely.
//
// Regulatory entries hinge on exact numeric intervals ("sulfuric acid
// with not more than 51 percent acid" is a different entry, with a
// different packing group, than "more than 51 percent"). Embedding
// similarity is blind to that distinction; this pass is not.
package interval

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Scoring constants.
const (
	// AffinityRange is the percentage-point distance at which affinity
	// decays to zero: score = max(0, 1 - distance/AffinityRange).
	AffinityRange = 50.0

	// BoundaryPenaltyDistance is the distance assigned when a query value
	// lands exactly on an excluded (exclusive) bound. Landing on "more
	// than 51" with exactly 51 is a near-miss, not a match.
	BoundaryPenaltyDistance = 40.0

	// DefaultIntervalWeight and DefaultNumericWeight scale the two
	// affinity signals added during the local rerank.
	DefaultIntervalWeight = 0.35
	DefaultNumericWeight  = 0.15

	// VariantBonus rewards (or, negated, penalizes) the presence of a
	// qualifying descriptor the query asked for.
	VariantBonus = 0.05
)

// variantTerms are the qualifying descriptors that name distinct
// regulatory entries for the same chemical.
var variantTerms = []string{"stabilized", "anhydrous"}

// Interval is a numeric percentage interval with per-bound inclusivity.
// Open ends use ±Inf.
type Interval struct {
	Lo          float64
	Hi          float64
	LoInclusive bool
	HiInclusive bool
}

// Contains reports whether v lies inside the interval, respecting
// bound inclusivity.
func (iv Interval) Contains(v float64) bool {
	if v < iv.Lo || (v == iv.Lo && !iv.LoInclusive) {
		return false
	}
	if v > iv.Hi || (v == iv.Hi && !iv.HiInclusive) {
		return false
	}
	return true
}

// distance returns how far v is from the interval, with the fixed
// boundary penalty when v sits exactly on an excluded bound.
func (iv Interval) distance(v float64) float64 {
	if iv.Contains(v) {
		return 0
	}
	if (v == iv.Lo && !iv.LoInclusive) || (v == iv.Hi && !iv.HiInclusive) {
		return BoundaryPenaltyDistance
	}
	if v < iv.Lo {
		return iv.Lo - v
	}
	return v - iv.Hi
}

const number = `(\d+(?:\.\d+)?)`

var (
	percentPattern = regexp.MustCompile(`(?i)\b` + number + `\s*(?:%|percent)`)

	// "at least 20 but not more than 60 percent" — closed interval.
	rangePattern = regexp.MustCompile(`(?i)\bat\s+least\s+` + number + `(?:\s*(?:%|percent))?\s+but\s+not\s+more\s+than\s+` + number + `\s*(?:%|percent)?`)

	// "not more than 51 percent" — open below, closed above.
	atMostPattern = regexp.MustCompile(`(?i)\bnot\s+more\s+than\s+` + number + `\s*(?:%|percent)?`)

	// "more than 51 percent" — open interval above an excluded bound.
	moreThanPattern = regexp.MustCompile(`(?i)\bmore\s+than\s+` + number + `\s*(?:%|percent)?`)

	// "exactly 30 percent" / "with 30 percent" — degenerate interval.
	exactPattern = regexp.MustCompile(`(?i)\b(?:exactly|with)\s+` + number + `\s*(?:%|percent)`)
)

// ExtractPercentages returns every percentage literal in document order.
// Malformed numerics are skipped, never propagated.
func ExtractPercentages(text string) []float64 {
	var values []float64
	for _, m := range percentPattern.FindAllStringSubmatch(text, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			values = append(values, v)
		}
	}
	return values
}

// ExtractIntervals parses the qualitative interval patterns from text.
// Compound ranges consume their span first so "at least A but not more
// than B" is never double-counted as a bare "not more than B".
func ExtractIntervals(text string) []Interval {
	var intervals []Interval
	var consumed [][2]int

	take := func(span []int) bool {
		for _, c := range consumed {
			if span[0] < c[1] && span[1] > c[0] {
				return false
			}
		}
		consumed = append(consumed, [2]int{span[0], span[1]})
		return true
	}

	for _, m := range rangePattern.FindAllStringSubmatchIndex(text, -1) {
		lo, err1 := strconv.ParseFloat(text[m[2]:m[3]], 64)
		hi, err2 := strconv.ParseFloat(text[m[4]:m[5]], 64)
		if err1 != nil || err2 != nil || !take(m[0:2]) {
			continue
		}
		intervals = append(intervals, Interval{Lo: lo, Hi: hi, LoInclusive: true, HiInclusive: true})
	}
	for _, m := range atMostPattern.FindAllStringSubmatchIndex(text, -1) {
		v, err := strconv.ParseFloat(text[m[2]:m[3]], 64)
		if err != nil || !take(m[0:2]) {
			continue
		}
		intervals = append(intervals, Interval{Lo: math.Inf(-1), Hi: v, HiInclusive: true})
	}
	for _, m := range moreThanPattern.FindAllStringSubmatchIndex(text, -1) {
		v, err := strconv.ParseFloat(text[m[2]:m[3]], 64)
		if err != nil || !take(m[0:2]) {
			continue
		}
		intervals = append(intervals, Interval{Lo: v, Hi: math.Inf(1), HiInclusive: true})
	}
	for _, m := range exactPattern.FindAllStringSubmatchIndex(text, -1) {
		v, err := strconv.ParseFloat(text[m[2]:m[3]], 64)
		if err != nil || !take(m[0:2]) {
			continue
		}
		intervals = append(intervals, Interval{Lo: v, Hi: v, LoInclusive: true, HiInclusive: true})
	}

	return intervals
}

// NumericAffinity is the best pairwise closeness between query and text
// percentage literals: max(0, 1 - |diff|/AffinityRange). Zero when
// either side has no percentages.
func NumericAffinity(queryText, text string) float64 {
	queryVals := ExtractPercentages(queryText)
	textVals := ExtractPercentages(text)
	if len(queryVals) == 0 || len(textVals) == 0 {
		return 0
	}

	best := 0.0
	for _, q := range queryVals {
		for _, t := range textVals {
			if score := 1 - math.Abs(q-t)/AffinityRange; score > best {
				best = score
			}
		}
	}
	return best
}

// IntervalAffinity scores how well the query's percentage values fit the
// intervals parsed from the candidate text. Strictly inside scores 1.0;
// outside decays with distance, with the fixed penalty for landing
// exactly on an excluded bound. Zero when either side short-circuits.
func IntervalAffinity(queryText, text string) float64 {
	queryVals := ExtractPercentages(queryText)
	intervals := ExtractIntervals(text)
	if len(queryVals) == 0 || len(intervals) == 0 {
		return 0
	}

	best := 0.0
	for _, q := range queryVals {
		for _, iv := range intervals {
			score := math.Max(0, 1-iv.distance(q)/AffinityRange)
			if score > best {
				best = score
			}
		}
	}
	return best
}

// Weights scales the two affinity signals in LocalRerank.
type Weights struct {
	Interval float64
	Numeric  float64
}

// DefaultLocalWeights returns the standard affinity blend.
func DefaultLocalWeights() Weights {
	return Weights{Interval: DefaultIntervalWeight, Numeric: DefaultNumericWeight}
}

// Candidate is the minimal surface LocalRerank needs: the candidate text
// and a mutable score. rank.Reranked satisfies it via an adapter in the
// caller; the function itself keeps no shared state.
type Candidate interface {
	CandidateText() string
	Score() float64
	SetScore(float64)
}

// LocalRerank adds the interval and numeric affinities to each
// candidate's score, applies the variant descriptor bonuses, and
// re-sorts descending. The input slice is modified in place.
func LocalRerank(queryText string, candidates []Candidate, weights *Weights) []Candidate {
	w := DefaultLocalWeights()
	if weights != nil {
		w = *weights
	}

	queryLower := strings.ToLower(queryText)
	for _, c := range candidates {
		text := c.CandidateText()
		score := c.Score()
		score += w.Interval * IntervalAffinity(queryText, text)
		score += w.Numeric * NumericAffinity(queryText, text)

		lower := strings.ToLower(text)
		for _, variant := range variantTerms {
			if !strings.Contains(queryLower, variant) {
				continue
			}
			if strings.Contains(lower, variant) {
				score += VariantBonus
			} else {
				score -= VariantBonus
			}
		}
		c.SetScore(score)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score() > candidates[j].Score()
	})
	return candidates
}
