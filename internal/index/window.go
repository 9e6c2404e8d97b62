package index

import (
	"sort"
	"strings"
)

// Window defaults. Sizes are in words, not characters: regulatory text
// is dense and word counts track token budgets closely enough.
const (
	DefaultWindowSize  = 512
	DefaultOverlapSize = 128
	DefaultMaxWindows  = 10
	DefaultContextSize = 256

	// MinMergeOverlap is the minimum word overlap required to splice two
	// windows instead of inserting a gap marker.
	MinMergeOverlap = 20

	// GapMarker separates windows that could not be spliced.
	GapMarker = "[...]"
)

// CreateWindows chunks text into overlapping word windows.
// Documents of windowSize words or fewer come back whole. Otherwise the
// window slides forward by windowSize-overlapSize words until it reaches
// the end of the text or maxWindows windows exist.
func CreateWindows(text string, windowSize, overlapSize, maxWindows int) []string {
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	if overlapSize < 0 || overlapSize >= windowSize {
		overlapSize = DefaultOverlapSize
	}
	if maxWindows <= 0 {
		maxWindows = DefaultMaxWindows
	}

	words := strings.Fields(text)
	if len(words) <= windowSize {
		return []string{text}
	}

	stride := windowSize - overlapSize
	var windows []string
	for start := 0; len(windows) < maxWindows; start += stride {
		end := start + windowSize
		if end >= len(words) {
			windows = append(windows, strings.Join(words[start:], " "))
			break
		}
		windows = append(windows, strings.Join(words[start:end], " "))
	}
	return windows
}

// CreateContextWindows extracts one window per unique match range:
// [pos-contextSize, pos+contextSize] words, clamped to text bounds.
// Identical ranges collapse to one window.
func CreateContextWindows(text string, matchPositions []int, contextSize int) []string {
	if len(matchPositions) == 0 {
		return nil
	}
	if contextSize <= 0 {
		contextSize = DefaultContextSize
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	type span struct{ start, end int }
	seen := make(map[span]bool)
	var spans []span
	for _, pos := range matchPositions {
		start := max(0, pos-contextSize)
		end := min(len(words), pos+contextSize+1)
		if start >= end {
			continue
		}
		s := span{start, end}
		if !seen[s] {
			seen[s] = true
			spans = append(spans, s)
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	windows := make([]string, 0, len(spans))
	for _, s := range spans {
		windows = append(windows, strings.Join(words[s.start:s.end], " "))
	}
	return windows
}

// MergeWindows folds windows left to right. Adjacent windows sharing at
// least MinMergeOverlap words (accumulated suffix equal to the next
// window's prefix) are spliced; otherwise they are joined with GapMarker.
func MergeWindows(windows []string) string {
	if len(windows) == 0 {
		return ""
	}

	merged := strings.Fields(windows[0])
	for _, next := range windows[1:] {
		nextWords := strings.Fields(next)
		overlap := suffixPrefixOverlap(merged, nextWords)
		if overlap >= MinMergeOverlap {
			merged = append(merged, nextWords[overlap:]...)
		} else {
			merged = append(merged, GapMarker)
			merged = append(merged, nextWords...)
		}
	}
	return strings.Join(merged, " ")
}

// suffixPrefixOverlap returns the length of the longest suffix of a that
// equals a prefix of b, at word granularity.
func suffixPrefixOverlap(a, b []string) int {
	maxLen := min(len(a), len(b))
	for n := maxLen; n > 0; n-- {
		if wordsEqual(a[len(a)-n:], b[:n]) {
			return n
		}
	}
	return 0
}

func wordsEqual(a, b []string) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
