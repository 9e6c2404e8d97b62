package search

import (
	"github.com/hazmatiq/hazsearch/internal/corpus"
	"github.com/hazmatiq/hazsearch/internal/query"
)

// SourceIntentBoost returns the relevance multiplier for a document
// source under a query intent. The switch is exhaustive over the closed
// intent set; every unlisted source falls through to 1.0 deliberately.
func SourceIntentBoost(source corpus.Source, intent query.Intent) float64 {
	switch intent {
	case query.IntentClassification:
		switch source {
		case corpus.SourceHMT:
			return 1.3
		case corpus.SourceCFR:
			return 1.1
		case corpus.SourceERG:
			return 0.9
		}
	case query.IntentEmergency:
		switch source {
		case corpus.SourceERG:
			return 1.5
		case corpus.SourceProducts:
			return 0.8
		}
	case query.IntentShipping:
		switch source {
		case corpus.SourceCFR:
			return 1.3
		case corpus.SourceHMT:
			return 1.2
		}
	case query.IntentPackaging:
		switch source {
		case corpus.SourceCFR:
			return 1.3
		case corpus.SourceHMT:
			return 1.1
		}
	case query.IntentDocumentation:
		switch source {
		case corpus.SourceCFR:
			return 1.2
		}
	case query.IntentCompliance:
		switch source {
		case corpus.SourceCFR:
			return 1.3
		case corpus.SourceHMT:
			return 1.1
		}
	case query.IntentProductLookup:
		switch source {
		case corpus.SourceProducts:
			return 1.4
		case corpus.SourceHMT:
			return 1.1
		}
	case query.IntentGeneral:
		// No preference.
	}
	return 1.0
}
