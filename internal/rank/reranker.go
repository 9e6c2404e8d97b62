package rank

import (
	"fmt"
	"sort"
	"sync"

	hazerrors "github.com/hazmatiq/hazsearch/internal/errors"
	"github.com/hazmatiq/hazsearch/internal/query"
	"github.com/hazmatiq/hazsearch/internal/search"
)

// Reranker defaults.
const (
	// RerankerBlend and HybridBlend combine the weighted-feature score
	// with the first-stage hybrid score into the final ranking score.
	RerankerBlend = 0.6
	HybridBlend   = 0.4

	DefaultTopK         = 10
	DefaultThreshold    = 0.3
	DefaultLearningRate = 0.1

	// ExplanationSize is how many top contributions an explanation keeps.
	ExplanationSize = 5
)

// DefaultWeights returns the documented default weight table.
// Entity-kind matches dominate: an exact UN number hit is worth more
// than any amount of fuzzy lexical overlap.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		FeatureUNMatch:           3.0,
		FeatureCASMatch:          2.8,
		FeatureNMFCMatch:         2.5,
		FeatureSectionMatch:      2.5,
		FeatureERGMatch:          2.2,
		FeatureHazardClassMatch:  2.0,
		FeaturePackingGroupMatch: 2.0,
		FeatureFreightClassMatch: 2.0,
		FeatureChemicalMatch:     1.8,

		FeatureExactMatch:     2.0,
		FeatureWordOverlap:    1.2,
		FeatureBigramOverlap:  1.0,
		FeatureTrigramOverlap: 0.9,

		FeatureSemanticScore: 1.6,
		FeatureHybridScore:   1.5,
		FeatureKeywordScore:  1.3,

		FeatureSourceRelevance:      1.3,
		FeatureIntentAlignment:      1.2,
		FeatureMetadataCompleteness: 0.8,
		FeatureTermProximity:        0.9,
		FeatureTermDensity:          0.8,
		FeatureDocLength:            0.5,

		FeatureIsHMT:      0.8,
		FeatureIsERG:      0.8,
		FeatureIsCFR:      0.7,
		FeatureIsProducts: 0.5,

		FeatureHazmatIndicators:  1.5,
		FeatureFreightIndicators: 1.5,
	}
}

// Contribution is one (feature, weighted value) pair in an explanation.
type Contribution struct {
	Feature string  `json:"feature"`
	Value   float64 `json:"value"`
}

// Reranked is a search result with second-stage scores attached.
type Reranked struct {
	*search.Result

	// RerankerScore is the weighted-feature score in [0,1].
	RerankerScore float64

	// FinalScore blends RerankerScore and HybridScore; results are
	// ordered by it.
	FinalScore float64

	// Features is the raw feature map (populated when explaining).
	Features map[string]float64

	// Explanation holds the top contributing features (when requested).
	Explanation []Contribution
}

// Options configures one rerank call.
type Options struct {
	// TopK caps the output (default 10).
	TopK int

	// Threshold drops results whose FinalScore falls below it (default 0.3).
	Threshold float64

	// Explain attaches the feature map and top contributions.
	Explain bool
}

func (o Options) withDefaults() Options {
	if o.TopK <= 0 {
		o.TopK = DefaultTopK
	}
	if o.Threshold <= 0 {
		o.Threshold = DefaultThreshold
	}
	return o
}

// Reranker combines features through a mutable weighted linear model.
// The weight table is the only shared mutable state in the pipeline:
// Rerank takes a read lock, AdaptWeights a write lock, so concurrent
// reads always see a consistent table.
type Reranker struct {
	extractor *Extractor

	mu      sync.RWMutex
	weights map[string]float64
}

// RerankerOption configures the reranker at construction.
type RerankerOption func(*Reranker) error

// WithWeightTable replaces the default weight table. Unknown feature
// names and negative weights fail here, loudly, not at scoring time.
func WithWeightTable(weights map[string]float64) RerankerOption {
	return func(r *Reranker) error {
		known := DefaultWeights()
		for name, w := range weights {
			if _, ok := known[name]; !ok {
				return hazerrors.New(hazerrors.CodeWeightTable, fmt.Sprintf("unknown feature %q", name))
			}
			if w < 0 {
				return hazerrors.New(hazerrors.CodeWeightTable, fmt.Sprintf("negative weight %v for feature %q", w, name))
			}
		}
		table := make(map[string]float64, len(weights))
		for name, w := range weights {
			table[name] = w
		}
		r.weights = table
		return nil
	}
}

// NewReranker creates a reranker with the default weight table.
func NewReranker(opts ...RerankerOption) (*Reranker, error) {
	r := &Reranker{
		extractor: NewExtractor(),
		weights:   DefaultWeights(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Rerank scores each result with the weighted feature model, blends with
// the hybrid score, filters by threshold, and returns the top K sorted
// descending by FinalScore.
func (r *Reranker) Rerank(pq query.Processed, results []*search.Result, opts Options) []*Reranked {
	opts = opts.withDefaults()
	weights := r.snapshotWeights()

	reranked := make([]*Reranked, 0, len(results))
	for _, res := range results {
		features := r.extractor.Extract(pq, res)
		score := weightedScore(features, weights)

		rr := &Reranked{
			Result:        res,
			RerankerScore: score,
			FinalScore:    RerankerBlend*score + HybridBlend*res.HybridScore,
		}
		if rr.FinalScore < opts.Threshold {
			continue
		}
		if opts.Explain {
			rr.Features = features
			rr.Explanation = explain(features, weights)
		}
		reranked = append(reranked, rr)
	}

	sort.SliceStable(reranked, func(i, j int) bool {
		if reranked[i].FinalScore != reranked[j].FinalScore {
			return reranked[i].FinalScore > reranked[j].FinalScore
		}
		return reranked[i].Document.ID < reranked[j].Document.ID
	})

	if len(reranked) > opts.TopK {
		reranked = reranked[:opts.TopK]
	}
	return reranked
}

// AdaptWeights nudges every weight toward the features that distinguish
// the clicked result from the mean of the non-clicked ones, then clamps
// at zero. The sole state-mutating operation in the pipeline.
func (r *Reranker) AdaptWeights(pq query.Processed, clicked *search.Result, notClicked []*search.Result, learningRate float64) {
	if clicked == nil {
		return
	}
	if learningRate <= 0 {
		learningRate = DefaultLearningRate
	}

	clickedFeatures := r.extractor.Extract(pq, clicked)
	meanFeatures := r.meanFeatures(pq, notClicked)

	r.mu.Lock()
	defer r.mu.Unlock()
	for name := range r.weights {
		delta := clickedFeatures[name] - meanFeatures[name]
		w := r.weights[name] + learningRate*delta
		if w < 0 {
			w = 0
		}
		r.weights[name] = w
	}
}

// Weights returns a copy of the current weight table.
func (r *Reranker) Weights() map[string]float64 {
	return r.snapshotWeights()
}

func (r *Reranker) snapshotWeights() map[string]float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snapshot := make(map[string]float64, len(r.weights))
	for name, w := range r.weights {
		snapshot[name] = w
	}
	return snapshot
}

func (r *Reranker) meanFeatures(pq query.Processed, results []*search.Result) map[string]float64 {
	mean := make(map[string]float64)
	if len(results) == 0 {
		return mean
	}
	for _, res := range results {
		for name, v := range r.extractor.Extract(pq, res) {
			mean[name] += v
		}
	}
	n := float64(len(results))
	for name := range mean {
		mean[name] /= n
	}
	return mean
}

// weightedScore is the weighted mean over the features present in the
// map. The denominator counts only present features so sparse feature
// vectors are not penalized for what the query never asked about.
func weightedScore(features, weights map[string]float64) float64 {
	var sum, weightSum float64
	for name, value := range features {
		w, ok := weights[name]
		if !ok {
			continue
		}
		sum += value * w
		weightSum += w
	}
	if weightSum == 0 {
		return 0
	}
	return clamp01(sum / weightSum)
}

// explain returns the top weighted contributions, largest first.
func explain(features, weights map[string]float64) []Contribution {
	contributions := make([]Contribution, 0, len(features))
	for name, value := range features {
		if w, ok := weights[name]; ok && value*w > 0 {
			contributions = append(contributions, Contribution{Feature: name, Value: value * w})
		}
	}
	sort.Slice(contributions, func(i, j int) bool {
		if contributions[i].Value != contributions[j].Value {
			return contributions[i].Value > contributions[j].Value
		}
		return contributions[i].Feature < contributions[j].Feature
	})
	if len(contributions) > ExplanationSize {
		contributions = contributions[:ExplanationSize]
	}
	return contributions
}
