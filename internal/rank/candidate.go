package rank

// Candidate adapter methods so Reranked results can flow straight into
// the interval corrector's local rerank.

// CandidateText returns the underlying document text.
func (r *Reranked) CandidateText() string {
	return r.Document.Text
}

// Score returns the current final score.
func (r *Reranked) Score() float64 {
	return r.FinalScore
}

// SetScore replaces the final score.
func (r *Reranked) SetScore(s float64) {
	r.FinalScore = s
}
