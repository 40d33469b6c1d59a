package extract

import "github.com/sells-group/resume-intel/internal/model"

// ConfidenceThreshold is the floor below which candidates are informational
// only and never enriched. Passes 1-3 clear it by construction; the
// @mention and proximity passes never do.
const ConfidenceThreshold = 0.9

// Select filters candidates to those at or above the confidence threshold
// and picks the single best one. Enrichment issues a bounded but nonzero
// number of remote calls, so it runs at most once per request — never once
// per candidate. Ties resolve to the earliest candidate in the sequence.
func Select(candidates []model.Candidate) (model.Candidate, bool) {
	var best model.Candidate
	found := false
	for _, c := range candidates {
		if c.Confidence < ConfidenceThreshold {
			continue
		}
		if !found || c.Confidence > best.Confidence {
			best = c
			found = true
		}
	}
	return best, found
}
