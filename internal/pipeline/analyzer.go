// Package pipeline composes extraction, selection, and enrichment into the
// single AnalyzeText operation exposed to callers.
package pipeline

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/resume-intel/internal/enrich"
	"github.com/sells-group/resume-intel/internal/extract"
	"github.com/sells-group/resume-intel/internal/model"
	"github.com/sells-group/resume-intel/pkg/github"
)

// Analyzer runs the extraction and enrichment pipeline. It holds no mutable
// state across requests; every invocation is independent.
type Analyzer struct {
	enricher *enrich.Enricher
}

// New creates an Analyzer backed by the given GitHub client.
func New(gh github.Client) *Analyzer {
	return &Analyzer{enricher: enrich.New(gh)}
}

// NewWithEnricher creates an Analyzer with a pre-built enricher (for tests
// that need an injected clock).
func NewWithEnricher(e *enrich.Enricher) *Analyzer {
	return &Analyzer{enricher: e}
}

// AnalyzeText runs the full pipeline over raw resume text: normalize,
// extract candidates, select the single most confident one, enrich it. The
// result is always well-formed; empty or unmatchable text yields an empty
// success, never an error.
func (a *Analyzer) AnalyzeText(ctx context.Context, raw string) (*model.Result, error) {
	runID := uuid.NewString()
	log := zap.L().With(zap.String("run_id", runID))

	text := extract.Normalize(raw)
	if text == "" {
		log.Info("pipeline: empty input, nothing to extract")
		return model.EmptyResult(), nil
	}

	candidates := extract.Candidates(text)
	log.Info("pipeline: extraction complete", zap.Int("candidates", len(candidates)))

	selected, ok := extract.Select(candidates)
	if !ok {
		log.Info("pipeline: no candidate above threshold")
		return model.EmptyResult(), nil
	}

	log.Info("pipeline: enriching candidate",
		zap.String("kind", string(selected.Kind)),
		zap.String("identity", selected.IdentityKey()),
		zap.Float64("confidence", selected.Confidence),
	)

	rec := a.enricher.Enrich(ctx, selected)
	return &model.Result{Success: true, GitHub: []model.EnrichedRecord{*rec}}, nil
}
