package policy

import (
	"context"

	"github.com/AdwaithAnandSR/MediaCloudSync/catalog"
	"github.com/AdwaithAnandSR/MediaCloudSync/config"
	"github.com/AdwaithAnandSR/MediaCloudSync/extractor"
)

// Verdict is the outcome of the filter sequence.
type Verdict int

const (
	Pass Verdict = iota
	SkipInvalidMetadata
	SkipNotMusic
	SkipExists
	SkipDuration
)

func (v Verdict) String() string {
	switch v {
	case Pass:
		return "pass"
	case SkipInvalidMetadata:
		return "SKIPPED (invalid metadata)"
	case SkipNotMusic:
		return "SKIPPED (not Music)"
	case SkipExists:
		return "SKIPPED (already exists)"
	case SkipDuration:
		return "SKIPPED (duration)"
	}
	return "unknown"
}

// Skip reports whether the verdict rejects the item.
func (v Verdict) Skip() bool {
	return v != Pass
}

// Policy evaluates the filter sequence for one item. The predicates run in
// a fixed order and the first rejection wins: category, remote existence,
// duration. Metadata validity is decided upstream where the parse happens.
type Policy struct {
	cfg     config.FilterConfig
	catalog catalog.Client
}

func New(cfg config.FilterConfig, cat catalog.Client) *Policy {
	return &Policy{cfg: cfg, catalog: cat}
}

// Evaluate runs the sequence. The error return is only ever a transport
// failure from the existence check; it is the caller's to classify.
func (p *Policy) Evaluate(ctx context.Context, meta *extractor.VideoMetadata) (Verdict, error) {
	// Category: a declared set must include the required category. An
	// absent set passes; unknown is not a rejection.
	if len(meta.Categories) > 0 && !meta.HasCategory(p.cfg.RequiredCategory) {
		return SkipNotMusic, nil
	}

	exists, err := p.catalog.Exists(ctx, meta.ID, meta.Title)
	if err != nil {
		return Pass, err
	}
	if exists {
		return SkipExists, nil
	}

	// Duration bounds are inclusive. A zero/unknown duration fails as
	// below-minimum; that conservative reading is intentional.
	if meta.DurationSeconds < p.cfg.MinDuration || meta.DurationSeconds > p.cfg.MaxDuration {
		return SkipDuration, nil
	}

	return Pass, nil
}
