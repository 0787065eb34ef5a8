package ingest

import "github.com/AdwaithAnandSR/MediaCloudSync/policy"

// OutcomeKind classifies how an item's processing ended. Exactly one kind
// applies to every item.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeSkippedInvalidMetadata
	OutcomeSkippedNotMusic
	OutcomeSkippedExists
	OutcomeSkippedDuration
	OutcomeError
)

// Outcome is the terminal result of one item.
type Outcome struct {
	Kind OutcomeKind
	// SongURL and CoverURL are set on success.
	SongURL  string
	CoverURL string
	// Message is a short human-readable reason for skips and errors.
	Message string
}

func (o Outcome) Skipped() bool {
	switch o.Kind {
	case OutcomeSkippedInvalidMetadata, OutcomeSkippedNotMusic, OutcomeSkippedExists, OutcomeSkippedDuration:
		return true
	}
	return false
}

func successOutcome(songURL, coverURL string) Outcome {
	return Outcome{Kind: OutcomeSuccess, SongURL: songURL, CoverURL: coverURL, Message: "SUCCESS"}
}

func errorOutcome(err error) Outcome {
	return Outcome{Kind: OutcomeError, Message: err.Error()}
}

func skipOutcome(v policy.Verdict) Outcome {
	kind := OutcomeError
	switch v {
	case policy.SkipInvalidMetadata:
		kind = OutcomeSkippedInvalidMetadata
	case policy.SkipNotMusic:
		kind = OutcomeSkippedNotMusic
	case policy.SkipExists:
		kind = OutcomeSkippedExists
	case policy.SkipDuration:
		kind = OutcomeSkippedDuration
	}
	return Outcome{Kind: kind, Message: v.String()}
}
