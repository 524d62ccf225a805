package ai

import (
	"context"
)

// BriefingRequest carries one report to summarize for a pilot audience.
type BriefingRequest struct {
	Station string // ICAO identifier
	Product string // "metar", "taf", or "pirep"
	Raw     string // the raw coded report
	Decoded string // the locally generated decoded summary, given as context
}

// SummaryConfig holds configuration for summary generation
type SummaryConfig struct {
	Model       string
	Temperature float32
	MaxTokens   int32
}

// Summarizer defines the interface for plain-language report briefings.
// Implementations are expected to be safe for concurrent use.
type Summarizer interface {
	// Summarize turns a coded report into a short plain-language briefing.
	Summarize(ctx context.Context, req BriefingRequest) (string, error)
}
