package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ytbrain/ytbrain/internal/cache"
	"github.com/ytbrain/ytbrain/internal/domain"
	"github.com/ytbrain/ytbrain/internal/telemetry"
)

// summaryTranscriptLimit trims the transcript handed to the language model.
const summaryTranscriptLimit = 6000

// SummaryClient is the external language-model collaborator. The core only
// hands over transcript text; prompting and completion live behind this
// interface.
type SummaryClient interface {
	SummarizeTranscript(ctx context.Context, transcript string) (*domain.VideoSummary, error)
}

// SummaryService computes and caches a structured summary per video.
type SummaryService struct {
	cache  *cache.Store
	client SummaryClient
	ttl    time.Duration
}

// NewSummaryService creates a SummaryService. ttl <= 0 defaults to 30 days.
func NewSummaryService(store *cache.Store, client SummaryClient, ttl time.Duration) *SummaryService {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &SummaryService{cache: store, client: client, ttl: ttl}
}

// Summarize returns the cached summary for videoID, computing it on first
// use. The video must have been ingested first.
func (s *SummaryService) Summarize(ctx context.Context, videoID string) (*domain.VideoSummary, error) {
	ctx, span := telemetry.StartSpan(ctx, "SummaryService.Summarize", telemetry.SpanAttributes{
		VideoID:   videoID,
		Operation: "summarize",
	})
	defer span.End()

	if v, ok := s.cache.Get(cache.SummaryKey(videoID)); ok {
		if summary, ok := v.(*domain.VideoSummary); ok {
			return summary, nil
		}
	}

	v, ok := s.cache.Get(cache.TranscriptKey(videoID))
	if !ok {
		return nil, domain.ErrSummaryNotReady
	}
	transcript, ok := v.(string)
	if !ok || transcript == "" {
		return nil, domain.ErrSummaryNotReady
	}

	if len(transcript) > summaryTranscriptLimit {
		transcript = transcript[:summaryTranscriptLimit]
	}

	summary, err := s.client.SummarizeTranscript(ctx, transcript)
	if err != nil {
		span.SetError(err)
		return nil, fmt.Errorf("summarize transcript: %w", err)
	}

	s.cache.Set(cache.SummaryKey(videoID), summary, s.ttl)
	return summary, nil
}
