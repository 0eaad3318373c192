package service

import (
	"context"
	"log"
	"math"
	"sort"
	"strings"

	"github.com/ytbrain/ytbrain/internal/cache"
	"github.com/ytbrain/ytbrain/internal/domain"
	"github.com/ytbrain/ytbrain/internal/index"
	"github.com/ytbrain/ytbrain/internal/telemetry"
)

// ChunkSearcher is the vector store interface consumed by retrieval.
type ChunkSearcher interface {
	Search(videoID string, queryVec []float32, topK int) []domain.Chunk
}

// RetrievalConfig bundles the cascade knobs.
type RetrievalConfig struct {
	// DesiredCount is how many chunks a query should assemble.
	DesiredCount int
	// MinResults is the cascade threshold: a tier producing fewer results
	// than this lets the next tier top the set up.
	MinResults int
	// ContextCharBudget clamps the concatenated context text.
	ContextCharBudget int
}

// DefaultRetrievalConfig provides the production defaults.
func DefaultRetrievalConfig() RetrievalConfig {
	return RetrievalConfig{
		DesiredCount:      8,
		MinResults:        4,
		ContextCharBudget: 12000,
	}
}

// truncationMarker trails a context window clamped by the char budget.
const truncationMarker = "\n...(additional content available)"

// queryStopWords are dropped from query tokens before keyword scoring.
// Includes conversational filler common in questions about a video.
var queryStopWords = map[string]bool{}

func init() {
	for _, w := range []string{
		"the", "a", "an", "is", "are", "was", "were", "in", "on", "at",
		"to", "for", "of", "with", "and", "or", "not", "this", "that",
		"it", "i", "me", "my", "we", "you", "what", "how", "why", "when",
		"can", "do", "does", "about", "from", "some", "explain", "tell",
	} {
		queryStopWords[w] = true
	}
}

// RetrievalService assembles a bounded, never-empty answer context for a
// query against one video's corpus. It cascades semantic search, keyword
// overlap, and uniform sampling; a weaker tier tops up rather than
// replaces what a stronger tier found.
type RetrievalService struct {
	cache    *cache.Store
	searcher ChunkSearcher
	models   *index.Registry
	cfg      RetrievalConfig
}

// NewRetrievalService creates a RetrievalService.
func NewRetrievalService(store *cache.Store, searcher ChunkSearcher, models *index.Registry, cfg RetrievalConfig) *RetrievalService {
	if cfg.DesiredCount <= 0 {
		cfg = DefaultRetrievalConfig()
	}
	return &RetrievalService{
		cache:    store,
		searcher: searcher,
		models:   models,
		cfg:      cfg,
	}
}

// Retrieve returns the best min(DesiredCount, total) chunks for the query.
// It fails only when the video has never been processed or its artifacts
// expired; retrieval itself always degrades to a weaker tier instead of
// erroring.
func (s *RetrievalService) Retrieve(ctx context.Context, videoID, query string) ([]domain.Chunk, error) {
	_, span := telemetry.StartSpan(ctx, "RetrievalService.Retrieve", telemetry.SpanAttributes{
		VideoID:   videoID,
		Operation: "retrieve",
	})
	defer span.End()

	chunks, ok := s.chunks(videoID)
	if !ok || len(chunks) == 0 {
		return nil, domain.ErrVideoNotProcessed
	}

	results := s.semanticTier(videoID, query)

	if len(results) < s.cfg.MinResults {
		results = topUp(results, s.keywordTier(chunks, query), s.cfg.DesiredCount)
	}

	if len(results) < s.cfg.MinResults {
		results = topUp(results, uniformSample(chunks, s.cfg.DesiredCount), s.cfg.DesiredCount)
	}

	return results, nil
}

// ContextWindow concatenates chunk texts and clamps the result to the
// configured character budget with a trailing marker, so downstream
// context size is bounded deterministically.
func (s *RetrievalService) ContextWindow(chunks []domain.Chunk) string {
	var b strings.Builder
	for _, c := range chunks {
		b.WriteString(c.Text)
		b.WriteString("\n\n")
	}

	text := b.String()
	if len(text) > s.cfg.ContextCharBudget {
		text = text[:s.cfg.ContextCharBudget] + truncationMarker
	}
	return text
}

func (s *RetrievalService) chunks(videoID string) ([]domain.Chunk, bool) {
	v, ok := s.cache.Get(cache.ChunksKey(videoID))
	if !ok {
		return nil, false
	}
	chunks, ok := v.([]domain.Chunk)
	return chunks, ok
}

// semanticTier embeds the query in the video's fitted vector space and
// ranks chunks by cosine similarity. A video whose index never fitted has
// no model registered and skips straight to the keyword tier.
func (s *RetrievalService) semanticTier(videoID, query string) []domain.Chunk {
	model, ok := s.models.Get(videoID)
	if !ok || !model.Fitted() {
		return nil
	}
	queryVec := model.EmbedQuery(query)
	results := s.searcher.Search(videoID, queryVec, s.cfg.DesiredCount)
	if len(results) > 0 {
		log.Printf("retrieve %s: semantic tier produced %d chunks", videoID, len(results))
	}
	return results
}

// keywordTier scores each chunk by the size of the intersection between
// the stop-word-stripped query token set and the chunk's token set. Only
// chunks sharing at least one token qualify.
func (s *RetrievalService) keywordTier(chunks []domain.Chunk, query string) []domain.Chunk {
	queryTokens := make(map[string]bool)
	for _, t := range strings.Fields(strings.ToLower(query)) {
		if !queryStopWords[t] {
			queryTokens[t] = true
		}
	}
	if len(queryTokens) == 0 {
		return nil
	}

	type scored struct {
		overlap int
		chunk   domain.Chunk
	}
	var candidates []scored
	for _, c := range chunks {
		chunkTokens := make(map[string]bool)
		for _, t := range strings.Fields(strings.ToLower(c.Text)) {
			chunkTokens[t] = true
		}
		overlap := 0
		for t := range queryTokens {
			if chunkTokens[t] {
				overlap++
			}
		}
		if overlap > 0 {
			candidates = append(candidates, scored{overlap: overlap, chunk: c})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].overlap != candidates[j].overlap {
			return candidates[i].overlap > candidates[j].overlap
		}
		return candidates[i].chunk.ChunkIndex < candidates[j].chunk.ChunkIndex
	})

	if len(candidates) > s.cfg.DesiredCount {
		candidates = candidates[:s.cfg.DesiredCount]
	}
	out := make([]domain.Chunk, len(candidates))
	for i, c := range candidates {
		out[i] = c.chunk
	}
	return out
}

// uniformSample picks count chunks evenly spaced across the whole ordered
// sequence, first and last chunk included, so the assembled context spans
// the full video even when nothing matched.
func uniformSample(chunks []domain.Chunk, count int) []domain.Chunk {
	if count <= 0 {
		return nil
	}
	if len(chunks) <= count {
		return chunks
	}
	// A single-chunk sample has no spacing to compute; take the opening
	// chunk.
	if count == 1 {
		return chunks[:1:1]
	}

	sampled := make([]domain.Chunk, 0, count)
	lastIdx := -1
	for k := 0; k < count; k++ {
		idx := int(math.Round(float64(k) * float64(len(chunks)-1) / float64(count-1)))
		if idx == lastIdx {
			continue
		}
		lastIdx = idx
		sampled = append(sampled, chunks[idx])
	}
	return sampled
}

// topUp extends results with unseen chunks from extra until limit.
func topUp(results, extra []domain.Chunk, limit int) []domain.Chunk {
	seen := make(map[int]bool, len(results))
	for _, c := range results {
		seen[c.ChunkIndex] = true
	}
	for _, c := range extra {
		if len(results) >= limit {
			break
		}
		if seen[c.ChunkIndex] {
			continue
		}
		seen[c.ChunkIndex] = true
		results = append(results, c)
	}
	return results
}
