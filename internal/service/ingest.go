package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/ytbrain/ytbrain/internal/cache"
	"github.com/ytbrain/ytbrain/internal/domain"
	"github.com/ytbrain/ytbrain/internal/index"
	"github.com/ytbrain/ytbrain/internal/telemetry"
)

// Acquirer defines the acquisition orchestrator consumed by ingestion.
type Acquirer interface {
	Acquire(ctx context.Context, videoID string) ([]domain.Fragment, error)
}

// MetadataClient fetches basic video metadata for caching.
type MetadataClient interface {
	FetchBasicMetadata(ctx context.Context, videoID string) (*domain.VideoMetadata, error)
}

// ChunkStore is the vector store interface consumed by ingestion.
type ChunkStore interface {
	Upsert(videoID string, chunks []domain.Chunk)
}

// IngestConfig bundles the ingestion knobs.
type IngestConfig struct {
	Chunking    ChunkConfig
	MaxFeatures int
	ArtifactTTL time.Duration
	StatusTTL   time.Duration
}

// DefaultIngestConfig provides the production defaults: long-lived derived
// artifacts, short-lived transient status.
func DefaultIngestConfig() IngestConfig {
	return IngestConfig{
		Chunking:    DefaultChunkConfig(),
		MaxFeatures: index.DefaultMaxFeatures,
		ArtifactTTL: 30 * 24 * time.Hour,
		StatusTTL:   time.Hour,
	}
}

// IngestService turns a video identifier into a ready, queryable corpus:
// acquire fragments, chunk, fit the per-video index, embed, persist.
type IngestService struct {
	acquirer Acquirer
	metadata MetadataClient
	cache    *cache.Store
	store    ChunkStore
	models   *index.Registry
	cfg      IngestConfig

	group singleflight.Group
}

// NewIngestService creates an IngestService. metadata may be nil; metadata
// caching is then skipped.
func NewIngestService(
	acquirer Acquirer,
	metadata MetadataClient,
	store *cache.Store,
	chunkStore ChunkStore,
	models *index.Registry,
	cfg IngestConfig,
) *IngestService {
	if cfg.ArtifactTTL <= 0 {
		cfg = DefaultIngestConfig()
	}
	return &IngestService{
		acquirer: acquirer,
		metadata: metadata,
		cache:    store,
		store:    chunkStore,
		models:   models,
		cfg:      cfg,
	}
}

// Ingest processes videoID end to end and returns the resulting status.
// An already-ready video returns immediately without re-invoking any
// acquisition strategy. Concurrent calls for the same video are collapsed
// into a single pipeline run; every caller receives its outcome.
func (s *IngestService) Ingest(ctx context.Context, videoID string) (domain.VideoStatus, error) {
	ctx, span := telemetry.StartSpan(ctx, "IngestService.Ingest", telemetry.SpanAttributes{
		VideoID:   videoID,
		Operation: "ingest",
	})
	defer span.End()

	if s.Status(videoID) == domain.StatusReady && s.cache.Exists(cache.ChunksKey(videoID)) {
		return domain.StatusReady, nil
	}

	result, err, shared := s.group.Do(videoID, func() (any, error) {
		return s.ingestOnce(ctx, videoID)
	})
	if shared {
		log.Printf("ingest %s: joined in-flight ingestion", videoID)
	}
	if err != nil {
		span.SetError(err)
	}

	status, ok := result.(domain.VideoStatus)
	if !ok {
		status = domain.StatusFailed
	}
	return status, err
}

// ingestOnce runs the full pipeline. It is executed by exactly one caller
// per video at a time.
func (s *IngestService) ingestOnce(ctx context.Context, videoID string) (domain.VideoStatus, error) {
	runID := uuid.NewString()[:8]
	log.Printf("ingest %s [%s]: starting", videoID, runID)

	s.setStatus(videoID, domain.StatusProcessing)

	// Metadata is cached best-effort; its absence never fails ingestion.
	if s.metadata != nil {
		if meta, err := s.metadata.FetchBasicMetadata(ctx, videoID); err == nil {
			s.cache.Set(cache.VideoKey(videoID), meta, s.cfg.ArtifactTTL)
		} else {
			log.Printf("ingest %s [%s]: metadata fetch failed (continuing): %v", videoID, runID, err)
		}
	}

	fragments, err := s.acquirer.Acquire(ctx, videoID)
	if err != nil {
		s.setStatus(videoID, domain.StatusFailed)
		return domain.StatusFailed, err
	}

	transcript := joinFragments(fragments)
	if transcript == "" {
		s.setStatus(videoID, domain.StatusFailed)
		return domain.StatusFailed, domain.ErrEmptyCorpus
	}

	chunks := chunkFragments(fragments, s.cfg.Chunking)
	if len(chunks) == 0 {
		s.setStatus(videoID, domain.StatusFailed)
		return domain.StatusFailed, domain.ErrEmptyCorpus
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectorizer := index.NewVectorizer(s.cfg.MaxFeatures)
	if err := vectorizer.Fit(texts); err != nil {
		// Degenerate vocabulary. The video still becomes ready; retrieval
		// skips the semantic tier and cascades to keyword/sampling.
		log.Printf("ingest %s [%s]: index fit failed, semantic search disabled: %v", videoID, runID, err)
		s.models.Delete(videoID)
	} else {
		vectors := vectorizer.EmbedBatch(texts)
		for i := range chunks {
			chunks[i].Vector = vectors[i]
		}
		s.models.Put(videoID, vectorizer)
	}

	s.store.Upsert(videoID, chunks)
	s.cache.Set(cache.TranscriptKey(videoID), transcript, s.cfg.ArtifactTTL)
	s.cache.Set(cache.ChunksKey(videoID), chunks, s.cfg.ArtifactTTL)
	s.setStatus(videoID, domain.StatusReady)

	log.Printf("ingest %s [%s]: ready with %d chunks", videoID, runID, len(chunks))
	return domain.StatusReady, nil
}

// Status returns the explicit ingestion status for videoID. An absent or
// expired status key reads as unknown.
func (s *IngestService) Status(videoID string) domain.VideoStatus {
	v, ok := s.cache.Get(cache.StatusKey(videoID))
	if !ok {
		return domain.StatusUnknown
	}
	str, ok := v.(string)
	if !ok {
		return domain.StatusUnknown
	}
	return domain.ParseVideoStatus(str)
}

// Chunks returns the cached chunk set for videoID.
func (s *IngestService) Chunks(videoID string) ([]domain.Chunk, bool) {
	v, ok := s.cache.Get(cache.ChunksKey(videoID))
	if !ok {
		return nil, false
	}
	chunks, ok := v.([]domain.Chunk)
	return chunks, ok
}

// Metadata returns the cached metadata for videoID.
func (s *IngestService) Metadata(videoID string) (*domain.VideoMetadata, bool) {
	v, ok := s.cache.Get(cache.VideoKey(videoID))
	if !ok {
		return nil, false
	}
	meta, ok := v.(*domain.VideoMetadata)
	return meta, ok
}

// setStatus writes the status key. The ready status lives as long as the
// artifacts it describes; processing and failed expire quickly so a
// crashed or failed run can be retried without waiting out the long TTL.
func (s *IngestService) setStatus(videoID string, status domain.VideoStatus) {
	ttl := s.cfg.StatusTTL
	if status == domain.StatusReady {
		ttl = s.cfg.ArtifactTTL
	}
	s.cache.Set(cache.StatusKey(videoID), string(status), ttl)
}

func joinFragments(fragments []domain.Fragment) string {
	parts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if t := strings.TrimSpace(f.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
