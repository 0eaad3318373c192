package index

import (
	"math"
	"sort"
	"sync"

	"github.com/ytbrain/ytbrain/internal/domain"
)

// Store holds every video's chunk vectors in memory and performs
// brute-force cosine-similarity ranking. It is shared by all in-flight
// requests; Upsert replaces a video's entire chunk set in one map
// assignment, so readers during re-ingestion see either the old set or the
// new one, never a mix.
type Store struct {
	mu     sync.RWMutex
	videos map[string][]domain.Chunk
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{videos: make(map[string][]domain.Chunk)}
}

// Upsert atomically replaces the chunk set for videoID. No partial update.
func (s *Store) Upsert(videoID string, chunks []domain.Chunk) {
	copied := make([]domain.Chunk, len(chunks))
	copy(copied, chunks)

	s.mu.Lock()
	s.videos[videoID] = copied
	s.mu.Unlock()
}

// Delete removes a video's chunk set.
func (s *Store) Delete(videoID string) {
	s.mu.Lock()
	delete(s.videos, videoID)
	s.mu.Unlock()
}

// Count returns the number of chunks stored for videoID.
func (s *Store) Count(videoID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.videos[videoID])
}

// Search ranks videoID's chunks by cosine similarity to queryVec and
// returns the topK best matches, ties broken by ascending chunk index.
// Chunks with no term overlap (similarity <= 0) are deliberately dropped
// rather than kept as zero-scored padding: the retrieval cascade fills any
// shortfall from its weaker tiers, so this layer only ever reports real
// matches. A zero-norm query or chunk vector scores 0 rather than dividing
// by zero, and an unknown or empty video yields an empty slice, never an
// error. Callers treat an empty result as "no semantic match", not "video
// absent".
func (s *Store) Search(videoID string, queryVec []float32, topK int) []domain.Chunk {
	s.mu.RLock()
	chunks := s.videos[videoID]
	s.mu.RUnlock()

	if len(chunks) == 0 || topK <= 0 {
		return nil
	}

	type scored struct {
		sim   float64
		chunk domain.Chunk
	}
	results := make([]scored, 0, len(chunks))
	for _, c := range chunks {
		sim := cosine(queryVec, c.Vector)
		if sim <= 0 {
			continue
		}
		results = append(results, scored{sim: sim, chunk: c})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].sim != results[j].sim {
			return results[i].sim > results[j].sim
		}
		return results[i].chunk.ChunkIndex < results[j].chunk.ChunkIndex
	})

	if len(results) > topK {
		results = results[:topK]
	}
	out := make([]domain.Chunk, len(results))
	for i, r := range results {
		out[i] = r.chunk
	}
	return out
}

// cosine returns the cosine similarity of a and b. Mismatched lengths or a
// zero-norm vector score 0.
func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
