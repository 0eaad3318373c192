package index

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytbrain/ytbrain/internal/domain"
)

func TestStore_SearchUnknownVideo(t *testing.T) {
	s := NewStore()
	results := s.Search("missing", []float32{1, 0}, 5)
	assert.Empty(t, results)
}

func TestStore_SearchEmptyVideo(t *testing.T) {
	s := NewStore()
	s.Upsert("vid", nil)
	assert.Empty(t, s.Search("vid", []float32{1, 0}, 5))
}

func TestStore_SearchRanksBySimilarity(t *testing.T) {
	s := NewStore()
	s.Upsert("vid", []domain.Chunk{
		{ChunkIndex: 0, Vector: []float32{0, 1, 0}},
		{ChunkIndex: 1, Vector: []float32{1, 0, 0}},
		{ChunkIndex: 2, Vector: []float32{0.7, 0.7, 0}},
	})

	results := s.Search("vid", []float32{1, 0, 0}, 3)
	require.Len(t, results, 2)
	// Exact match first, diagonal second; the orthogonal chunk scores 0
	// and is dropped.
	assert.Equal(t, 1, results[0].ChunkIndex)
	assert.Equal(t, 2, results[1].ChunkIndex)
}

func TestStore_SearchTiesBreakByChunkIndex(t *testing.T) {
	s := NewStore()
	s.Upsert("vid", []domain.Chunk{
		{ChunkIndex: 2, Vector: []float32{1, 0}},
		{ChunkIndex: 0, Vector: []float32{1, 0}},
		{ChunkIndex: 1, Vector: []float32{1, 0}},
	})

	results := s.Search("vid", []float32{1, 0}, 3)
	require.Len(t, results, 3)
	assert.Equal(t, 0, results[0].ChunkIndex)
	assert.Equal(t, 1, results[1].ChunkIndex)
	assert.Equal(t, 2, results[2].ChunkIndex)
}

func TestStore_SearchZeroNormVectors(t *testing.T) {
	s := NewStore()
	s.Upsert("vid", []domain.Chunk{
		{ChunkIndex: 0, Vector: []float32{0, 0}},
		{ChunkIndex: 1, Vector: []float32{1, 0}},
	})

	// Zero-norm query: every similarity is 0, nothing matches, no panic.
	assert.Empty(t, s.Search("vid", []float32{0, 0}, 5))

	// Zero-norm chunk vector scores 0 and is excluded.
	results := s.Search("vid", []float32{1, 0}, 5)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].ChunkIndex)
}

func TestStore_SearchTopK(t *testing.T) {
	s := NewStore()
	chunks := make([]domain.Chunk, 10)
	for i := range chunks {
		chunks[i] = domain.Chunk{ChunkIndex: i, Vector: []float32{1, float32(i) * 0.01}}
	}
	s.Upsert("vid", chunks)

	assert.Len(t, s.Search("vid", []float32{1, 0}, 4), 4)
	assert.Empty(t, s.Search("vid", []float32{1, 0}, 0))
}

func TestStore_UpsertReplacesWholeSet(t *testing.T) {
	s := NewStore()
	s.Upsert("vid", []domain.Chunk{
		{ChunkIndex: 0, Vector: []float32{1, 0}},
		{ChunkIndex: 1, Vector: []float32{1, 0}},
	})
	s.Upsert("vid", []domain.Chunk{
		{ChunkIndex: 0, Vector: []float32{0, 1}},
	})

	assert.Equal(t, 1, s.Count("vid"))
	assert.Empty(t, s.Search("vid", []float32{1, 0}, 5))
}

func TestStore_ConcurrentUpsertAndSearch(t *testing.T) {
	s := NewStore()
	chunks := []domain.Chunk{{ChunkIndex: 0, Vector: []float32{1, 0}}}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Upsert("vid", chunks)
		}()
		go func() {
			defer wg.Done()
			s.Search("vid", []float32{1, 0}, 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, s.Count("vid"))
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Get("vid")
	assert.False(t, ok)

	v := NewVectorizer(0)
	require.NoError(t, v.Fit([]string{"alpha beta gamma"}))
	r.Put("vid", v)

	got, ok := r.Get("vid")
	assert.True(t, ok)
	assert.Same(t, v, got)

	r.Delete("vid")
	_, ok = r.Get("vid")
	assert.False(t, ok)
}
