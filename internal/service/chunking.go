package service

import (
	"strings"

	"github.com/ytbrain/ytbrain/internal/domain"
)

// ChunkConfig controls how a fragment stream is windowed into chunks.
type ChunkConfig struct {
	TargetWords  int
	OverlapWords int
	MaxChunks    int
}

// DefaultChunkConfig provides sane defaults for chunking.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		TargetWords:  250,
		OverlapWords: 40,
		MaxChunks:    16,
	}
}

type timedWord struct {
	word  string
	start float64
}

// chunkFragments flattens fragments into a word stream tagged with each
// word's originating fragment start time, slides a TargetWords window
// advancing by TargetWords-OverlapWords, then downsamples to MaxChunks.
// A chunk's StartTime is the timestamp of its first word; chunk indexes
// are contiguous from 0. An empty fragment list yields no chunks; fewer
// words than one window yield a single chunk holding everything.
func chunkFragments(fragments []domain.Fragment, cfg ChunkConfig) []domain.Chunk {
	if cfg.TargetWords <= 0 {
		cfg = DefaultChunkConfig()
	}

	var words []timedWord
	for _, f := range fragments {
		for _, w := range strings.Fields(f.Text) {
			words = append(words, timedWord{word: w, start: f.Start})
		}
	}
	if len(words) == 0 {
		return nil
	}

	step := cfg.TargetWords - cfg.OverlapWords
	if step <= 0 {
		step = cfg.TargetWords
	}

	var chunks []domain.Chunk
	for start := 0; start < len(words); start += step {
		end := start + cfg.TargetWords
		if end > len(words) {
			end = len(words)
		}

		parts := make([]string, 0, end-start)
		for _, tw := range words[start:end] {
			parts = append(parts, tw.word)
		}
		chunks = append(chunks, domain.Chunk{
			Text:       strings.Join(parts, " "),
			StartTime:  words[start].start,
			ChunkIndex: len(chunks),
		})

		if end >= len(words) {
			break
		}
	}

	return downsampleChunks(chunks, cfg.MaxChunks)
}

// downsampleChunks stride-samples chunks down to at most maxChunks and
// re-indexes them contiguously from 0. Sampling is deterministic, never
// random, so repeated ingestions of one video agree.
func downsampleChunks(chunks []domain.Chunk, maxChunks int) []domain.Chunk {
	if maxChunks <= 0 || len(chunks) <= maxChunks {
		return chunks
	}

	stride := len(chunks) / maxChunks
	if stride < 1 {
		stride = 1
	}

	sampled := make([]domain.Chunk, 0, maxChunks)
	for i := 0; i < len(chunks) && len(sampled) < maxChunks; i += stride {
		c := chunks[i]
		c.ChunkIndex = len(sampled)
		sampled = append(sampled, c)
	}
	return sampled
}
