package domain

// Fragment is one unit of raw timestamped text as delivered by an
// acquisition strategy, prior to chunking. Duration may be zero for
// synthetic fragments built from video metadata.
type Fragment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Chunk is a fixed-size, overlap-bounded unit of video text used for
// search and context assembly. ChunkIndex is unique and contiguous from 0
// within one video's chunk set. StartTime is the start of the first
// fragment that contributed a word to the chunk.
type Chunk struct {
	Text       string    `json:"text"`
	StartTime  float64   `json:"start_time"`
	ChunkIndex int       `json:"chunk_index"`
	Vector     []float32 `json:"vector,omitempty"`
}

// Concept is a single notable idea extracted by the summarizer.
type Concept struct {
	Name        string  `json:"name"`
	Explanation string  `json:"explanation"`
	StartTime   float64 `json:"start_time"`
}

// VideoSummary is the structured summary computed over a transcript.
type VideoSummary struct {
	Overview            string    `json:"overview"`
	DeepConcepts        []Concept `json:"deep_concepts"`
	ActionableTakeaways []string  `json:"actionable_takeaways"`
}
