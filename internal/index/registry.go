package index

import "sync"

// Registry holds each video's fitted Vectorizer. A model's lifetime is
// bound to the video's ready state: it is replaced on re-ingestion and
// absent whenever fitting failed, which disables the semantic tier for
// that video.
type Registry struct {
	mu     sync.RWMutex
	models map[string]*Vectorizer
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{models: make(map[string]*Vectorizer)}
}

// Put registers the fitted model for videoID, replacing any previous one.
func (r *Registry) Put(videoID string, v *Vectorizer) {
	r.mu.Lock()
	r.models[videoID] = v
	r.mu.Unlock()
}

// Get returns the fitted model for videoID.
func (r *Registry) Get(videoID string) (*Vectorizer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.models[videoID]
	return v, ok
}

// Delete removes videoID's model.
func (r *Registry) Delete(videoID string) {
	r.mu.Lock()
	delete(r.models, videoID)
	r.mu.Unlock()
}
