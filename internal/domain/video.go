package domain

import (
	"net/url"
	"regexp"
	"strings"
)

// VideoMetadata is the basic descriptive payload for a video. It is cached
// alongside the transcript and feeds the metadata-only acquisition fallback.
type VideoMetadata struct {
	VideoID         string `json:"video_id"`
	Title           string `json:"title"`
	Channel         string `json:"channel"`
	Description     string `json:"description"`
	ThumbnailURL    string `json:"thumbnail_url"`
	DurationSeconds int    `json:"duration_seconds"`
	URL             string `json:"url"`
}

// videoIDPattern matches the canonical 11-character YouTube video id
// embedded in otherwise unrecognized URLs.
var videoIDPattern = regexp.MustCompile(`(?:v=|/)([0-9A-Za-z_-]{11})`)

// pathPrefixes are path segments whose following segment is a video id.
var pathPrefixes = map[string]bool{
	"shorts": true,
	"embed":  true,
	"live":   true,
	"v":      true,
}

// ExtractVideoID resolves a user-supplied reference (full watch URL, short
// link, shorts/embed/live path, or a bare id) to a video identifier.
// Returns ErrInvalidIdentifier when no id can be recovered.
func ExtractVideoID(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrInvalidIdentifier
	}

	// Bare 11-char ids are accepted as-is.
	if !strings.ContainsAny(ref, "/?&.") && len(ref) == 11 {
		return ref, nil
	}

	// youtu.be short links.
	if idx := strings.Index(ref, "youtu.be/"); idx >= 0 {
		id := ref[idx+len("youtu.be/"):]
		if cut := strings.IndexAny(id, "?&"); cut >= 0 {
			id = id[:cut]
		}
		if id != "" {
			return id, nil
		}
	}

	parsed, err := url.Parse(ref)
	if err == nil {
		// Standard watch?v= parameter.
		if v := parsed.Query().Get("v"); v != "" {
			return v, nil
		}

		// Path-based ids: /shorts/<id>, /embed/<id>, /live/<id>, /v/<id>.
		segments := strings.FieldsFunc(parsed.Path, func(r rune) bool { return r == '/' })
		for i, seg := range segments {
			if pathPrefixes[seg] && i+1 < len(segments) {
				return segments[i+1], nil
			}
		}
	}

	// Last resort: pull the first 11-char id-shaped token out of the string.
	if m := videoIDPattern.FindStringSubmatch(ref); m != nil {
		return m[1], nil
	}

	return "", ErrInvalidIdentifier
}

// WatchURL returns the canonical watch URL for a video id.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(videoID)
}
