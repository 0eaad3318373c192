package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ytbrain/ytbrain/internal/domain"
)

const defaultOEmbedURL = "https://www.youtube.com/oembed"

// MetadataFetcher retrieves basic descriptive metadata for a video. The
// player endpoint carries title, channel, description and duration; oEmbed
// is the cheaper probe used when the player endpoint is blocked.
type MetadataFetcher struct {
	httpClient *http.Client
	captions   *CaptionClient
	oembedURL  string
}

// NewMetadataFetcher creates a MetadataFetcher sharing the caption
// client's player access.
func NewMetadataFetcher(httpClient *http.Client, captions *CaptionClient) *MetadataFetcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &MetadataFetcher{
		httpClient: httpClient,
		captions:   captions,
		oembedURL:  defaultOEmbedURL,
	}
}

// FetchBasicMetadata returns the video's title, channel, description and
// duration. Falls back from the player endpoint to oEmbed; both failing is
// an error.
func (f *MetadataFetcher) FetchBasicMetadata(ctx context.Context, videoID string) (*domain.VideoMetadata, error) {
	meta := &domain.VideoMetadata{
		VideoID:      videoID,
		ThumbnailURL: fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", videoID),
		URL:          domain.WatchURL(videoID),
	}

	if f.captions != nil {
		player, err := f.captions.fetchPlayerResponse(ctx, videoID, DefaultPersonas()[0])
		if err == nil && player.VideoDetails.Title != "" {
			meta.Title = player.VideoDetails.Title
			meta.Channel = player.VideoDetails.Author
			meta.Description = player.VideoDetails.ShortDescription
			if secs, err := strconv.Atoi(player.VideoDetails.LengthSeconds); err == nil {
				meta.DurationSeconds = secs
			}
			return meta, nil
		}
	}

	oembed, err := f.fetchOEmbed(ctx, videoID)
	if err != nil {
		return nil, err
	}
	meta.Title = oembed.Title
	meta.Channel = oembed.AuthorName
	if oembed.ThumbnailURL != "" {
		meta.ThumbnailURL = oembed.ThumbnailURL
	}
	return meta, nil
}

type oembedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

func (f *MetadataFetcher) fetchOEmbed(ctx context.Context, videoID string) (*oembedResponse, error) {
	endpoint := f.oembedURL + "?format=json&url=" + url.QueryEscape(domain.WatchURL(videoID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oembed fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oembed returned %d", resp.StatusCode)
	}

	var out oembedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("oembed decode: %w", err)
	}
	return &out, nil
}

const (
	syntheticGroupWords      = 50
	syntheticSecondsPerWord  = 2
	syntheticFragmentSeconds = 10
)

// MetadataFallback degrades to building synthetic fragments from the
// video's title and description when no caption track exists anywhere. It
// implements Strategy and is the last acquisition tier; it succeeds
// whenever basic metadata is reachable.
type MetadataFallback struct {
	fetcher *MetadataFetcher
}

// NewMetadataFallback creates the metadata-only degradation strategy.
func NewMetadataFallback(fetcher *MetadataFetcher) *MetadataFallback {
	return &MetadataFallback{fetcher: fetcher}
}

// Name implements Strategy.
func (m *MetadataFallback) Name() string {
	return "metadata-fallback"
}

// Fetch synthesizes fragments of syntheticGroupWords words each. Start
// times are spaced by word offset so the sampled timeline still spans the
// whole synthetic document; durations are nominal.
func (m *MetadataFallback) Fetch(ctx context.Context, videoID string) ([]domain.Fragment, error) {
	meta, err := m.fetcher.FetchBasicMetadata(ctx, videoID)
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(meta.Title + "\n\n" + meta.Description)
	words := strings.Fields(content)
	if len(words) == 0 {
		return nil, fmt.Errorf("metadata has no usable text")
	}

	fragments := make([]domain.Fragment, 0, len(words)/syntheticGroupWords+1)
	for i := 0; i < len(words); i += syntheticGroupWords {
		end := i + syntheticGroupWords
		if end > len(words) {
			end = len(words)
		}
		fragments = append(fragments, domain.Fragment{
			Text:     strings.Join(words[i:end], " "),
			Start:    float64(i * syntheticSecondsPerWord),
			Duration: syntheticFragmentSeconds,
		})
	}
	return fragments, nil
}
