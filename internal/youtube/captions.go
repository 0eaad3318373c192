package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/ytbrain/ytbrain/internal/domain"
)

const (
	defaultInnertubeURL = "https://www.youtube.com/youtubei/v1/player"

	maxResponseBytes = 10 << 20
)

// ClientPersona is one protocol identity presented to the caption API.
// Different personas see different caption availability, so the client
// walks them in order until one yields timestamped text.
type ClientPersona struct {
	Name          string
	ClientName    string
	ClientVersion string
	UserAgent     string
}

// DefaultPersonas is the persona order estimated least likely to be
// blocked first.
func DefaultPersonas() []ClientPersona {
	return []ClientPersona{
		{
			Name:          "web",
			ClientName:    "WEB",
			ClientVersion: "2.20240726.00.00",
			UserAgent:     "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
		},
		{
			Name:          "android",
			ClientName:    "ANDROID",
			ClientVersion: "19.29.37",
			UserAgent:     "com.google.android.youtube/19.29.37 (Linux; U; Android 11) gzip",
		},
		{
			Name:          "ios",
			ClientName:    "IOS",
			ClientVersion: "19.29.1",
			UserAgent:     "com.google.ios.youtube/19.29.1 (iPhone16,2; U; CPU iOS 17_5_1 like Mac OS X)",
		},
	}
}

// CaptionClient fetches caption tracks through the structured player API.
// It implements Strategy and is the first acquisition tier.
type CaptionClient struct {
	httpClient *http.Client
	personas   []ClientPersona
	playerURL  string
}

// NewCaptionClient creates a CaptionClient using the default personas.
func NewCaptionClient(httpClient *http.Client) *CaptionClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &CaptionClient{
		httpClient: httpClient,
		personas:   DefaultPersonas(),
		playerURL:  defaultInnertubeURL,
	}
}

// Name implements Strategy.
func (c *CaptionClient) Name() string {
	return "captions-api"
}

// Fetch tries each persona in sequence; the first yielding non-empty
// timestamped text wins.
func (c *CaptionClient) Fetch(ctx context.Context, videoID string) ([]domain.Fragment, error) {
	var failures []string
	for _, persona := range c.personas {
		fragments, err := c.fetchWithPersona(ctx, videoID, persona)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", persona.Name, err))
			continue
		}
		if len(fragments) > 0 {
			return fragments, nil
		}
		failures = append(failures, fmt.Sprintf("%s: empty caption track", persona.Name))
	}
	return nil, fmt.Errorf("no persona yielded captions (%s)", strings.Join(failures, "; "))
}

type playerRequest struct {
	VideoID string        `json:"videoId"`
	Context playerContext `json:"context"`
}

type playerContext struct {
	Client personaClient `json:"client"`
}

type personaClient struct {
	ClientName    string `json:"clientName"`
	ClientVersion string `json:"clientVersion"`
	HL            string `json:"hl"`
}

type playerResponse struct {
	Captions struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	VideoDetails struct {
		VideoID          string `json:"videoId"`
		Title            string `json:"title"`
		Author           string `json:"author"`
		ShortDescription string `json:"shortDescription"`
		LengthSeconds    string `json:"lengthSeconds"`
	} `json:"videoDetails"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

func (c *CaptionClient) fetchWithPersona(ctx context.Context, videoID string, persona ClientPersona) ([]domain.Fragment, error) {
	player, err := c.fetchPlayerResponse(ctx, videoID, persona)
	if err != nil {
		return nil, err
	}

	tracks := player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, fmt.Errorf("no caption tracks listed")
	}

	track := pickTrack(tracks)
	body, err := c.getWithRetry(ctx, track.BaseURL+"&fmt=json3", persona.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("caption track fetch: %w", err)
	}

	fragments, err := parseTimedtext(body)
	if err != nil {
		return nil, fmt.Errorf("caption track parse: %w", err)
	}
	return fragments, nil
}

func (c *CaptionClient) fetchPlayerResponse(ctx context.Context, videoID string, persona ClientPersona) (*playerResponse, error) {
	payload, err := json.Marshal(playerRequest{
		VideoID: videoID,
		Context: playerContext{
			Client: personaClient{
				ClientName:    persona.ClientName,
				ClientVersion: persona.ClientVersion,
				HL:            "en",
			},
		},
	})
	if err != nil {
		return nil, err
	}

	var player playerResponse
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.playerURL, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", persona.UserAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("player endpoint returned %d", resp.StatusCode)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return backoff.Permanent(err)
			}
			return err
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return err
		}
		if err := json.Unmarshal(body, &player); err != nil {
			return backoff.Permanent(fmt.Errorf("player response decode: %w", err))
		}
		return nil
	}

	if err := backoff.Retry(operation, newCallBackoff(ctx)); err != nil {
		return nil, err
	}
	return &player, nil
}

// getWithRetry performs a GET with the per-call retry policy and returns
// the response body.
func (c *CaptionClient) getWithRetry(ctx context.Context, url, userAgent string) ([]byte, error) {
	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		if userAgent != "" {
			req.Header.Set("User-Agent", userAgent)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("unexpected status %d", resp.StatusCode)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return backoff.Permanent(err)
			}
			return err
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		return err
	}

	if err := backoff.Retry(operation, newCallBackoff(ctx)); err != nil {
		return nil, err
	}
	return body, nil
}

// newCallBackoff is the retry policy for one outbound network call.
// Strategy switching handles everything beyond transient flakiness.
func newCallBackoff(ctx context.Context) backoff.BackOff {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxElapsedTime = 10 * time.Second
	return backoff.WithContext(backoff.WithMaxRetries(policy, 2), ctx)
}

// pickTrack prefers a manually authored english track, then any english
// track, then the first listed.
func pickTrack(tracks []captionTrack) captionTrack {
	var english *captionTrack
	for i := range tracks {
		if !strings.HasPrefix(tracks[i].LanguageCode, "en") {
			continue
		}
		if tracks[i].Kind != "asr" {
			return tracks[i]
		}
		if english == nil {
			english = &tracks[i]
		}
	}
	if english != nil {
		return *english
	}
	return tracks[0]
}

// timedtextResponse is the json3 caption payload.
type timedtextResponse struct {
	Events []struct {
		StartMs    int64 `json:"tStartMs"`
		DurationMs int64 `json:"dDurationMs"`
		Segs       []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

func parseTimedtext(body []byte) ([]domain.Fragment, error) {
	var tt timedtextResponse
	if err := json.Unmarshal(body, &tt); err != nil {
		return nil, err
	}

	fragments := make([]domain.Fragment, 0, len(tt.Events))
	for _, ev := range tt.Events {
		var b strings.Builder
		for _, seg := range ev.Segs {
			b.WriteString(seg.UTF8)
		}
		text := strings.TrimSpace(strings.ReplaceAll(b.String(), "\n", " "))
		if text == "" {
			continue
		}
		fragments = append(fragments, domain.Fragment{
			Text:     text,
			Start:    float64(ev.StartMs) / 1000,
			Duration: float64(ev.DurationMs) / 1000,
		})
	}
	return fragments, nil
}
