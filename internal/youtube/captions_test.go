package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickTrack(t *testing.T) {
	manual := captionTrack{BaseURL: "manual", LanguageCode: "en", Kind: ""}
	auto := captionTrack{BaseURL: "auto", LanguageCode: "en", Kind: "asr"}
	regional := captionTrack{BaseURL: "regional", LanguageCode: "en-GB", Kind: ""}
	french := captionTrack{BaseURL: "fr", LanguageCode: "fr", Kind: ""}

	assert.Equal(t, "manual", pickTrack([]captionTrack{auto, french, manual}).BaseURL)
	assert.Equal(t, "regional", pickTrack([]captionTrack{french, auto, regional}).BaseURL)
	assert.Equal(t, "auto", pickTrack([]captionTrack{french, auto}).BaseURL)
	assert.Equal(t, "fr", pickTrack([]captionTrack{french}).BaseURL)
}

func TestParseTimedtext(t *testing.T) {
	body := []byte(`{"events":[
		{"tStartMs":0,"dDurationMs":3500,"segs":[{"utf8":"hello "},{"utf8":"world"}]},
		{"tStartMs":3500,"dDurationMs":1000,"segs":[{"utf8":"\n"}]},
		{"tStartMs":4500,"dDurationMs":2000,"segs":[{"utf8":"second line"}]}
	]}`)

	fragments, err := parseTimedtext(body)
	require.NoError(t, err)
	require.Len(t, fragments, 2, "whitespace-only events are skipped")

	assert.Equal(t, "hello world", fragments[0].Text)
	assert.InDelta(t, 0.0, fragments[0].Start, 1e-9)
	assert.InDelta(t, 3.5, fragments[0].Duration, 1e-9)

	assert.Equal(t, "second line", fragments[1].Text)
	assert.InDelta(t, 4.5, fragments[1].Start, 1e-9)
}

func TestParseTimedtext_Malformed(t *testing.T) {
	_, err := parseTimedtext([]byte("<html>blocked</html>"))
	assert.Error(t, err)
}

func TestCaptionClient_Fetch(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	timedtext := `{"events":[{"tStartMs":0,"dDurationMs":2000,"segs":[{"utf8":"captured"}]}]}`
	mux.HandleFunc("/timedtext", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "json3", r.URL.Query().Get("fmt"))
		fmt.Fprint(w, timedtext)
	})
	mux.HandleFunc("/player", func(w http.ResponseWriter, r *http.Request) {
		var req playerRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "abc123def45", req.VideoID)

		var resp playerResponse
		resp.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks = []captionTrack{
			{BaseURL: server.URL + "/timedtext?lang=en", LanguageCode: "en"},
		}
		json.NewEncoder(w).Encode(resp)
	})

	client := NewCaptionClient(server.Client())
	client.playerURL = server.URL + "/player"

	fragments, err := client.Fetch(context.Background(), "abc123def45")
	require.NoError(t, err)
	require.Len(t, fragments, 1)
	assert.Equal(t, "captured", fragments[0].Text)
	assert.InDelta(t, 2.0, fragments[0].Duration, 1e-9)
}

func TestCaptionClient_FallsBackAcrossPersonas(t *testing.T) {
	var seen []string
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	timedtext := `{"events":[{"tStartMs":0,"dDurationMs":1000,"segs":[{"utf8":"android wins"}]}]}`
	mux.HandleFunc("/timedtext", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, timedtext)
	})
	mux.HandleFunc("/player", func(w http.ResponseWriter, r *http.Request) {
		var req playerRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		seen = append(seen, req.Context.Client.ClientName)

		var resp playerResponse
		// The first persona sees no tracks at all.
		if req.Context.Client.ClientName == "WEB" {
			json.NewEncoder(w).Encode(resp)
			return
		}
		resp.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks = []captionTrack{
			{BaseURL: server.URL + "/timedtext?lang=en", LanguageCode: "en"},
		}
		json.NewEncoder(w).Encode(resp)
	})

	client := NewCaptionClient(server.Client())
	client.playerURL = server.URL + "/player"

	fragments, err := client.Fetch(context.Background(), "abc123def45")
	require.NoError(t, err)
	assert.Equal(t, "android wins", fragments[0].Text)
	assert.Equal(t, []string{"WEB", "ANDROID"}, seen)
}

func TestCaptionClient_AllPersonasBlocked(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 403 is permanent; no retries, straight to the next persona.
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewCaptionClient(server.Client())
	client.playerURL = server.URL

	_, err := client.Fetch(context.Background(), "abc123def45")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "web")
	assert.Contains(t, err.Error(), "android")
	assert.Contains(t, err.Error(), "ios")
}
