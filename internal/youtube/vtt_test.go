package youtube

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVTT_BasicCues(t *testing.T) {
	content := "WEBVTT\n" +
		"\n" +
		"00:00.000 --> 00:04.500\n" +
		"welcome to the video\n" +
		"\n" +
		"00:04.500 --> 00:09.000\n" +
		"today we cover goroutines\n"

	fragments, err := ParseVTT(content)
	require.NoError(t, err)
	require.Len(t, fragments, 2)

	assert.Equal(t, "welcome to the video", fragments[0].Text)
	assert.InDelta(t, 0.0, fragments[0].Start, 1e-9)
	assert.InDelta(t, 4.5, fragments[0].Duration, 1e-9)

	assert.Equal(t, "today we cover goroutines", fragments[1].Text)
	assert.InDelta(t, 4.5, fragments[1].Start, 1e-9)
}

func TestParseVTT_HoursAndCueIDs(t *testing.T) {
	content := "WEBVTT\n" +
		"\n" +
		"cue-1\n" +
		"01:02:03.250 --> 01:02:05.000 align:start position:0%\n" +
		"an hour in\n"

	fragments, err := ParseVTT(content)
	require.NoError(t, err)
	require.Len(t, fragments, 1)
	assert.InDelta(t, 3723.25, fragments[0].Start, 1e-9)
	assert.InDelta(t, 1.75, fragments[0].Duration, 1e-9)
}

func TestParseVTT_AutoCaptionDuplicates(t *testing.T) {
	// Auto-generated tracks repeat the previous line and carry inline
	// word timing tags.
	content := "WEBVTT\n" +
		"Kind: captions\n" +
		"Language: en\n" +
		"\n" +
		"00:00.000 --> 00:02.000\n" +
		"hello<00:00:01.000><c> there</c>\n" +
		"\n" +
		"00:02.000 --> 00:04.000\n" +
		"hello there\n" +
		"\n" +
		"00:04.000 --> 00:06.000\n" +
		"general kenobi\n"

	fragments, err := ParseVTT(content)
	require.NoError(t, err)
	require.Len(t, fragments, 2)
	assert.Equal(t, "hello there", fragments[0].Text)
	assert.Equal(t, "general kenobi", fragments[1].Text)
}

func TestParseVTT_MissingHeader(t *testing.T) {
	_, err := ParseVTT("00:00.000 --> 00:01.000\nhi\n")
	assert.Error(t, err)
}

func TestParseVTT_SkipsEmptyCues(t *testing.T) {
	content := "WEBVTT\n" +
		"\n" +
		"00:00.000 --> 00:01.000\n" +
		"<c></c>\n" +
		"\n" +
		"00:01.000 --> 00:02.000\n" +
		"actual text\n"

	fragments, err := ParseVTT(content)
	require.NoError(t, err)
	require.Len(t, fragments, 1)
	assert.Equal(t, "actual text", fragments[0].Text)
}

func TestParseVTTTimestamp(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "00:00.000", want: 0},
		{in: "01:30.500", want: 90.5},
		{in: "00:01:05.000", want: 65},
		{in: "02:00:00.000", want: 7200},
		{in: "garbage", wantErr: true},
		{in: "1:2:3:4.000", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseVTTTimestamp(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, tt.in)
	}
}
