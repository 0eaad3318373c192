package youtube

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ytbrain/ytbrain/internal/domain"
)

var (
	cueTimeLine = regexp.MustCompile(`^(\d{1,2}:)?\d{2}:\d{2}\.\d{3} --> (\d{1,2}:)?\d{2}:\d{2}\.\d{3}`)
	inlineTags  = regexp.MustCompile(`<[^>]*>`)
)

// ParseVTT converts WebVTT subtitle content into timestamped fragments.
// Auto-generated tracks carry inline word timing tags and repeat the
// previous cue's text; tags are stripped and consecutive duplicate lines
// collapsed.
func ParseVTT(content string) ([]domain.Fragment, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(strings.TrimSpace(content), "WEBVTT") {
		return nil, fmt.Errorf("invalid VTT: missing WEBVTT header")
	}

	var fragments []domain.Fragment
	var lastText string

	blocks := strings.Split(content, "\n\n")
	for _, block := range blocks {
		lines := strings.Split(strings.TrimSpace(block), "\n")

		// Find the cue timing line; anything before it is a cue id or
		// header metadata.
		timing := -1
		for i, line := range lines {
			if cueTimeLine.MatchString(line) {
				timing = i
				break
			}
		}
		if timing < 0 || timing == len(lines)-1 {
			continue
		}

		parts := strings.SplitN(lines[timing], " --> ", 2)
		start, err := parseVTTTimestamp(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid cue start: %w", err)
		}
		// Cue settings may trail the end timestamp.
		endField := strings.Fields(parts[1])[0]
		end, err := parseVTTTimestamp(endField)
		if err != nil {
			return nil, fmt.Errorf("invalid cue end: %w", err)
		}

		text := strings.Join(lines[timing+1:], " ")
		text = strings.TrimSpace(inlineTags.ReplaceAllString(text, ""))
		if text == "" || text == lastText {
			continue
		}
		lastText = text

		fragments = append(fragments, domain.Fragment{
			Text:     text,
			Start:    start,
			Duration: end - start,
		})
	}

	return fragments, nil
}

// parseVTTTimestamp parses HH:MM:SS.mmm or MM:SS.mmm into seconds.
func parseVTTTimestamp(ts string) (float64, error) {
	parts := strings.Split(ts, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("malformed timestamp %q", ts)
	}

	var hours int
	var err error
	if len(parts) == 3 {
		hours, err = strconv.Atoi(parts[0])
		if err != nil {
			return 0, fmt.Errorf("malformed hours in %q", ts)
		}
		parts = parts[1:]
	}

	minutes, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("malformed minutes in %q", ts)
	}

	seconds, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, fmt.Errorf("malformed seconds in %q", ts)
	}

	return float64(hours)*3600 + float64(minutes)*60 + seconds, nil
}
