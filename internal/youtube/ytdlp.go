package youtube

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/ytbrain/ytbrain/internal/domain"
)

// SubtitleExtractor shells out to yt-dlp to download a subtitle track
// without the video, then parses the resulting WebVTT file. It implements
// Strategy and is the second acquisition tier.
type SubtitleExtractor struct {
	binPath string
}

// NewSubtitleExtractor creates a SubtitleExtractor. binPath == "" resolves
// yt-dlp from PATH.
func NewSubtitleExtractor(binPath string) *SubtitleExtractor {
	if binPath == "" {
		binPath = "yt-dlp"
	}
	return &SubtitleExtractor{binPath: binPath}
}

// Name implements Strategy.
func (e *SubtitleExtractor) Name() string {
	return "yt-dlp-subtitles"
}

// Fetch downloads the best available english subtitle track into a temp
// directory and parses it. The command inherits ctx, so the strategy
// timeout kills a hung download.
func (e *SubtitleExtractor) Fetch(ctx context.Context, videoID string) ([]domain.Fragment, error) {
	dir, err := os.MkdirTemp("", "ytbrain-subs-*")
	if err != nil {
		return nil, fmt.Errorf("temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	cmd := exec.CommandContext(ctx, e.binPath,
		"--skip-download",
		"--write-subs",
		"--write-auto-subs",
		"--sub-langs", "en.*,en",
		"--sub-format", "vtt",
		"--no-warnings",
		"--quiet",
		"-o", filepath.Join(dir, "track"),
		domain.WatchURL(videoID),
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("yt-dlp failed: %v (%s)", err, firstLine(out))
	}

	matches, err := filepath.Glob(filepath.Join(dir, "track*.vtt"))
	if err != nil || len(matches) == 0 {
		return nil, fmt.Errorf("yt-dlp produced no subtitle file")
	}

	content, err := os.ReadFile(matches[0])
	if err != nil {
		return nil, fmt.Errorf("read subtitle file: %w", err)
	}

	fragments, err := ParseVTT(string(content))
	if err != nil {
		return nil, fmt.Errorf("parse subtitle file: %w", err)
	}
	return fragments, nil
}

func firstLine(out []byte) string {
	for i, b := range out {
		if b == '\n' {
			return string(out[:i])
		}
	}
	return string(out)
}
