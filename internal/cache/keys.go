package cache

// Key namespace. Every derived artifact is namespaced by kind and video id
// so concurrent ingestions of different videos never collide.

func TranscriptKey(videoID string) string { return "transcript:" + videoID }

func ChunksKey(videoID string) string { return "chunks:" + videoID }

func StatusKey(videoID string) string { return "status:" + videoID }

func SummaryKey(videoID string) string { return "summary:" + videoID }

func VideoKey(videoID string) string { return "video:" + videoID }
