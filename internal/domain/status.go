package domain

// VideoStatus represents the ingestion state of a video.
type VideoStatus string

const (
	StatusUnknown    VideoStatus = "unknown"
	StatusProcessing VideoStatus = "processing"
	StatusReady      VideoStatus = "ready"
	StatusFailed     VideoStatus = "failed"
)

// ParseVideoStatus converts a stored status string into a VideoStatus.
// Unrecognized values map to StatusUnknown so a corrupted or legacy cache
// entry never produces an invalid state.
func ParseVideoStatus(s string) VideoStatus {
	switch VideoStatus(s) {
	case StatusProcessing, StatusReady, StatusFailed:
		return VideoStatus(s)
	default:
		return StatusUnknown
	}
}

// String implements fmt.Stringer.
func (s VideoStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the status is a final ingestion outcome.
func (s VideoStatus) IsTerminal() bool {
	return s == StatusReady || s == StatusFailed
}
