package extractor

import (
	"context"
	"fmt"
	"strings"
)

// Extractor is the adapter around the external media-extraction tool. One
// implementation exists (yt-dlp); tests substitute fakes.
type Extractor interface {
	// FetchListingPage fetches a flat channel or playlist listing covering
	// at least the first playlistEnd entries.
	FetchListingPage(ctx context.Context, sourceURL string, playlistEnd int) ([]ListingEntry, error)
	// FetchMetadata fetches the full metadata record for one video.
	FetchMetadata(ctx context.Context, videoURL string) (*VideoMetadata, error)
	// ExtractAudio downloads and transcodes the video's audio track into
	// destDir. The produced filename starts with videoID but its exact
	// shape is up to the tool.
	ExtractAudio(ctx context.Context, videoID, videoURL, destDir string) error
}

// ListingEntry is one row of a flat listing. Flat listings carry only a
// subset of the metadata; the full record is fetched per item.
type ListingEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func (e ListingEntry) WatchURL() string {
	return "https://www.youtube.com/watch?v=" + e.ID
}

// VideoMetadata is the full per-video metadata record.
type VideoMetadata struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	DurationSeconds int      `json:"duration"`
	Categories      []string `json:"categories"`
	ThumbnailURL    string   `json:"thumbnail"`
	Channel         string   `json:"channel"`
	Uploader        string   `json:"uploader"`
}

// Artist resolves the artist name: channel, then uploader, then "Unknown".
func (m *VideoMetadata) Artist() string {
	if m.Channel != "" {
		return m.Channel
	}
	if m.Uploader != "" {
		return m.Uploader
	}
	return "Unknown"
}

// HasCategory reports whether the metadata declares the given category.
func (m *VideoMetadata) HasCategory(category string) bool {
	for _, c := range m.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// ToolError is returned when the extraction tool exits non-zero. It carries
// the captured stderr as the diagnostic message.
type ToolError struct {
	Stderr string
	Err    error
}

func (e *ToolError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("extraction tool failed: %v", e.Err)
	}
	return fmt.Sprintf("extraction tool failed: %s", msg)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// MetadataParseError is returned when the tool exited cleanly but its output
// is not valid JSON. It is classified as a skip, not a pipeline defect.
type MetadataParseError struct {
	Err error
}

func (e *MetadataParseError) Error() string {
	return fmt.Sprintf("malformed metadata payload: %v", e.Err)
}

func (e *MetadataParseError) Unwrap() error {
	return e.Err
}
