package extractor

import (
	"context"
	"errors"
	"testing"

	"github.com/AdwaithAnandSR/MediaCloudSync/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeYTDLP(stdout string, runErr error) (*YTDLP, *[]string) {
	var captured []string
	y := NewYTDLP(config.ExtractorConfig{
		ExecPath:    "yt-dlp",
		CookiesPath: "cookies.txt",
		UserAgent:   "test-agent",
		ExtraArgs:   []string{"--extractor-args", "youtube:player_client=android"},
	})
	y.run = func(ctx context.Context, execPath string, args []string) ([]byte, []byte, error) {
		captured = args
		if runErr != nil {
			return nil, []byte("something broke"), runErr
		}
		return []byte(stdout), nil, nil
	}
	return y, &captured
}

func TestFetchListingPage(t *testing.T) {
	assert := assert.New(t)
	y, captured := fakeYTDLP(`{"id":"vid1","title":"First"}
{"id":"vid2","title":"Second"}
`, nil)

	entries, err := y.FetchListingPage(context.Background(), "https://www.youtube.com/@someband/videos", 15)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal("vid1", entries[0].ID)
	assert.Equal("First", entries[0].Title)
	assert.Equal("https://www.youtube.com/watch?v=vid2", entries[1].WatchURL())

	assert.Contains(*captured, "--flat-playlist")
	assert.Contains(*captured, "--playlist-end")
	assert.Contains(*captured, "15")
	assert.Contains(*captured, "--cookies")
	assert.Contains(*captured, "cookies.txt")
	assert.Contains(*captured, "--user-agent")
	assert.Contains(*captured, "--fragment-retries")
	assert.Contains(*captured, "infinite")
}

func TestFetchListingPageToolFailure(t *testing.T) {
	y, _ := fakeYTDLP("", errors.New("exit status 1"))

	_, err := y.FetchListingPage(context.Background(), "https://example.invalid", 10)
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Contains(t, toolErr.Error(), "something broke")
}

func TestFetchMetadata(t *testing.T) {
	assert := assert.New(t)
	y, captured := fakeYTDLP(`{"id":"vid1","title":"A Song","duration":240,"categories":["Music"],"thumbnail":"https://i.ytimg.com/vi/vid1/hq720.jpg","channel":"Some Band"}`, nil)

	meta, err := y.FetchMetadata(context.Background(), "https://www.youtube.com/watch?v=vid1")
	require.NoError(t, err)
	assert.Equal("vid1", meta.ID)
	assert.Equal(240, meta.DurationSeconds)
	assert.True(meta.HasCategory("Music"))
	assert.Equal("Some Band", meta.Artist())

	assert.Contains(*captured, "-j")
	assert.Contains(*captured, "--no-playlist")
}

func TestFetchMetadataMalformedPayload(t *testing.T) {
	y, _ := fakeYTDLP(`{"id": "vid1", truncated`, nil)

	_, err := y.FetchMetadata(context.Background(), "https://www.youtube.com/watch?v=vid1")
	var parseErr *MetadataParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestExtractAudioArgs(t *testing.T) {
	assert := assert.New(t)
	y, captured := fakeYTDLP("", nil)

	err := y.ExtractAudio(context.Background(), "vid1", "https://www.youtube.com/watch?v=vid1", "/tmp/stage")
	require.NoError(t, err)

	assert.Contains(*captured, "-x")
	assert.Contains(*captured, "--audio-format")
	assert.Contains(*captured, "mp3")
	assert.Contains(*captured, "/tmp/stage/vid1.%(ext)s")
}

func TestArtistFallback(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("Chan", (&VideoMetadata{Channel: "Chan", Uploader: "Up"}).Artist())
	assert.Equal("Up", (&VideoMetadata{Uploader: "Up"}).Artist())
	assert.Equal("Unknown", (&VideoMetadata{}).Artist())
}

func TestSourceURLNormalization(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("https://www.youtube.com/@someband/videos", ChannelVideosURL("@someband"))
	assert.Equal("https://www.youtube.com/channel/UCabc/videos", ChannelVideosURL("UCabc"))
	assert.Equal("https://www.youtube.com/c/someband/videos", ChannelVideosURL("https://www.youtube.com/c/someband/"))
	assert.Equal("https://www.youtube.com/playlist?list=PLxyz", PlaylistURL("PLxyz"))
	assert.Equal("https://example.com/playlist?list=PLxyz", PlaylistURL("https://example.com/playlist?list=PLxyz"))
	assert.Equal("https://www.youtube.com/watch?v=vid1", VideoURL("vid1"))
}
