package assets_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/AdwaithAnandSR/MediaCloudSync/assets"
	"github.com/AdwaithAnandSR/MediaCloudSync/extractor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExtractor writes the named files into destDir when ExtractAudio runs.
type fakeExtractor struct {
	produce []string
	err     error
}

func (f *fakeExtractor) FetchListingPage(ctx context.Context, sourceURL string, playlistEnd int) ([]extractor.ListingEntry, error) {
	return nil, nil
}

func (f *fakeExtractor) FetchMetadata(ctx context.Context, videoURL string) (*extractor.VideoMetadata, error) {
	return nil, nil
}

func (f *fakeExtractor) ExtractAudio(ctx context.Context, videoID, videoURL, destDir string) error {
	if f.err != nil {
		return f.err
	}
	for _, name := range f.produce {
		if err := os.WriteFile(filepath.Join(destDir, name), []byte("audio"), 0644); err != nil {
			return err
		}
	}
	return nil
}

func stagedFiles(t *testing.T, dir, prefix string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		if len(e.Name()) >= len(prefix) && e.Name()[:len(prefix)] == prefix {
			names = append(names, e.Name())
		}
	}
	return names
}

func TestMaterializeAudioAndCover(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	thumb := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("jpegbytes"))
	}))
	defer thumb.Close()

	p := assets.NewPipeline(&fakeExtractor{produce: []string{"vid1.webm.mp3"}}, dir)
	staged, err := p.Materialize(context.Background(), &extractor.VideoMetadata{
		ID:           "vid1",
		ThumbnailURL: thumb.URL + "/vi/vid1/hq720.jpg",
	})
	require.NoError(t, err)

	// the unpredictable tool filename is resolved by prefix scan
	assert.Equal(filepath.Join(dir, "vid1.webm.mp3"), staged.AudioPath)
	assert.Equal(filepath.Join(dir, "vid1.jpg"), staged.CoverPath)

	staged.Cleanup()
	assert.Empty(stagedFiles(t, dir, "vid1"))
}

func TestMaterializeWithoutThumbnail(t *testing.T) {
	dir := t.TempDir()

	p := assets.NewPipeline(&fakeExtractor{produce: []string{"vid1.mp3"}}, dir)
	staged, err := p.Materialize(context.Background(), &extractor.VideoMetadata{ID: "vid1"})
	require.NoError(t, err)

	assert.Empty(t, staged.CoverPath)
	staged.Cleanup()
}

func TestMaterializeToolFailureCleansUp(t *testing.T) {
	dir := t.TempDir()

	// simulate a partial download left behind by a failed tool run
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vid1.part"), []byte("partial"), 0644))

	p := assets.NewPipeline(&fakeExtractor{err: errors.New("exit status 1")}, dir)
	_, err := p.Materialize(context.Background(), &extractor.VideoMetadata{ID: "vid1"})
	require.Error(t, err)

	assert.Empty(t, stagedFiles(t, dir, "vid1"))
}

func TestMaterializeMissingOutputIsAssetNotFound(t *testing.T) {
	dir := t.TempDir()

	// clean tool exit that produced nothing
	p := assets.NewPipeline(&fakeExtractor{}, dir)
	_, err := p.Materialize(context.Background(), &extractor.VideoMetadata{ID: "vid1"})
	assert.ErrorIs(t, err, assets.ErrAssetNotFound)
}

func TestMaterializeThumbnailFailureCleansUpAudio(t *testing.T) {
	dir := t.TempDir()

	thumb := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer thumb.Close()

	p := assets.NewPipeline(&fakeExtractor{produce: []string{"vid1.mp3"}}, dir)
	_, err := p.Materialize(context.Background(), &extractor.VideoMetadata{
		ID:           "vid1",
		ThumbnailURL: thumb.URL,
	})
	require.Error(t, err)

	assert.Empty(t, stagedFiles(t, dir, "vid1"))
}

func TestCleanupLeavesOtherItemsAlone(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.mp3"), []byte("x"), 0644))

	p := assets.NewPipeline(&fakeExtractor{produce: []string{"vid1.mp3"}}, dir)
	staged, err := p.Materialize(context.Background(), &extractor.VideoMetadata{ID: "vid1"})
	require.NoError(t, err)
	staged.Cleanup()

	assert.NotEmpty(t, stagedFiles(t, dir, "other"))
}
