package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AdwaithAnandSR/MediaCloudSync/extractor"
	"github.com/AdwaithAnandSR/MediaCloudSync/util"
)

// ErrAssetNotFound is returned when the extraction tool exited cleanly but
// no output file with the expected prefix/suffix is in the staging
// directory. That is a pipeline fault, not a tool fault.
var ErrAssetNotFound = errors.New("audio asset not found after extraction")

// Staged holds the local paths produced for one item. CoverPath is empty
// when the metadata carried no thumbnail.
type Staged struct {
	VideoID   string
	AudioPath string
	CoverPath string

	dir string
}

// Cleanup removes every staged file for this item. Files are named by video
// id, so this never touches another item's assets.
func (s *Staged) Cleanup() {
	RemovePrefixed(s.dir, s.VideoID)
}

// Pipeline materializes an item's derived assets: the transcoded audio
// track and, when available, the cover image.
type Pipeline struct {
	extractor extractor.Extractor
	dir       string
	client    *http.Client
}

func NewPipeline(ext extractor.Extractor, dir string) *Pipeline {
	return &Pipeline{
		extractor: ext,
		dir:       dir,
		client:    &http.Client{Timeout: 60 * time.Second},
	}
}

// Materialize downloads and transcodes the audio, resolves the tool's
// actual output filename, and fetches the thumbnail. On any failure every
// file created for the item is removed before returning.
func (p *Pipeline) Materialize(ctx context.Context, meta *extractor.VideoMetadata) (staged *Staged, err error) {
	lg := util.GetLogger(ctx)

	defer func() {
		if err != nil {
			RemovePrefixed(p.dir, meta.ID)
		}
	}()

	videoURL := extractor.VideoURL(meta.ID)
	if err := p.extractor.ExtractAudio(ctx, meta.ID, videoURL, p.dir); err != nil {
		return nil, err
	}

	// The tool's output name is not fully predictable (container and
	// extension vary), so recover it by prefix/suffix scan.
	audioPath, err := ResolveByPrefix(p.dir, meta.ID, ".mp3")
	if err != nil {
		return nil, err
	}

	staged = &Staged{
		VideoID:   meta.ID,
		AudioPath: audioPath,
		dir:       p.dir,
	}

	if meta.ThumbnailURL != "" {
		coverPath, err := p.fetchThumbnail(ctx, meta.ID, meta.ThumbnailURL)
		if err != nil {
			return nil, err
		}
		staged.CoverPath = coverPath
	} else {
		lg.Debugf("(%s) no thumbnail in metadata, cover omitted\n", meta.ID)
	}

	return staged, nil
}

func (p *Pipeline) fetchThumbnail(ctx context.Context, videoID, thumbnailURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, thumbnailURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("thumbnail fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("thumbnail fetch returned status %d", resp.StatusCode)
	}

	coverPath := filepath.Join(p.dir, videoID+".jpg")
	f, err := os.Create(coverPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(coverPath)
		return "", err
	}
	return coverPath, nil
}

// ResolveByPrefix finds the file in dir whose name starts with prefix and
// ends with suffix. An empty result is ErrAssetNotFound.
func ResolveByPrefix(dir, prefix, suffix string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, suffix) {
			return filepath.Join(dir, name), nil
		}
	}
	return "", ErrAssetNotFound
}

// RemovePrefixed deletes every file in dir whose name starts with prefix.
func RemovePrefixed(dir, prefix string) {
	if prefix == "" {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), prefix) {
			os.Remove(filepath.Join(dir, entry.Name()))
		}
	}
}
