package uploader

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Local stores assets in a directory served by something else (nginx, the
// API's static route). Used for development and tests.
type Local struct {
	Path    string
	BaseURL string
}

var _ Uploader = (*Local)(nil)

func NewLocal(path string, baseURL string) *Local {
	return &Local{
		Path:    path,
		BaseURL: baseURL,
	}
}

func (l *Local) Upload(ctx context.Context, localPath string, kind Kind) (string, error) {
	basename := filepath.Base(localPath)
	destDir := filepath.Join(l.Path, folderFor(kind))

	// Create the destination directory if it doesn't exist
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}

	// Copy rather than move: the staging area stays owned by the pipeline's
	// cleanup discipline.
	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(destDir, basename), data, 0644); err != nil {
		return "", err
	}

	publicURL := l.BaseURL
	if !strings.HasSuffix(publicURL, "/") {
		publicURL += "/"
	}
	publicURL += folderFor(kind) + "/" + url.PathEscape(basename)

	return publicURL, nil
}

func folderFor(kind Kind) string {
	if kind == KindImage {
		return "covers"
	}
	return "songs"
}
