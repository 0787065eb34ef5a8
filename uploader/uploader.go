package uploader

import (
	"context"
	"fmt"

	"github.com/AdwaithAnandSR/MediaCloudSync/config"
)

// Kind selects store-specific routing for an asset.
type Kind string

const (
	KindAudio Kind = "audio"
	KindImage Kind = "image"
)

// Uploader pushes a staged local file to the asset store and returns its
// public URL.
type Uploader interface {
	Upload(ctx context.Context, localPath string, kind Kind) (string, error)
}

func NewUploader(u config.Uploader) (Uploader, error) {
	switch u.Type {
	case "cloudinary":
		cloudName, ok := u.Config["cloud_name"]
		if !ok {
			return nil, fmt.Errorf("cloudinary uploader requires cloud_name")
		}
		apiKey, ok := u.Config["api_key"]
		if !ok {
			return nil, fmt.Errorf("cloudinary uploader requires api_key")
		}
		apiSecret, ok := u.Config["api_secret"]
		if !ok {
			return nil, fmt.Errorf("cloudinary uploader requires api_secret")
		}
		return NewCloudinary(cloudName, apiKey, apiSecret)
	case "local":
		path, ok := u.Config["path"]
		if !ok {
			return nil, fmt.Errorf("local uploader requires path")
		}
		baseURL, ok := u.Config["base_url"]
		if !ok {
			return nil, fmt.Errorf("local uploader requires base_url")
		}
		return NewLocal(path, baseURL), nil
	default:
		return nil, fmt.Errorf("unknown uploader type: %s", u.Type)
	}
}
