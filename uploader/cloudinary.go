package uploader

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	cldapi "github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Cloudinary uploads assets to Cloudinary. Audio goes up under the "video"
// resource type (Cloudinary's bucket for audio), covers as images.
type Cloudinary struct {
	cld *cloudinary.Cloudinary
}

var _ Uploader = (*Cloudinary)(nil)

func NewCloudinary(cloudName, apiKey, apiSecret string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init failed: %w", err)
	}
	return &Cloudinary{cld: cld}, nil
}

func (c *Cloudinary) Upload(ctx context.Context, localPath string, kind Kind) (string, error) {
	base := filepath.Base(localPath)
	publicID := folderFor(kind) + "/" + strings.TrimSuffix(base, filepath.Ext(base))

	resourceType := "image"
	if kind == KindAudio {
		resourceType = "video"
	}

	resp, err := c.cld.Upload.Upload(ctx, localPath, cldapi.UploadParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload failed: %w", err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload failed: %s", resp.Error.Message)
	}
	return resp.SecureURL, nil
}
