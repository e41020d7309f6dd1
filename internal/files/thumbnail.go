// internal/files/thumbnail.go
package files

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/campustrade/campustrade-api/internal/options"
)

// ErrUnsupportedImage is returned for content the thumbnailer cannot decode.
var ErrUnsupportedImage = errors.New("unsupported image format for thumbnail")

// ThumbnailService writes JPEG thumbnails next to stored images.
type ThumbnailService struct {
	files *FileService
	opts  options.FileStorageOptions
}

func NewThumbnailService(files *FileService) *ThumbnailService {
	return &ThumbnailService{files: files, opts: files.Options()}
}

// ThumbnailPath maps "2026/10/abc.png" to "2026/10/abc_thumb.jpg".
func ThumbnailPath(rel string) string {
	ext := path.Ext(rel)
	return strings.TrimSuffix(rel, ext) + "_thumb.jpg"
}

// CanThumbnail reports whether a content type is decodable.
func CanThumbnail(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif", "image/bmp", "image/tiff":
		return true
	}
	return false
}

// Generate scales the image at rel to fit within the configured
// width x height, keeping aspect ratio and never upscaling, and saves it with
// the configured JPEG quality. It returns the thumbnail's relative path.
func (s *ThumbnailService) Generate(rel, contentType string) (string, error) {
	if !CanThumbnail(contentType) {
		return "", ErrUnsupportedImage
	}
	src, err := s.files.AbsolutePath(rel)
	if err != nil {
		return "", err
	}

	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	thumb := imaging.Fit(img, s.opts.ThumbnailWidth, s.opts.ThumbnailHeight, imaging.Lanczos)

	thumbRel := ThumbnailPath(rel)
	dst, err := s.files.AbsolutePath(thumbRel)
	if err != nil {
		return "", err
	}
	if err := imaging.Save(thumb, dst, imaging.JPEGQuality(s.opts.ThumbnailQuality)); err != nil {
		return "", fmt.Errorf("failed to save thumbnail: %w", err)
	}
	return thumbRel, nil
}
