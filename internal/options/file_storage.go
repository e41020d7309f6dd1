// internal/options/file_storage.go
package options

import "strings"

// FileStorageSectionName is the configuration section holding FileStorageOptions.
const FileStorageSectionName = "FileStorage"

// FileStorageOptions configures where uploads are written and how
// thumbnails are produced.
type FileStorageOptions struct {
	UploadPath        string   `yaml:"upload_path"`
	BaseURL           string   `yaml:"base_url"`
	MaxFileSize       int64    `yaml:"max_file_size"`
	AllowedExtensions []string `yaml:"allowed_extensions"`
	ThumbnailWidth    int      `yaml:"thumbnail_width"`
	ThumbnailHeight   int      `yaml:"thumbnail_height"`
	ThumbnailQuality  int      `yaml:"thumbnail_quality"`
}

// DefaultFileStorageOptions returns the defaults applied before binding.
func DefaultFileStorageOptions() FileStorageOptions {
	return FileStorageOptions{
		UploadPath:        "uploads",
		BaseURL:           "/uploads",
		MaxFileSize:       5 * 1024 * 1024,
		AllowedExtensions: []string{".jpg", ".jpeg", ".png", ".gif", ".webp"},
		ThumbnailWidth:    200,
		ThumbnailHeight:   200,
		ThumbnailQuality:  80,
	}
}

// FileStorageOptionsValidator validates FileStorageOptions.
type FileStorageOptionsValidator struct{}

func (FileStorageOptionsValidator) Validate(_ string, opts FileStorageOptions) ValidateResult {
	var errs []string

	if strings.TrimSpace(opts.UploadPath) == "" {
		errs = append(errs, "upload path must not be empty")
	}
	if strings.TrimSpace(opts.BaseURL) == "" {
		errs = append(errs, "base URL must not be empty")
	}
	if opts.MaxFileSize <= 0 {
		errs = append(errs, "max file size must be greater than 0")
	}
	if opts.ThumbnailWidth <= 0 || opts.ThumbnailHeight <= 0 {
		errs = append(errs, "thumbnail dimensions must be greater than 0")
	}
	if opts.ThumbnailQuality < 1 || opts.ThumbnailQuality > 100 {
		errs = append(errs, "thumbnail quality must be between 1 and 100")
	}

	if len(errs) > 0 {
		return Fail(errs...)
	}
	return Success()
}
