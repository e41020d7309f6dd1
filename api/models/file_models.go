// api/models/file_models.go
package models

import (
	"time"

	"github.com/campustrade/campustrade-api/internal/domain"
)

// FileResponse is the public view of an uploaded file.
type FileResponse struct {
	ID           string    `json:"id"`
	OriginalName string    `json:"original_name"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewFileResponse maps a stored file.
func NewFileResponse(f *domain.StoredFile) FileResponse {
	return FileResponse{
		ID:           f.ID,
		OriginalName: f.OriginalName,
		URL:          f.URL,
		ThumbnailURL: f.ThumbnailURL,
		ContentType:  f.ContentType,
		Size:         f.Size,
		CreatedAt:    f.CreatedAt,
	}
}

// FileListResponse is one page of files.
type FileListResponse struct {
	Files  []FileResponse `json:"files"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}
