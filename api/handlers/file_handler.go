// api/handlers/file_handler.go
package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campustrade/campustrade-api/api/middleware"
	"github.com/campustrade/campustrade-api/api/models"
	"github.com/campustrade/campustrade-api/internal/core"
	"github.com/campustrade/campustrade-api/internal/domain"
	"github.com/campustrade/campustrade-api/internal/files"
	"github.com/campustrade/campustrade-api/internal/metrics"
	"github.com/campustrade/campustrade-api/internal/storage"
)

// multipartOverhead is slack for multipart boundaries and headers on top of
// the file size limit.
const multipartOverhead = 1 << 20

// FileHandler serves uploads.
type FileHandler struct {
	DB      *sql.DB
	Files   *files.FileService
	Thumbs  *files.ThumbnailService
	Metrics *metrics.Metrics
}

func NewFileHandler(db *sql.DB, fileService *files.FileService, thumbs *files.ThumbnailService, m *metrics.Metrics) *FileHandler {
	return &FileHandler{DB: db, Files: fileService, Thumbs: thumbs, Metrics: m}
}

// Upload stores the multipart field "file". With thumbnail=true (query or
// form), a thumbnail is generated for decodable images; thumbnail failures
// are logged and do not fail the upload.
func (h *FileHandler) Upload(c *gin.Context) {
	ownerID := middleware.UserIDFrom(c)
	maxBody := h.Files.Options().MaxFileSize + multipartOverhead
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBody)

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = files.ErrFileTooLarge
		} else {
			err = fmt.Errorf("%w: multipart field 'file' is required", middleware.ErrBadRequest)
		}
		h.Metrics.Upload("rejected")
		_ = c.Error(err)
		return
	}

	saved, err := h.Files.Save(c.Request.Context(), header)
	if err != nil {
		customLog.Warnf("Upload by %s rejected: %v", ownerID, err)
		h.Metrics.Upload("rejected")
		_ = c.Error(err)
		return
	}

	record := &domain.StoredFile{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		OriginalName: saved.OriginalName,
		RelativePath: saved.RelativePath,
		URL:          saved.URL,
		ContentType:  saved.ContentType,
		Size:         saved.Size,
	}

	if wantThumbnail(c) && files.CanThumbnail(saved.ContentType) {
		thumbRel, err := h.Thumbs.Generate(saved.RelativePath, saved.ContentType)
		if err != nil {
			customLog.Warnf("Thumbnail for %s failed: %v", saved.RelativePath, err)
		} else {
			record.ThumbnailPath = thumbRel
			record.ThumbnailURL = h.Files.URLFor(thumbRel)
		}
	}

	if err := storage.CreateFileRecord(c.Request.Context(), h.DB, record); err != nil {
		h.removeStored(record)
		h.Metrics.Upload("error")
		_ = c.Error(err)
		return
	}

	stored, err := storage.FindFileRecord(c.Request.Context(), h.DB, ownerID, record.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.Metrics.Upload("stored")
	customLog.Printf("User %s uploaded %s (%d bytes)", ownerID, saved.RelativePath, saved.Size)
	c.JSON(http.StatusCreated, models.NewFileResponse(stored))
}

// List returns a page of the caller's files.
func (h *FileHandler) List(c *gin.Context) {
	opts, err := core.ParseListQueryOptions(c.Request.URL.Query(), storage.FileSortColumns)
	if err != nil {
		_ = c.Error(err)
		return
	}

	records, err := storage.ListFileRecords(c.Request.Context(), h.DB, middleware.UserIDFrom(c), opts)
	if err != nil {
		_ = c.Error(err)
		return
	}

	out := make([]models.FileResponse, 0, len(records))
	for i := range records {
		out = append(out, models.NewFileResponse(&records[i]))
	}
	c.JSON(http.StatusOK, models.FileListResponse{Files: out, Limit: opts.Limit, Offset: opts.Offset})
}

// Delete removes one of the caller's files and its thumbnail.
func (h *FileHandler) Delete(c *gin.Context) {
	ownerID := middleware.UserIDFrom(c)
	fileID := c.Param("id")

	record, err := storage.FindFileRecord(c.Request.Context(), h.DB, ownerID, fileID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := storage.DeleteFileRecord(c.Request.Context(), h.DB, ownerID, fileID); err != nil {
		_ = c.Error(err)
		return
	}
	h.removeStored(record)

	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}

func (h *FileHandler) removeStored(record *domain.StoredFile) {
	for _, rel := range []string{record.RelativePath, record.ThumbnailPath} {
		if rel == "" {
			continue
		}
		if err := h.Files.Delete(rel); err != nil {
			customLog.Warnf("Failed to remove %s: %v", rel, err)
		}
	}
}

func wantThumbnail(c *gin.Context) bool {
	v := c.Query("thumbnail")
	if v == "" {
		v = c.PostForm("thumbnail")
	}
	b, _ := strconv.ParseBool(v)
	return b
}
