// internal/files/file_service.go
package files

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/campustrade/campustrade-api/internal/core"
	"github.com/campustrade/campustrade-api/internal/logger"
	"github.com/campustrade/campustrade-api/internal/options"
)

var (
	ErrEmptyFile           = errors.New("file is empty")
	ErrFileTooLarge        = errors.New("file exceeds the maximum allowed size")
	ErrExtensionNotAllowed = errors.New("file extension is not allowed")
	ErrContentTypeMismatch = errors.New("file content does not match an allowed type")
	ErrInvalidPath         = errors.New("invalid file path")
	customLog              = logger.NewLogger()
)

// sniffLen is how many leading bytes are inspected for content detection.
const sniffLen = 3072

// SavedFile describes a file written under the upload root.
type SavedFile struct {
	OriginalName string
	RelativePath string // slash separated, relative to UploadPath
	AbsolutePath string
	URL          string
	ContentType  string
	Extension    string
	Size         int64
}

// FileService stores uploads on the local filesystem under UploadPath and
// exposes them below BaseURL.
type FileService struct {
	opts options.FileStorageOptions
	root string
	now  func() time.Time
}

// NewFileService creates the upload root if needed.
func NewFileService(opts options.FileStorageOptions) (*FileService, error) {
	root, err := filepath.Abs(opts.UploadPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload path: %w", err)
	}
	if err := os.MkdirAll(root, 0750); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	customLog.Printf("Files: storing uploads in %s, served at %s", root, opts.BaseURL)
	return &FileService{opts: opts, root: root, now: time.Now}, nil
}

// Root is the absolute upload directory.
func (s *FileService) Root() string { return s.root }

// Options returns the storage options.
func (s *FileService) Options() options.FileStorageOptions { return s.opts }

// Save stores a multipart upload.
func (s *FileService) Save(ctx context.Context, header *multipart.FileHeader) (*SavedFile, error) {
	if header.Size > s.opts.MaxFileSize {
		return nil, ErrFileTooLarge
	}
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()
	return s.SaveReader(ctx, header.Filename, f)
}

// SaveReader validates and stores content read from r. The size limit is
// enforced on the bytes actually read, not on what the client declared.
func (s *FileService) SaveReader(ctx context.Context, originalName string, r io.Reader) (*SavedFile, error) {
	ext, ok := core.NormalizeAndValidateExtension(originalName, s.opts.AllowedExtensions)
	if !ok {
		return nil, ErrExtensionNotAllowed
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return nil, ErrEmptyFile
	}

	detected := mimetype.Detect(head)
	if len(s.opts.AllowedExtensions) > 0 {
		if _, ok := core.NormalizeAndValidateExtension("x"+detected.Extension(), s.opts.AllowedExtensions); !ok {
			customLog.Warnf("Files: rejected %s, detected %s", originalName, detected.String())
			return nil, ErrContentTypeMismatch
		}
	}

	now := s.now().UTC()
	rel := path.Join(fmt.Sprintf("%04d", now.Year()), fmt.Sprintf("%02d", int(now.Month())), uuid.NewString()+ext)
	abs := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0750); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	out, err := os.OpenFile(abs, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0640)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	limited := io.LimitReader(io.MultiReader(bytes.NewReader(head), contextReader{ctx: ctx, r: r}), s.opts.MaxFileSize+1)
	written, copyErr := io.Copy(out, limited)
	closeErr := out.Close()

	switch {
	case copyErr != nil:
		_ = os.Remove(abs)
		return nil, fmt.Errorf("failed to write file: %w", copyErr)
	case closeErr != nil:
		_ = os.Remove(abs)
		return nil, fmt.Errorf("failed to write file: %w", closeErr)
	case written > s.opts.MaxFileSize:
		_ = os.Remove(abs)
		return nil, ErrFileTooLarge
	}

	return &SavedFile{
		OriginalName: filepath.Base(originalName),
		RelativePath: rel,
		AbsolutePath: abs,
		URL:          s.URLFor(rel),
		ContentType:  detected.String(),
		Extension:    ext,
		Size:         written,
	}, nil
}

// AbsolutePath resolves a relative upload path, rejecting traversal.
func (s *FileService) AbsolutePath(rel string) (string, error) {
	if !core.IsSafeRelativePath(rel) {
		return "", ErrInvalidPath
	}
	return filepath.Join(s.root, filepath.FromSlash(rel)), nil
}

// URLFor is the public URL of a relative upload path.
func (s *FileService) URLFor(rel string) string {
	return strings.TrimRight(s.opts.BaseURL, "/") + "/" + strings.TrimLeft(rel, "/")
}

// Exists reports whether rel names an existing regular file.
func (s *FileService) Exists(rel string) bool {
	abs, err := s.AbsolutePath(rel)
	if err != nil {
		return false
	}
	info, err := os.Stat(abs)
	return err == nil && info.Mode().IsRegular()
}

// Delete removes a stored file. Missing files are not an error.
func (s *FileService) Delete(rel string) error {
	abs, err := s.AbsolutePath(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
