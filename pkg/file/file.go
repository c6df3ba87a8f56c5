package file

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
)

// File describes a stored object.
type File struct {
	Filename     string
	Size         int64
	MIMEType     string
	Extension    string
	RelativePath string
}

// Storage is implemented by LocalStorage and S3Storage.
type Storage interface {
	// Save writes the upload to path and returns its metadata.
	Save(ctx context.Context, fh *multipart.FileHeader, path string) (*File, error)
	// Delete removes one object. Missing objects return ErrFileNotFound.
	Delete(ctx context.Context, path string) error
	// URL returns the public URL of a stored path.
	URL(path string) string
}

// Backend names accepted by Config.Backend.
const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

// Config selects and configures a backend.
type Config struct {
	Backend  string `env:"FILE_STORAGE" envDefault:"local"`
	LocalDir string `env:"LOCAL_UPLOAD_DIR" envDefault:"./uploads"`
	LocalURL string `env:"LOCAL_UPLOAD_URL" envDefault:"/media/"`
	S3       S3Config
}

// New builds the backend named by cfg.Backend.
func New(ctx context.Context, cfg Config, opts ...S3Option) (Storage, error) {
	switch strings.ToLower(cfg.Backend) {
	case BackendLocal, "":
		return NewLocalStorage(cfg.LocalDir, cfg.LocalURL)
	case BackendS3:
		return NewS3Storage(ctx, cfg.S3, opts...)
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, cfg.Backend)
	}
}

// MaxImageSize is the largest accepted profile image.
const MaxImageSize int64 = 5 << 20

var (
	imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}
	imageMIMETypes  = map[string]bool{"image/jpeg": true, "image/png": true, "image/webp": true}
)

// ValidateImage checks size, extension and sniffed content type. The
// content must match one of the allowed types regardless of the declared
// Content-Type header.
func ValidateImage(fh *multipart.FileHeader) error {
	if fh == nil {
		return ErrNilFileHeader
	}
	if fh.Size > MaxImageSize {
		return fmt.Errorf("file size %d bytes exceeds %d bytes limit: %w", fh.Size, MaxImageSize, ErrFileTooLarge)
	}

	ext := GetExtension(fh)
	if !imageExtensions[ext] {
		return fmt.Errorf("%w: %q", ErrExtensionNotAllowed, ext)
	}

	mimeType, err := GetMIMEType(fh)
	if err != nil {
		return err
	}
	if !imageMIMETypes[mimeType] {
		return fmt.Errorf("%w: %s", ErrMIMETypeNotAllowed, mimeType)
	}
	return nil
}

// GetExtension returns the lowercased extension including the dot.
func GetExtension(fh *multipart.FileHeader) string {
	if fh == nil {
		return ""
	}
	return strings.ToLower(path.Ext(fh.Filename))
}

// GetMIMEType sniffs the first 512 bytes of the upload.
func GetMIMEType(fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", ErrNilFileHeader
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToOpenFile, err)
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, 512)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}
	if n == 0 {
		return "", fmt.Errorf("%w: empty file", ErrFailedToDetectMIMEType)
	}

	return http.DetectContentType(buf[:n]), nil
}

// cleanKey normalizes a storage path and rejects traversal.
func cleanKey(p string) (string, error) {
	p = strings.ReplaceAll(p, "\\", "/")
	for seg := range strings.SplitSeq(p, "/") {
		if seg == ".." {
			return "", fmt.Errorf("%w: %s", ErrInvalidPath, p)
		}
	}
	cleaned := strings.TrimPrefix(path.Clean("/"+p), "/")
	if cleaned == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidPath)
	}
	return cleaned, nil
}
