package service

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alumnet/alumni-backend/internal/config"
)

// Sentinel errors for media uploads.
var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
)

// Allowed image MIME types.
var allowedMIMETypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// MediaService stores avatar uploads on local disk.
type MediaService struct {
	cfg *config.Config
	now func() time.Time
}

// NewMediaService creates a new MediaService.
func NewMediaService(cfg *config.Config) *MediaService {
	return &MediaService{cfg: cfg, now: time.Now}
}

// SaveAvatar stores an uploaded image as avatar_<unix-millis><ext> and
// returns its public URL: /uploads/<name>, prefixed with PUBLIC_BASE_URL
// when configured.
func (s *MediaService) SaveAvatar(file multipart.File, header *multipart.FileHeader) (string, error) {
	contentType := header.Header.Get("Content-Type")
	ext, ok := allowedMIMETypes[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFileType, contentType)
	}

	if header.Size > s.cfg.MaxUploadBytes() {
		return "", fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, header.Size, s.cfg.MaxUploadBytes())
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	filename := fmt.Sprintf("avatar_%d%s", s.now().UnixMilli(), ext)
	dst, err := os.OpenFile(filepath.Join(s.cfg.UploadDir, filename), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	// One byte past the limit catches clients that under-report Size.
	n, err := io.Copy(dst, io.LimitReader(file, s.cfg.MaxUploadBytes()+1))
	if err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	if n > s.cfg.MaxUploadBytes() {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, s.cfg.MaxUploadBytes())
	}

	return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/uploads/" + filename, nil
}
