package services

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"

	"github.com/prudhvinik1/fastcarsales/internal/config"
	"github.com/prudhvinik1/fastcarsales/internal/logger"
	"github.com/prudhvinik1/fastcarsales/internal/scanner"
)

// ObjectStore is implemented by storage.Client.
type ObjectStore interface {
	Put(ctx context.Context, name string, data []byte, contentType string) error
	Exists(ctx context.Context, name string) (bool, error)
	Delete(ctx context.Context, name string) error
	PresignedGetURL(ctx context.Context, name string, expiry time.Duration) (*url.URL, error)
}

// MalwareScanner is implemented by scanner.Scanner.
type MalwareScanner interface {
	Scan(ctx context.Context, r io.Reader) (scanner.Verdict, error)
}

type StorageService struct {
	store         ObjectStore
	scanner       MalwareScanner
	limits        config.Upload
	publicURL     *url.URL
	presignExpiry time.Duration
	log           *logger.Logger
}

// NewStorageService validates publicURL eagerly; an empty publicURL disables host rewriting.
func NewStorageService(
	store ObjectStore,
	malware MalwareScanner,
	limits config.Upload,
	publicURL string,
	presignExpiry time.Duration,
	log *logger.Logger,
) (*StorageService, error) {
	s := &StorageService{
		store:         store,
		scanner:       malware,
		limits:        limits,
		presignExpiry: presignExpiry,
		log:           log.With("storage"),
	}

	if publicURL != "" {
		u, err := url.Parse(publicURL)
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("invalid public url %q", publicURL)
		}
		s.publicURL = u
	}

	return s, nil
}

// UploadImage runs the safety gates in order and stores data only when all pass.
// It returns the sniffed MIME type and the generated object name.
func (s *StorageService) UploadImage(ctx context.Context, data []byte) (string, string, error) {
	size := int64(len(data))
	if size == 0 {
		s.log.Warn().Msg("empty upload rejected")
		return "", "", ErrEmptyFile
	}
	if s.limits.MaxSize > 0 && size > s.limits.MaxSize {
		s.log.Warn().Int64("size", size).Msg("oversized upload rejected")
		return "", "", ErrPayloadTooLarge.WithDescription(
			fmt.Sprintf("File size %d exceeds limit of %d bytes", size, s.limits.MaxSize))
	}

	detected := mimetype.Detect(data)
	mime := baseMIME(detected.String())
	if !s.allowed(detected) {
		s.log.Warn().Str("mime", mime).Msg("unsupported upload type rejected")
		return "", "", ErrUnsupportedType.WithDescription(fmt.Sprintf("File type %s is not allowed", mime))
	}

	if err := s.checkImage(data); err != nil {
		s.log.Warn().Err(err).Msg("invalid image rejected")
		return "", "", err
	}

	if err := s.scan(ctx, data); err != nil {
		return "", "", err
	}

	id := uuid.New()
	objectName := hex.EncodeToString(id[:]) + "." + extensionFor(mime)

	if err := s.store.Put(ctx, objectName, data, mime); err != nil {
		s.log.Error().Err(err).Str("object", objectName).Msg("object upload failed")
		return "", "", ErrUploadFailed
	}

	s.log.Info().Str("object", objectName).Str("mime", mime).Int64("size", size).Msg("file uploaded")
	return mime, objectName, nil
}

func (s *StorageService) allowed(detected *mimetype.MIME) bool {
	for _, m := range s.limits.AllowedMIMEs {
		if detected.Is(strings.TrimSpace(m)) {
			return true
		}
	}
	return false
}

// checkImage bounds the pixel count from the header before decoding the whole image.
func (s *StorageService) checkImage(data []byte) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ErrInvalidImage
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return ErrInvalidImage
	}
	if s.limits.MaxPixels > 0 && cfg.Width*cfg.Height > s.limits.MaxPixels {
		return ErrInvalidImage.WithDescription(
			fmt.Sprintf("Image of %dx%d pixels exceeds limit of %d pixels", cfg.Width, cfg.Height, s.limits.MaxPixels))
	}
	if _, _, err := image.Decode(bytes.NewReader(data)); err != nil {
		return ErrInvalidImage
	}
	return nil
}

func (s *StorageService) scan(ctx context.Context, data []byte) error {
	verdict, err := s.scanner.Scan(ctx, bytes.NewReader(data))
	if errors.Is(err, scanner.ErrUnavailable) {
		s.log.Error().Err(err).Msg("antivirus unavailable")
		return ErrScannerUnavailable.WithDescription(fmt.Sprintf("Error connecting to ClamAV: %v", err))
	}
	if err != nil {
		s.log.Error().Err(err).Msg("antivirus scan failed")
		return ErrScanError.WithDescription(fmt.Sprintf("Error during antivirus scan: %v", err))
	}
	if !verdict.Clean {
		s.log.Warn().Str("threat", verdict.Threat).Msg("malware detected in upload")
		return ErrMalwareDetected.WithDescription("Malware detected: " + verdict.Threat)
	}
	return nil
}

// GetPresignedURL returns a signed GET URL served from the public host.
func (s *StorageService) GetPresignedURL(ctx context.Context, name string) (string, error) {
	u, err := s.store.PresignedGetURL(ctx, name, s.presignExpiry)
	if err != nil {
		return "", err
	}
	if s.publicURL != nil {
		u.Scheme = s.publicURL.Scheme
		u.Host = s.publicURL.Host
	}
	return u.String(), nil
}

func (s *StorageService) DeleteFile(ctx context.Context, name string) error {
	exists, err := s.store.Exists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return ErrFileNotFound.WithDescription(fmt.Sprintf("File %s does not exist", name))
	}
	if err := s.store.Delete(ctx, name); err != nil {
		return err
	}
	s.log.Info().Str("object", name).Msg("file deleted")
	return nil
}

func baseMIME(m string) string {
	if i := strings.IndexByte(m, ';'); i >= 0 {
		m = m[:i]
	}
	return strings.TrimSpace(m)
}

func extensionFor(mime string) string {
	ext := mime
	if i := strings.LastIndexByte(mime, '/'); i >= 0 {
		ext = mime[i+1:]
	}
	if ext == "jpeg" {
		return "jpg"
	}
	return ext
}
