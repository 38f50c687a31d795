package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"

	"medhaven/internal/config"
	"medhaven/internal/domain"
	apperrors "medhaven/pkg/errors"
	"medhaven/pkg/logger"
)

// AssetHost stores a file and returns where it can be fetched.
type AssetHost interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (*domain.Asset, error)
}

type AssetService interface {
	UploadImage(ctx context.Context, uploaderID string, body io.Reader, size int64) (*domain.Asset, error)
}

type assetService struct {
	host AssetHost
	cfg  config.UploadConfig
	log  logger.Logger
}

func NewAssetService(host AssetHost, cfg config.UploadConfig, log logger.Logger) AssetService {
	return &assetService{
		host: host,
		cfg:  cfg,
		log:  log,
	}
}

func (s *assetService) UploadImage(ctx context.Context, uploaderID string, body io.Reader, size int64) (*domain.Asset, error) {
	if size > s.cfg.MaxBytes {
		return nil, apperrors.Validation(s.sizeMessage())
	}

	data, err := io.ReadAll(io.LimitReader(body, s.cfg.MaxBytes+1))
	if err != nil {
		return nil, apperrors.Validation("failed to read image")
	}
	if int64(len(data)) > s.cfg.MaxBytes {
		return nil, apperrors.Validation(s.sizeMessage())
	}
	if len(data) == 0 {
		return nil, apperrors.Validation("image is empty")
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), s.cfg.AllowedMIME...) {
		return nil, apperrors.Validation("only png, jpeg and webp images are allowed")
	}

	dims, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.Validation("image could not be decoded")
	}
	if s.cfg.MaxPixels > 0 && int64(dims.Width)*int64(dims.Height) > int64(s.cfg.MaxPixels) {
		s.log.Warn("Rejected oversized image", "uploader_id", uploaderID, "width", dims.Width, "height", dims.Height)
		return nil, apperrors.Validation("image dimensions are too large")
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.Validation("image could not be decoded")
	}

	if format, ok := encodableFormat(mtype.String()); ok && s.cfg.MaxWidth > 0 && img.Bounds().Dx() > s.cfg.MaxWidth {
		var buf bytes.Buffer
		resized := imaging.Resize(img, s.cfg.MaxWidth, 0, imaging.Lanczos)
		if err := imaging.Encode(&buf, resized, format); err != nil {
			s.log.Error("Failed to re-encode image", "error", err)
			return nil, apperrors.Upstream("process image", err)
		}
		s.log.Debug("Downscaled image", "from_width", img.Bounds().Dx(), "to_width", s.cfg.MaxWidth)
		data = buf.Bytes()
	}

	key := fmt.Sprintf("%s/%s/%d_%s%s", s.cfg.Folder, uploaderID, time.Now().UnixNano(), uuid.NewString(), mtype.Extension())
	asset, err := s.host.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), mtype.String())
	if err != nil {
		s.log.Error("Failed to upload image", "error", err, "key", key)
		return nil, apperrors.Upstream("upload image", err)
	}

	return asset, nil
}

func (s *assetService) sizeMessage() string {
	return fmt.Sprintf("image must be at most %d MB", s.cfg.MaxBytes/(1024*1024))
}

func encodableFormat(mime string) (imaging.Format, bool) {
	switch mime {
	case "image/png":
		return imaging.PNG, true
	case "image/jpeg":
		return imaging.JPEG, true
	}
	return 0, false
}
