package assets

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"medhaven/internal/config"
	"medhaven/internal/domain"
	"medhaven/pkg/logger"
)

// ObjectPutter is the part of *s3.Client the host needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Host stores chat attachments in a public-read S3 bucket.
type S3Host struct {
	client ObjectPutter
	cfg    config.AssetsConfig
	log    logger.Logger
}

func NewS3Host(ctx context.Context, cfg config.AssetsConfig, log logger.Logger) (*S3Host, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	})

	return NewS3HostWithClient(client, cfg, log), nil
}

func NewS3HostWithClient(client ObjectPutter, cfg config.AssetsConfig, log logger.Logger) *S3Host {
	return &S3Host{client: client, cfg: cfg, log: log}
}

func (h *S3Host) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (*domain.Asset, error) {
	if h.cfg.Bucket == "" {
		return nil, fmt.Errorf("asset bucket is not configured")
	}

	_, err := h.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(h.cfg.Bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		ACL:           types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		h.log.Error("Failed to put object", "error", err, "bucket", h.cfg.Bucket, "key", key)
		return nil, fmt.Errorf("put object %s: %w", key, err)
	}

	h.log.Info("Asset uploaded", "key", key, "size", size)
	return &domain.Asset{SecureURL: h.URL(key), PublicID: key}, nil
}

// URL is the public address of key.
func (h *S3Host) URL(key string) string {
	if h.cfg.PublicBaseURL != "" {
		return strings.TrimRight(h.cfg.PublicBaseURL, "/") + "/" + key
	}
	if h.cfg.Endpoint != "" && h.cfg.PathStyle {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(h.cfg.Endpoint, "/"), h.cfg.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", h.cfg.Bucket, h.cfg.Region, key)
}
